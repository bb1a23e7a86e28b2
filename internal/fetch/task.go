package fetch

// Task describes one image to fetch: the owning game's identity resolved to
// sanitized path segments, plus the raw remote file reference. Tasks are
// immutable values; each is consumed by exactly one worker.
type Task struct {
	GameID   string
	GameName string
	Platform string
	Region   string
	Type     string
	FileName string
}

// Outcome classifies how a task finished.
type Outcome int

const (
	OutcomeDownloaded Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the terminal record for one task. Path is the final file for
// downloaded tasks and the matched stem for skipped ones; URL and Err are
// set on failure.
type Result struct {
	Task    Task
	Outcome Outcome
	Path    string
	URL     string
	Err     error
}
