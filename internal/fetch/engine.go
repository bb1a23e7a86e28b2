package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"boxart/internal/catalog"
	"boxart/internal/config"
	"boxart/internal/logging"
	"boxart/internal/textutil"
)

// Summary aggregates a finished run.
type Summary struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
	Elapsed    time.Duration
	Failures   []Result
}

// Speed returns the average throughput in images per second.
func (s *Summary) Speed() float64 {
	seconds := s.Elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(s.Total) / seconds
}

// Engine wires the queue, worker pool, retry client, existence cache, and
// progress reporter together for one run.
type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	out      io.Writer
	interval time.Duration
}

// NewEngine creates an engine writing operator-visible output to out.
func NewEngine(cfg *config.Config, logger *slog.Logger, out io.Writer) *Engine {
	return &Engine{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "fetch"),
		out:      out,
		interval: 500 * time.Millisecond,
	}
}

// BuildTasks derives one task per image of the given games, pairing each
// image with its owner's sanitized name and platform. Rows the catalog
// dropped as malformed never reach this point, so every task is executable.
func (e *Engine) BuildTasks(cat *catalog.Catalog, games []catalog.Game) []Task {
	var tasks []Task
	for _, game := range games {
		name := textutil.SanitizePathSegment(game.Name)
		platform := textutil.SanitizePathSegment(game.Platform)
		for _, img := range cat.ImagesForGame(game.DatabaseID) {
			tasks = append(tasks, Task{
				GameID:   game.DatabaseID,
				GameName: name,
				Platform: platform,
				Region:   textutil.SanitizePathSegment(img.Region),
				Type:     textutil.SanitizePathSegment(img.Type),
				FileName: img.FileName,
			})
		}
	}
	return tasks
}

// Run executes the download for the given tasks and returns the summary.
// With no tasks it reports so and starts neither pool nor reporter.
func (e *Engine) Run(ctx context.Context, tasks []Task) (*Summary, error) {
	if len(tasks) == 0 {
		fmt.Fprintln(e.out, "No images to process.")
		return &Summary{}, nil
	}

	runID := uuid.NewString()
	logger := e.logger.With(logging.String("run_id", runID))
	logger.Info("starting download run",
		logging.Int("tasks", len(tasks)),
		logging.Int("workers", e.cfg.Fetch.Workers),
		logging.String("output_dir", e.cfg.Paths.OutputDir))

	client, err := NewClient(
		e.cfg.Source.BaseURL,
		e.cfg.Source.Retries,
		e.cfg.RetryBackoff(),
		e.cfg.RequestTimeout(),
	)
	if err != nil {
		return nil, fmt.Errorf("build fetch client: %w", err)
	}

	cache := NewExistsCache(e.cfg.Fetch.ExistingFileMatch)
	tracker := NewTracker(len(tasks))
	tty := writerIsTerminal(e.out)

	// The reporter goroutine and the worker result callbacks share the
	// output writer, so writes go through one lock.
	out := &syncWriter{w: e.out}

	start := time.Now()
	reporter := NewReporter(tracker, out, e.interval, tty)
	reporter.Start(start)

	pool := NewPool(
		e.cfg.Fetch.Workers,
		client, cache,
		e.cfg.Paths.OutputDir,
		tracker, logger,
		func(result Result) { e.printResult(out, result, tty) },
	)
	results := pool.Run(ctx, NewQueue(tasks))
	reporter.Wait()

	summary := &Summary{Total: len(tasks), Elapsed: time.Since(start)}
	for _, result := range results {
		switch result.Outcome {
		case OutcomeDownloaded:
			summary.Downloaded++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
			summary.Failures = append(summary.Failures, result)
		}
	}

	fmt.Fprintf(e.out, "Completed processing %d images in %.2f seconds.\n", summary.Total, summary.Elapsed.Seconds())
	fmt.Fprintf(e.out, "Average speed: %.2f images/second\n", summary.Speed())

	logger.Info("download run finished",
		logging.Int("downloaded", summary.Downloaded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// printResult emits the per-task line for everything except skips, matching
// the operator-facing contract: skips stay silent, downloads and failures
// each get one line. On a terminal the line first breaks out of the
// progress line.
func (e *Engine) printResult(out io.Writer, result Result, tty bool) {
	if result.Outcome == OutcomeSkipped {
		return
	}
	prefix := ""
	if tty {
		prefix = "\n"
	}
	switch result.Outcome {
	case OutcomeDownloaded:
		fmt.Fprintf(out, "%sDownloaded: %s\n", prefix, result.Path)
	case OutcomeFailed:
		fmt.Fprintf(out, "%sFailed to download: %s. Error: %v\n", prefix, result.URL, result.Err)
	}
}

// syncWriter serializes concurrent writes to a shared writer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func writerIsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
