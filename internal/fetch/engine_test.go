package fetch_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"boxart/internal/catalog"
	"boxart/internal/config"
	"boxart/internal/fetch"
	"boxart/internal/logging"
	"boxart/internal/selection"
)

// imageServer serves fixed payloads keyed by unescaped file reference and
// counts requests per reference.
type imageServer struct {
	mu       sync.Mutex
	payloads map[string]struct {
		contentType string
		body        string
		status      int
	}
	hits map[string]int
}

func newImageServer() *imageServer {
	return &imageServer{
		payloads: make(map[string]struct {
			contentType string
			body        string
			status      int
		}),
		hits: make(map[string]int),
	}
}

func (s *imageServer) add(fileName, contentType, body string, status int) {
	s.payloads[fileName] = struct {
		contentType string
		body        string
		status      int
	}{contentType, body, status}
}

func (s *imageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fileName, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), "/"))
	if err != nil {
		http.Error(w, "bad escape", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.hits[fileName]++
	payload, ok := s.payloads[fileName]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if payload.status != 0 && payload.status != http.StatusOK {
		w.WriteHeader(payload.status)
		return
	}
	if payload.contentType != "" {
		w.Header().Set("Content-Type", payload.contentType)
	}
	w.Write([]byte(payload.body))
}

func (s *imageServer) hitCount(fileName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[fileName]
}

func (s *imageServer) totalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Source.BaseURL = baseURL
	cfg.Source.Retries = 3
	cfg.Source.RequestTimeout = 5
	cfg.Source.RetryBackoffMS = 1
	cfg.Fetch.Workers = 4
	cfg.Fetch.ExistingFileMatch = config.MatchStem
	return &cfg
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]catalog.Game{
			{DatabaseID: "1", Name: "Alpha Quest", Platform: "Console A"},
			{DatabaseID: "2", Name: "Beta Blaster", Platform: "Console A"},
			{DatabaseID: "3", Name: "Gamma Drive", Platform: "Console B"},
		},
		[]catalog.Image{
			{DatabaseID: "1", Region: "North America", Type: "Box - Front", FileName: "alpha-front.jpg"},
			{DatabaseID: "2", Region: "Europe", Type: "Box - Front", FileName: "beta-front.png"},
			{DatabaseID: "2", Region: "Europe", Type: "Box - Back", FileName: "beta-back.gif"},
			{DatabaseID: "3", Region: "", Type: "Screenshot", FileName: "gamma-shot"},
		},
	)
}

func TestBuildTasksCountsPerSelection(t *testing.T) {
	cat := testCatalog()
	engine := fetch.NewEngine(testConfig(t, "https://images.example.com"), logging.NewNop(), &bytes.Buffer{})

	gamesA, err := selection.Resolve(cat, selection.Options{Platforms: []string{"Console A"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if tasks := engine.BuildTasks(cat, gamesA); len(tasks) != 3 {
		t.Fatalf("platform A tasks = %d, want 3", len(tasks))
	}

	all, err := selection.Resolve(cat, selection.Options{All: true})
	if err != nil {
		t.Fatalf("Resolve all: %v", err)
	}
	if tasks := engine.BuildTasks(cat, all); len(tasks) != 4 {
		t.Fatalf("all tasks = %d, want 4", len(tasks))
	}
}

func TestBuildTasksSanitizesSegments(t *testing.T) {
	cat := catalog.New(
		[]catalog.Game{{DatabaseID: "1", Name: "Half-Life 2: Ep?", Platform: "PC/Windows"}},
		[]catalog.Image{{DatabaseID: "1", Region: "", Type: "Box - Front", FileName: "hl2.jpg"}},
	)
	engine := fetch.NewEngine(testConfig(t, "https://images.example.com"), logging.NewNop(), &bytes.Buffer{})

	tasks := engine.BuildTasks(cat, cat.Games())
	if len(tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(tasks))
	}
	task := tasks[0]
	if task.GameName != "Half-Life 2_ Ep_" {
		t.Fatalf("GameName = %q", task.GameName)
	}
	if task.Platform != "PC_Windows" {
		t.Fatalf("Platform = %q", task.Platform)
	}
	if task.Region != "Unknown" {
		t.Fatalf("Region = %q, want Unknown for empty region", task.Region)
	}
}

func TestRunDownloadsWithContentTypeExtensions(t *testing.T) {
	server := newImageServer()
	server.add("alpha-front.jpg", "image/jpeg", "jpeg-bytes", http.StatusOK)
	server.add("beta-front.png", "image/png", "png-bytes", http.StatusOK)
	server.add("beta-back.gif", "image/gif", "gif-bytes", http.StatusOK)
	server.add("gamma-shot", "", "untyped-bytes", http.StatusOK)
	ts := httptest.NewServer(server)
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	var out bytes.Buffer
	engine := fetch.NewEngine(cfg, logging.NewNop(), &out)

	cat := testCatalog()
	tasks := engine.BuildTasks(cat, cat.Games())
	summary, err := engine.Run(context.Background(), tasks)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Total != 4 || summary.Downloaded != 4 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	expected := []string{
		filepath.Join(cfg.Paths.OutputDir, "Console A", "Alpha Quest", "North America", "Box - Front.jpg"),
		filepath.Join(cfg.Paths.OutputDir, "Console A", "Beta Blaster", "Europe", "Box - Front.png"),
		filepath.Join(cfg.Paths.OutputDir, "Console A", "Beta Blaster", "Europe", "Box - Back.gif"),
		filepath.Join(cfg.Paths.OutputDir, "Console B", "Gamma Drive", "Unknown", "Screenshot.jpg"),
	}
	for _, path := range expected {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected file %s: %v", path, err)
		}
	}

	for _, fileName := range []string{"alpha-front.jpg", "beta-front.png", "beta-back.gif", "gamma-shot"} {
		if got := server.hitCount(fileName); got != 1 {
			t.Fatalf("%s requested %d times, want exactly once", fileName, got)
		}
	}

	if !strings.Contains(out.String(), "Completed processing 4 images") {
		t.Fatalf("missing summary line in output: %q", out.String())
	}
}

func TestRunSkipsExistingWithoutNetwork(t *testing.T) {
	server := newImageServer()
	ts := httptest.NewServer(server)
	defer ts.Close()

	cfg := testConfig(t, ts.URL)

	// Pre-create the destination from a hypothetical earlier run.
	dir := filepath.Join(cfg.Paths.OutputDir, "Console A", "Alpha Quest", "North America")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Box - Front.jpg"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := fetch.NewEngine(cfg, logging.NewNop(), &bytes.Buffer{})
	cat := testCatalog()
	games, err := selection.Resolve(cat, selection.Options{GameQuery: "alpha quest", All: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	summary, err := engine.Run(context.Background(), engine.BuildTasks(cat, games))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Skipped != 1 || summary.Downloaded != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want 1 skip", summary)
	}
	if server.totalHits() != 0 {
		t.Fatalf("server hits = %d, want 0 for skipped task", server.totalHits())
	}
}

func TestRunIdempotentSecondRun(t *testing.T) {
	server := newImageServer()
	server.add("alpha-front.jpg", "image/jpeg", "jpeg-bytes", http.StatusOK)
	server.add("beta-front.png", "image/png", "png-bytes", http.StatusOK)
	server.add("beta-back.gif", "image/gif", "gif-bytes", http.StatusOK)
	server.add("gamma-shot", "", "untyped-bytes", http.StatusOK)
	ts := httptest.NewServer(server)
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	cat := testCatalog()

	first := fetch.NewEngine(cfg, logging.NewNop(), &bytes.Buffer{})
	if _, err := first.Run(context.Background(), first.BuildTasks(cat, cat.Games())); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	hitsAfterFirst := server.totalHits()

	second := fetch.NewEngine(cfg, logging.NewNop(), &bytes.Buffer{})
	summary, err := second.Run(context.Background(), second.BuildTasks(cat, cat.Games()))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if summary.Skipped != summary.Total || summary.Downloaded != 0 {
		t.Fatalf("second run summary = %+v, want all skipped", summary)
	}
	if server.totalHits() != hitsAfterFirst {
		t.Fatalf("second run issued %d extra requests", server.totalHits()-hitsAfterFirst)
	}
}

func TestRunCollectsFailures(t *testing.T) {
	server := newImageServer()
	server.add("alpha-front.jpg", "image/jpeg", "jpeg-bytes", http.StatusOK)
	server.add("beta-front.png", "", "", http.StatusNotFound)
	server.add("beta-back.gif", "image/gif", "gif-bytes", http.StatusOK)
	server.add("gamma-shot", "", "untyped-bytes", http.StatusOK)
	ts := httptest.NewServer(server)
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	engine := fetch.NewEngine(cfg, logging.NewNop(), &bytes.Buffer{})
	cat := testCatalog()

	summary, err := engine.Run(context.Background(), engine.BuildTasks(cat, cat.Games()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Downloaded != 3 || summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 3 downloaded / 1 failed", summary)
	}
	if summary.Downloaded+summary.Skipped+summary.Failed != summary.Total {
		t.Fatalf("outcome sum %d != total %d",
			summary.Downloaded+summary.Skipped+summary.Failed, summary.Total)
	}
	if len(summary.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(summary.Failures))
	}
	failure := summary.Failures[0]
	if failure.URL == "" || failure.Err == nil {
		t.Fatalf("failure missing locator or error: %+v", failure)
	}
}

func TestRunRetriesTransientErrorsAtTaskLevel(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("bytes"))
	})
	ts := httptest.NewServer(handler)
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	cfg.Fetch.Workers = 1
	engine := fetch.NewEngine(cfg, logging.NewNop(), &bytes.Buffer{})

	cat := catalog.New(
		[]catalog.Game{{DatabaseID: "1", Name: "Alpha Quest", Platform: "Console A"}},
		[]catalog.Image{{DatabaseID: "1", Region: "Europe", Type: "Box - Front", FileName: "a.jpg"}},
	)
	summary, err := engine.Run(context.Background(), engine.BuildTasks(cat, cat.Games()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Downloaded != 1 {
		t.Fatalf("summary = %+v, want downloaded after two 502s", summary)
	}
}

func TestRunEmptyTaskSet(t *testing.T) {
	var out bytes.Buffer
	engine := fetch.NewEngine(testConfig(t, "https://images.example.com"), logging.NewNop(), &out)

	summary, err := engine.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 0 {
		t.Fatalf("summary = %+v, want empty", summary)
	}
	if !strings.Contains(out.String(), "No images to process.") {
		t.Fatalf("missing empty-set message: %q", out.String())
	}
}
