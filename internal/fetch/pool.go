package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"boxart/internal/logging"
)

// Pool runs a fixed number of workers over a shared queue. Each worker loops
// dequeue, execute, record until the queue is empty, then exits; the queue
// itself balances uneven per-task latency across workers.
type Pool struct {
	workers    int
	client     *Client
	cache      *ExistsCache
	outputRoot string
	tracker    *Tracker
	logger     *slog.Logger
	onResult   func(Result)
}

// NewPool assembles a pool. onResult, when non-nil, is invoked for every
// finished task from worker goroutines (calls are serialized).
func NewPool(workers int, client *Client, cache *ExistsCache, outputRoot string, tracker *Tracker, logger *slog.Logger, onResult func(Result)) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers:    workers,
		client:     client,
		cache:      cache,
		outputRoot: outputRoot,
		tracker:    tracker,
		logger:     logging.NewComponentLogger(logger, "fetch"),
		onResult:   onResult,
	}
}

// Run drains the queue and returns one result per task. It blocks until
// every worker has exited.
func (p *Pool) Run(ctx context.Context, queue *Queue) []Result {
	var (
		mu      sync.Mutex
		results = make([]Result, 0, queue.Len())
		wg      sync.WaitGroup
	)

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				task, ok := queue.Pop()
				if !ok {
					return
				}
				result := p.execute(ctx, task)
				p.tracker.Increment()

				mu.Lock()
				results = append(results, result)
				if p.onResult != nil {
					p.onResult(result)
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return results
}

// execute resolves one task: existence check, download, content-type-driven
// placement, cache update. Every failure becomes a Result; nothing aborts
// the worker.
func (p *Pool) execute(ctx context.Context, task Task) Result {
	dir := filepath.Join(p.outputRoot, task.Platform, task.GameName, task.Region)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Task: task, Outcome: OutcomeFailed, Err: fmt.Errorf("create directory: %w", err)}
	}

	stem := filepath.Join(dir, task.Type)
	if p.cache.Exists(stem) {
		return Result{Task: task, Outcome: OutcomeSkipped, Path: stem}
	}

	endpoint := p.client.URL(task.FileName)
	data, contentType, err := p.client.Fetch(ctx, task.FileName)
	if err != nil {
		p.logger.Debug("download failed",
			logging.String("url", endpoint),
			logging.String("game", task.GameName),
			logging.Error(err))
		return Result{Task: task, Outcome: OutcomeFailed, URL: endpoint, Err: err}
	}

	finalPath := stem + extensionFor(contentType)
	if err := os.WriteFile(finalPath, data, 0o644); err != nil {
		return Result{Task: task, Outcome: OutcomeFailed, URL: endpoint, Err: fmt.Errorf("write file: %w", err)}
	}

	p.cache.Record(stem, finalPath)
	return Result{Task: task, Outcome: OutcomeDownloaded, Path: finalPath, URL: endpoint}
}

// extensionFor maps a declared content type to a file extension. The remote
// host serves JPEG without a reliable header often enough that .jpg is the
// default.
func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}
