// Package fetch implements the concurrent download engine.
//
// The Engine turns selected games into download Tasks, then drains them
// through a fixed pool of workers sharing one Queue, one retrying Client,
// and one ExistsCache. Each worker loops dequeue, execute, record until the
// queue is empty. A Reporter samples the shared completion Tracker every
// half second and keeps a status line updated until every task is accounted
// for; the engine joins it before printing the final summary.
//
// Failures never cross worker boundaries as panics or aborts: every task
// produces exactly one Result (downloaded, skipped, or failed) and bumps the
// tracker exactly once, so the sum of outcomes always equals the task count.
package fetch
