package fetch

import "sync"

// Queue is a thread-safe pool of pending tasks. The full task list is known
// up front, so Pop never blocks: a worker that finds the queue empty exits.
type Queue struct {
	mu    sync.Mutex
	tasks []Task
	head  int
}

// NewQueue builds a queue over the given tasks. The slice is not copied;
// callers must not reuse it.
func NewQueue(tasks []Task) *Queue {
	return &Queue{tasks: tasks}
}

// Pop removes and returns the next task. ok is false once the queue is
// drained. No two callers ever observe the same task.
func (q *Queue) Pop() (task Task, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head >= len(q.tasks) {
		return Task{}, false
	}
	task = q.tasks[q.head]
	q.tasks[q.head] = Task{}
	q.head++
	return task, true
}

// Len reports the number of tasks not yet dequeued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks) - q.head
}
