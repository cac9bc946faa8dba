package schedule

import (
	"log"
	"time"
)

// TaskKind names a category of deferred optimization work.
type TaskKind int

const (
	TaskPoolCleanup TaskKind = iota
	TaskGeometry
	TaskMemory
	TaskRender
	TaskUpdate
)

func (k TaskKind) String() string {
	switch k {
	case TaskPoolCleanup:
		return "pool-cleanup"
	case TaskGeometry:
		return "geometry"
	case TaskMemory:
		return "memory"
	case TaskRender:
		return "render"
	case TaskUpdate:
		return "update"
	}
	return "unknown"
}

// Strategy scales how hard a task works.
type Strategy int

const (
	Conservative Strategy = iota
	Moderate
	Aggressive
)

func (s Strategy) String() string {
	switch s {
	case Conservative:
		return "conservative"
	case Moderate:
		return "moderate"
	case Aggressive:
		return "aggressive"
	}
	return "unknown"
}

// Task is one unit of deferred optimization work.
type Task struct {
	Kind      TaskKind
	Strategy  Strategy
	CreatedAt time.Time
}

// TaskResult reports a single execution. Failed tasks are not retried.
type TaskResult struct {
	Task        Task          `json:"-"`
	Kind        string        `json:"kind"`
	Strategy    string        `json:"strategy"`
	Success     bool          `json:"success"`
	Improvement float64       `json:"improvement"` // estimated ms saved per frame
	Description string        `json:"description"`
	Elapsed     time.Duration `json:"-"`
}

// TaskExecutor performs one task kind at a given strategy, returning the
// estimated improvement and a human-readable description.
type TaskExecutor func(Strategy) (improvement float64, description string, err error)

// TaskQueue is a bounded FIFO of optimization tasks. Tasks past the
// ceiling are dropped at enqueue time; the queue never blocks the frame.
type TaskQueue struct {
	tasks   []Task
	max     int
	dropped uint64
	now     func() time.Time
}

func NewTaskQueue(max int) *TaskQueue {
	if max < 1 {
		max = 1
	}
	return &TaskQueue{max: max, now: time.Now}
}

// SetClock replaces the queue's time source for tests.
func (q *TaskQueue) SetClock(now func() time.Time) {
	if now != nil {
		q.now = now
	}
}

// Enqueue appends a task, reporting false when the queue is at its cap.
func (q *TaskQueue) Enqueue(kind TaskKind, strategy Strategy) bool {
	if len(q.tasks) >= q.max {
		q.dropped++
		return false
	}
	q.tasks = append(q.tasks, Task{Kind: kind, Strategy: strategy, CreatedAt: q.now()})
	return true
}

func (q *TaskQueue) Pending() int    { return len(q.tasks) }
func (q *TaskQueue) Dropped() uint64 { return q.dropped }

// Drain pops and executes tasks within the budget. exec maps a task kind
// to its executor; a missing executor or a panicking/failing execution
// marks that task's result failed and the drain moves on. Each result is
// passed to onResult when non-nil.
func (q *TaskQueue) Drain(budget time.Duration, exec map[TaskKind]TaskExecutor, onResult func(TaskResult)) int {
	deadline := q.now().Add(budget)
	ran := 0
	for len(q.tasks) > 0 {
		if budget > 0 && !q.now().Before(deadline) {
			break
		}
		t := q.tasks[0]
		copy(q.tasks, q.tasks[1:])
		q.tasks = q.tasks[:len(q.tasks)-1]

		res := q.execute(t, exec[t.Kind])
		ran++
		if onResult != nil {
			onResult(res)
		}
	}
	return ran
}

func (q *TaskQueue) execute(t Task, fn TaskExecutor) (res TaskResult) {
	res = TaskResult{
		Task:     t,
		Kind:     t.Kind.String(),
		Strategy: t.Strategy.String(),
	}
	if fn == nil {
		res.Description = "no executor registered"
		return res
	}
	start := q.now()
	defer func() {
		res.Elapsed = q.now().Sub(start)
		if r := recover(); r != nil {
			log.Printf("schedule: %s task panicked: %v", t.Kind, r)
			res.Success = false
			res.Improvement = 0
			res.Description = "task panicked"
		}
	}()
	improvement, desc, err := fn(t.Strategy)
	if err != nil {
		log.Printf("schedule: %s task failed: %v", t.Kind, err)
		res.Description = err.Error()
		return res
	}
	res.Success = true
	res.Improvement = improvement
	res.Description = desc
	return res
}
