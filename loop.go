package warpgrid

import "context"

// Task is a recurring callback registered on a Schedule. It runs once per
// Schedule.Run until it is stopped or its context ends.
type Task struct {
	name   string
	fn     func()
	ctx    context.Context
	cancel context.CancelFunc
	runs   uint64
}

// Name returns the task's name.
func (t *Task) Name() string { return t.name }

// Runs returns how many times the task has run.
func (t *Task) Runs() uint64 { return t.runs }

// Stop stops the task. It is not run again.
func (t *Task) Stop() { t.cancel() }

// Alive reports whether the task will run on the next Schedule.Run.
func (t *Task) Alive() bool { return t.ctx.Err() == nil }

// Schedule is a list of recurring tasks driven by one host callback. The
// game runs the pan task on its Update schedule and the render task on its
// Draw schedule, so each loop advances at its own rate on the game
// goroutine.
type Schedule struct {
	name  string
	tasks []*Task
}

// NewSchedule creates an empty schedule.
func NewSchedule(name string) *Schedule {
	return &Schedule{name: name}
}

// Every registers fn to run on each Run until ctx ends or the returned task
// is stopped.
func (s *Schedule) Every(ctx context.Context, name string, fn func()) *Task {
	tctx, cancel := context.WithCancel(ctx)
	t := &Task{name: name, fn: fn, ctx: tctx, cancel: cancel}
	s.tasks = append(s.tasks, t)
	return t
}

// Run runs every live task once, in registration order, and drops stopped
// tasks. It returns the number of tasks run.
func (s *Schedule) Run() int {
	n := 0
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.Alive() {
			continue
		}
		t.fn()
		t.runs++
		n++
		if t.Alive() {
			live = append(live, t)
		}
	}
	clear(s.tasks[len(live):])
	s.tasks = live
	return n
}

// Len returns the number of tasks still registered.
func (s *Schedule) Len() int {
	return len(s.tasks)
}

// StopAll stops every task.
func (s *Schedule) StopAll() {
	for _, t := range s.tasks {
		t.Stop()
	}
	clear(s.tasks)
	s.tasks = s.tasks[:0]
}
