// Package animate schedules step-wise work, such as layout ticks, onto a
// frame loop owned by the caller.
//
// There is no global queue: each [Scheduler] is created by the code that
// drives frames (a TUI, a test, a render loop) and polled once per frame.
//
//	s := animate.NewScheduler()
//	s.Add(l) // *layout.Layout implements Task
//	for s.Len() > 0 {
//	    if err := s.Poll(); err != nil {
//	        return err
//	    }
//	    draw()
//	}
package animate

import (
	"sort"
	"sync"
)

// Task is advanced one step per frame until it reports done.
type Task interface {
	Step() (done bool, err error)
}

// TaskFunc adapts a function to a Task.
type TaskFunc func() (bool, error)

// Step calls f.
func (f TaskFunc) Step() (bool, error) { return f() }

// ID identifies a task within its scheduler.
type ID uint64

// Scheduler holds pending tasks. It is safe for concurrent use; Add and
// Remove may be called from within a task's Step.
type Scheduler struct {
	mu    sync.Mutex
	next  ID
	tasks map[ID]Task
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[ID]Task)}
}

// Add queues t and returns its ID.
func (s *Scheduler) Add(t Task) ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.tasks[s.next] = t
	return s.next
}

// Remove drops a task. Unknown IDs are ignored.
func (s *Scheduler) Remove(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Poll steps every pending task once, in the order they were added, and
// removes those that are done. A task that fails is removed too; Poll keeps
// stepping the rest and returns the first error.
func (s *Scheduler) Poll() error {
	s.mu.Lock()
	ids := make([]ID, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var first error
	for _, id := range ids {
		s.mu.Lock()
		t, ok := s.tasks[id]
		s.mu.Unlock()
		if !ok {
			continue
		}
		done, err := t.Step()
		if err != nil && first == nil {
			first = err
		}
		if done || err != nil {
			s.Remove(id)
		}
	}
	return first
}
