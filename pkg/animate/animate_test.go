package animate

import (
	"errors"
	"reflect"
	"testing"
)

type countdown struct {
	name  string
	left  int
	trace *[]string
}

func (c *countdown) Step() (bool, error) {
	*c.trace = append(*c.trace, c.name)
	c.left--
	return c.left <= 0, nil
}

func TestPollRunsTasksToCompletion(t *testing.T) {
	var trace []string
	s := NewScheduler()
	s.Add(&countdown{name: "a", left: 1, trace: &trace})
	s.Add(&countdown{name: "b", left: 3, trace: &trace})

	frames := 0
	for s.Len() > 0 {
		if err := s.Poll(); err != nil {
			t.Fatalf("Poll() error = %v", err)
		}
		frames++
	}
	if frames != 3 {
		t.Errorf("frames = %d, want 3", frames)
	}
	want := []string{"a", "b", "b", "b"}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestRemove(t *testing.T) {
	s := NewScheduler()
	steps := 0
	id := s.Add(TaskFunc(func() (bool, error) {
		steps++
		return false, nil
	}))
	if err := s.Poll(); err != nil {
		t.Fatal(err)
	}
	s.Remove(id)
	s.Remove(id + 100)
	if err := s.Poll(); err != nil {
		t.Fatal(err)
	}
	if steps != 1 {
		t.Errorf("steps = %d, want 1", steps)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestPollErrors(t *testing.T) {
	boom := errors.New("boom")
	s := NewScheduler()
	s.Add(TaskFunc(func() (bool, error) { return false, boom }))
	okSteps := 0
	s.Add(TaskFunc(func() (bool, error) {
		okSteps++
		return false, nil
	}))

	if err := s.Poll(); !errors.Is(err, boom) {
		t.Fatalf("Poll() error = %v, want %v", err, boom)
	}
	if s.Len() != 1 {
		t.Errorf("failed task should be removed, Len() = %d", s.Len())
	}
	if okSteps != 1 {
		t.Errorf("healthy task stepped %d times, want 1", okSteps)
	}
}

func TestAddDuringPoll(t *testing.T) {
	s := NewScheduler()
	s.Add(TaskFunc(func() (bool, error) {
		s.Add(TaskFunc(func() (bool, error) { return true, nil }))
		return true, nil
	}))
	if err := s.Poll(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (task added mid-poll waits for the next frame)", s.Len())
	}
	if err := s.Poll(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
