// Package scheduler runs deferred tasks such as the computer's delayed move
// and the board auto-reset after a round.
package scheduler

import (
	"sync"
	"time"
)

// Cancel stops a task that has not fired yet. Calling it more than once is safe.
type Cancel func()

type Scheduler interface {
	Schedule(delay time.Duration, task func()) Cancel
}

// TimerScheduler fires tasks on their own goroutine once the delay elapses.
type TimerScheduler struct{}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (that *TimerScheduler) Schedule(delay time.Duration, task func()) Cancel {
	timer := time.AfterFunc(delay, task)

	return func() {
		timer.Stop()
	}
}

type manualTask struct {
	due      time.Duration
	task     func()
	canceled bool
}

// ManualScheduler keeps tasks until Advance moves its clock past their delay.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*manualTask
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (that *ManualScheduler) Schedule(delay time.Duration, task func()) Cancel {
	that.mu.Lock()
	defer that.mu.Unlock()

	t := &manualTask{due: that.now + delay, task: task}
	that.tasks = append(that.tasks, t)

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()
		t.canceled = true
	}
}

// Advance moves the clock forward and runs every due task, earliest first.
// Tasks scheduled by a running task are picked up if they are due as well.
func (that *ManualScheduler) Advance(d time.Duration) int {
	that.mu.Lock()
	that.now += d
	that.mu.Unlock()

	var fired int
	for {
		task := that.nextDue()
		if task == nil {
			return fired
		}

		task()
		fired++
	}
}

// Pending returns the number of tasks that are neither fired nor canceled.
func (that *ManualScheduler) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	var n int
	for _, t := range that.tasks {
		if !t.canceled {
			n++
		}
	}

	return n
}

func (that *ManualScheduler) nextDue() func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.compact()

	next := -1
	for i, t := range that.tasks {
		if t.due > that.now {
			continue
		}

		if next == -1 || t.due < that.tasks[next].due {
			next = i
		}
	}

	if next == -1 {
		return nil
	}

	task := that.tasks[next].task
	that.tasks = append(that.tasks[:next], that.tasks[next+1:]...)

	return task
}

func (that *ManualScheduler) compact() {
	live := that.tasks[:0]
	for _, t := range that.tasks {
		if !t.canceled {
			live = append(live, t)
		}
	}
	that.tasks = live
}
