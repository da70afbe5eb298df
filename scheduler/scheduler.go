/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package scheduler runs a fixed set of periodic tasks cooperatively on a single goroutine.

Each task is invoked once its period has elapsed since its last invocation.
Tasks due in the same tick run in registration order and every action runs to
completion before anything else runs. An error or a panic in any action ends
the whole run.
*/
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/facebook/formulaev3/robot"
	"github.com/facebook/formulaev3/stats"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrRunning is returned when the scheduler is already running
	ErrRunning = errors.New("scheduler is running")
	// ErrInvalidPeriod is returned for tasks with non-positive period
	ErrInvalidPeriod = errors.New("task period must be positive")
)

// Action is the periodic work of a task
type Action func(s *robot.State) error

// PeriodicTask is an action invoked every Period
type PeriodicTask struct {
	Name   string
	Period time.Duration
	Action Action

	last    time.Time
	started bool
}

func (t *PeriodicTask) due(now time.Time) bool {
	return !t.started || now.Sub(t.last) >= t.Period
}

func (t *PeriodicTask) next() time.Time {
	if !t.started {
		return time.Time{}
	}
	return t.last.Add(t.Period)
}

// Scheduler owns the task set and its start/stop lifecycle
type Scheduler struct {
	tasks   []*PeriodicTask
	stats   stats.Server
	running atomic.Bool
	stopReq atomic.Bool
	stopped atomic.Bool
	wake    chan struct{}
	now     func() time.Time
}

// New returns an empty Scheduler
func New(stats stats.Server) *Scheduler {
	return &Scheduler{
		stats: stats,
		wake:  make(chan struct{}, 1),
		now:   time.Now,
	}
}

// Add registers a task. Registration order is the order of execution within a tick.
func (s *Scheduler) Add(name string, period time.Duration, action Action) error {
	if s.running.Load() {
		return ErrRunning
	}
	if period <= 0 {
		return fmt.Errorf("task %q: %w", name, ErrInvalidPeriod)
	}
	if action == nil {
		return fmt.Errorf("task %q has no action", name)
	}
	s.tasks = append(s.tasks, &PeriodicTask{Name: name, Period: period, Action: action})
	return nil
}

// Tasks returns registered tasks in execution order
func (s *Scheduler) Tasks() []*PeriodicTask {
	return s.tasks
}

// Stop halts the loop once the currently running action returns.
// It is safe to call from within an action and from other goroutines.
// A Stop requested before Run makes the next Run return without running anything.
func (s *Scheduler) Stop() {
	s.stopReq.Store(true)
	s.stopped.Store(true)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stopped reports whether Stop was called or the last Run ended
func (s *Scheduler) Stopped() bool {
	return s.stopped.Load()
}

// Tick invokes every task due at now. Nothing runs after Stop.
func (s *Scheduler) Tick(now time.Time, st *robot.State) error {
	s.stats.UpdateCounterBy("scheduler.ticks", 1)
	for _, t := range s.tasks {
		if s.stopReq.Load() {
			return nil
		}
		if !t.due(now) {
			continue
		}
		t.last = now
		t.started = true

		start := s.now()
		if err := invoke(t, st); err != nil {
			s.stats.UpdateCounterBy(fmt.Sprintf("scheduler.task.%s.errors", t.Name), 1)
			return fmt.Errorf("task %q: %w", t.Name, err)
		}
		s.stats.UpdateCounterBy(fmt.Sprintf("scheduler.task.%s.runs", t.Name), 1)
		if elapsed := s.now().Sub(start); elapsed > t.Period {
			log.Warningf("task %q took %v, longer than its period %v", t.Name, elapsed, t.Period)
			s.stats.UpdateCounterBy(fmt.Sprintf("scheduler.task.%s.overruns", t.Name), 1)
		}
	}
	return nil
}

func invoke(t *PeriodicTask, st *robot.State) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.Action(st)
}

// untilNext returns how long to sleep before the earliest task is due
func (s *Scheduler) untilNext(now time.Time) time.Duration {
	var earliest time.Time
	for i, t := range s.tasks {
		n := t.next()
		if i == 0 || n.Before(earliest) {
			earliest = n
		}
	}
	d := earliest.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Run executes tasks until Stop is called, ctx is done or an action fails.
// The returned error is the first action failure.
func (s *Scheduler) Run(ctx context.Context, st *robot.State) error {
	if len(s.tasks) == 0 {
		return fmt.Errorf("no tasks to run")
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer s.running.Store(false)
	// the stop request is consumed by this run, whatever ends it
	defer func() {
		s.stopReq.Store(false)
		s.stopped.Store(true)
		select {
		case <-s.wake:
		default:
		}
	}()

	s.stopped.Store(s.stopReq.Load())
	for _, t := range s.tasks {
		t.started = false
	}
	log.Infof("starting scheduler with %d tasks", len(s.tasks))

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Infof("scheduler context is done: %v", ctx.Err())
			return nil
		case <-s.wake:
		case <-timer.C:
		}
		if s.stopReq.Load() {
			log.Info("scheduler stopped")
			return nil
		}
		if err := s.Tick(s.now(), st); err != nil {
			return err
		}
		if s.stopReq.Load() {
			log.Info("scheduler stopped")
			return nil
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.untilNext(s.now()))
	}
}
