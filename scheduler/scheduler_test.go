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

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facebook/formulaev3/robot"
	"github.com/facebook/formulaev3/stats"
	"github.com/stretchr/testify/require"
)

func recorder(log *[]string, name string) Action {
	return func(*robot.State) error {
		*log = append(*log, name)
		return nil
	}
}

func TestAddValidation(t *testing.T) {
	s := New(stats.Nop{})
	require.ErrorIs(t, s.Add("zero", 0, func(*robot.State) error { return nil }), ErrInvalidPeriod)
	require.ErrorIs(t, s.Add("negative", -time.Second, func(*robot.State) error { return nil }), ErrInvalidPeriod)
	require.Error(t, s.Add("nil", time.Second, nil))
	require.NoError(t, s.Add("ok", time.Second, func(*robot.State) error { return nil }))
	require.Len(t, s.Tasks(), 1)

	s.running.Store(true)
	require.ErrorIs(t, s.Add("late", time.Second, func(*robot.State) error { return nil }), ErrRunning)
}

func TestTickRegistrationOrder(t *testing.T) {
	var calls []string
	s := New(stats.Nop{})
	for _, name := range []string{"command", "display", "keyboard", "drive", "steering"} {
		require.NoError(t, s.Add(name, 50*time.Millisecond, recorder(&calls, name)))
	}
	require.NoError(t, s.Tick(time.Unix(0, 0), &robot.State{}))
	require.Equal(t, []string{"command", "display", "keyboard", "drive", "steering"}, calls)
}

func TestTickPeriods(t *testing.T) {
	var calls []string
	st := stats.NewStats()
	s := New(st)
	require.NoError(t, s.Add("fast", 50*time.Millisecond, recorder(&calls, "fast")))
	require.NoError(t, s.Add("slow", 100*time.Millisecond, recorder(&calls, "slow")))
	require.NoError(t, s.Add("keyboard", 500*time.Millisecond, recorder(&calls, "keyboard")))

	start := time.Unix(1000, 0)
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Tick(start.Add(time.Duration(i)*50*time.Millisecond), &robot.State{}))
	}
	require.Equal(t, []string{"fast", "slow", "keyboard", "fast", "fast", "slow", "fast"}, calls)

	c := st.GetCounters()
	require.Equal(t, int64(4), c["scheduler.ticks"])
	require.Equal(t, int64(4), c["scheduler.task.fast.runs"])
	require.Equal(t, int64(2), c["scheduler.task.slow.runs"])
	require.Equal(t, int64(1), c["scheduler.task.keyboard.runs"])
}

func TestTickNotDueYet(t *testing.T) {
	var calls []string
	s := New(stats.Nop{})
	require.NoError(t, s.Add("drive", 100*time.Millisecond, recorder(&calls, "drive")))
	start := time.Unix(1000, 0)
	require.NoError(t, s.Tick(start, &robot.State{}))
	require.NoError(t, s.Tick(start.Add(99*time.Millisecond), &robot.State{}))
	require.Equal(t, []string{"drive"}, calls)
	require.Equal(t, time.Millisecond, s.untilNext(start.Add(99*time.Millisecond)))
	require.Equal(t, time.Duration(0), s.untilNext(start.Add(time.Second)))
}

func TestStopFromWithinAction(t *testing.T) {
	var calls []string
	s := New(stats.Nop{})
	require.NoError(t, s.Add("command", time.Second, recorder(&calls, "command")))
	require.NoError(t, s.Add("keyboard", time.Second, func(*robot.State) error {
		calls = append(calls, "keyboard")
		s.Stop()
		return nil
	}))
	require.NoError(t, s.Add("drive", time.Second, recorder(&calls, "drive")))

	require.NoError(t, s.Tick(time.Unix(0, 0), &robot.State{}))
	require.True(t, s.Stopped())
	require.Equal(t, []string{"command", "keyboard"}, calls)

	require.NoError(t, s.Tick(time.Unix(10, 0), &robot.State{}))
	require.Equal(t, []string{"command", "keyboard"}, calls)
}

func TestTickFailureIsFatal(t *testing.T) {
	var calls []string
	st := stats.NewStats()
	s := New(st)
	boom := errors.New("motor stalled")
	require.NoError(t, s.Add("drive", time.Second, func(*robot.State) error { return boom }))
	require.NoError(t, s.Add("steering", time.Second, recorder(&calls, "steering")))

	err := s.Tick(time.Unix(0, 0), &robot.State{})
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, `task "drive"`)
	require.Empty(t, calls)
	require.Equal(t, int64(1), st.GetCounters()["scheduler.task.drive.errors"])
}

func TestTickPanicIsFatal(t *testing.T) {
	s := New(stats.Nop{})
	require.NoError(t, s.Add("drive", time.Second, func(*robot.State) error { panic("nil motor") }))
	err := s.Tick(time.Unix(0, 0), &robot.State{})
	require.ErrorContains(t, err, "panic: nil motor")
}

func TestTickOverrun(t *testing.T) {
	st := stats.NewStats()
	s := New(st)
	clock := time.Unix(0, 0)
	s.now = func() time.Time {
		clock = clock.Add(80 * time.Millisecond)
		return clock
	}
	require.NoError(t, s.Add("steering", 50*time.Millisecond, func(*robot.State) error { return nil }))
	require.NoError(t, s.Add("drive", 100*time.Millisecond, func(*robot.State) error { return nil }))
	require.NoError(t, s.Tick(time.Unix(0, 0), &robot.State{}))

	c := st.GetCounters()
	require.Equal(t, int64(1), c["scheduler.task.steering.overruns"])
	require.Equal(t, int64(0), c["scheduler.task.drive.overruns"])
}

func TestRunStopsFromTask(t *testing.T) {
	s := New(stats.Nop{})
	runs := 0
	require.NoError(t, s.Add("keyboard", time.Millisecond, func(*robot.State) error {
		runs++
		if runs == 3 {
			s.Stop()
		}
		return nil
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Run(ctx, &robot.State{}))
	require.Equal(t, 3, runs)
	require.True(t, s.Stopped())
}

func TestRunReturnsActionError(t *testing.T) {
	s := New(stats.Nop{})
	boom := errors.New("tacho unreadable")
	runs := 0
	require.NoError(t, s.Add("steering", time.Millisecond, func(*robot.State) error {
		runs++
		if runs == 2 {
			return boom
		}
		return nil
	}))
	err := s.Run(context.Background(), &robot.State{})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, runs)
}

func TestRunContextCancel(t *testing.T) {
	s := New(stats.Nop{})
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Add("drive", time.Hour, func(*robot.State) error {
		cancel()
		return nil
	}))
	require.NoError(t, s.Run(ctx, &robot.State{}))
	require.True(t, s.Stopped())
}

func TestRunExternalStop(t *testing.T) {
	s := New(stats.Nop{})
	started := make(chan struct{})
	require.NoError(t, s.Add("drive", time.Hour, func(*robot.State) error {
		close(started)
		return nil
	}))
	done := make(chan error)
	go func() { done <- s.Run(context.Background(), &robot.State{}) }()
	<-started
	s.Stop()
	require.NoError(t, <-done)
}

func TestRunNoTasks(t *testing.T) {
	s := New(stats.Nop{})
	require.Error(t, s.Run(context.Background(), &robot.State{}))
}

func TestRunHonorsEarlierStop(t *testing.T) {
	s := New(stats.Nop{})
	runs := 0
	require.NoError(t, s.Add("drive", time.Millisecond, func(*robot.State) error {
		runs++
		if runs == 2 {
			s.Stop()
		}
		return nil
	}))
	s.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Run(ctx, &robot.State{}))
	require.NoError(t, ctx.Err())
	require.Equal(t, 0, runs)
	require.True(t, s.Stopped())

	// the request was consumed, the next run goes ahead
	require.NoError(t, s.Run(ctx, &robot.State{}))
	require.Equal(t, 2, runs)
}
