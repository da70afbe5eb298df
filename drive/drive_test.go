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

package drive

import (
	"errors"
	"testing"

	"github.com/facebook/formulaev3/robot"
	"github.com/facebook/formulaev3/stats"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type rig struct {
	state *robot.State
	left  *robot.MockMotor
	right *robot.MockMotor
	rx    *robot.MockReceiver
	ind   *robot.MockIndicator
}

func newRig(t *testing.T) *rig {
	ctrl := gomock.NewController(t)
	r := &rig{
		left:  robot.NewMockMotor(ctrl),
		right: robot.NewMockMotor(ctrl),
		rx:    robot.NewMockReceiver(ctrl),
		ind:   robot.NewMockIndicator(ctrl),
	}
	r.state = robot.NewState(robot.Ports{
		Left:      r.left,
		Right:     r.right,
		Steering:  robot.NewMockMotor(ctrl),
		Receiver:  r.rx,
		Indicator: r.ind,
	})
	r.ind.EXPECT().SetPattern(gomock.Any()).Return(nil).AnyTimes()
	return r
}

func (r *rig) expectPower(left, right int8) {
	r.left.EXPECT().SetPower(left).Return(nil)
	r.right.EXPECT().SetPower(right).Return(nil)
}

func TestStraightForward(t *testing.T) {
	r := newRig(t)
	task := NewTask(DefaultConfig(), stats.Nop{})

	r.state.Direction = robot.StraightForward
	r.state.CommandedSteeringAngle = 12
	r.expectPower(-100, -100)
	require.NoError(t, task.Run(r.state))
	require.Equal(t, 0.0, r.state.CommandedSteeringAngle)
}

func TestEdgeTriggeredWritesOnce(t *testing.T) {
	for d := robot.StraightForward; d <= robot.RightBackward; d++ {
		r := newRig(t)
		st := stats.NewStats()
		task := NewTask(DefaultConfig(), st)
		m, ok := task.cfg.Motion(d)
		require.True(t, ok)

		r.state.Direction = d
		r.expectPower(m.Left, m.Right)
		for i := 0; i < 5; i++ {
			require.NoError(t, task.Run(r.state))
		}
		require.Equal(t, m.Angle, r.state.CommandedSteeringAngle)
		require.Equal(t, int64(1), st.GetCounters()["drive.transitions"])
		require.Equal(t, d, task.machine.Current())
	}
}

func TestLeftForwardTwice(t *testing.T) {
	r := newRig(t)
	task := NewTask(DefaultConfig(), stats.Nop{})
	r.state.Direction = robot.LeftForward
	r.expectPower(-80, -100)
	require.NoError(t, task.Run(r.state))
	require.NoError(t, task.Run(r.state))
	require.Equal(t, LeftAngle, r.state.CommandedSteeringAngle)
}

func TestRepeatedDirectionIgnoresAngleDrift(t *testing.T) {
	r := newRig(t)
	task := NewTask(DefaultConfig(), stats.Nop{})
	r.state.Direction = robot.RightForward
	r.expectPower(-100, -80)
	require.NoError(t, task.Run(r.state))

	// nothing is re-written until the direction changes
	r.state.CommandedSteeringAngle = 5
	require.NoError(t, task.Run(r.state))
	require.Equal(t, 5.0, r.state.CommandedSteeringAngle)
}

func TestStopEveryCycle(t *testing.T) {
	r := newRig(t)
	task := NewTask(DefaultConfig(), stats.Nop{})

	r.state.Direction = robot.StraightBackward
	r.expectPower(100, 100)
	require.NoError(t, task.Run(r.state))

	r.state.Direction = robot.Stop
	for i := 0; i < 3; i++ {
		r.state.CommandedSteeringAngle = 40
		r.expectPower(0, 0)
		require.NoError(t, task.Run(r.state))
		require.Equal(t, 0.0, r.state.CommandedSteeringAngle)
	}
}

func TestUnknownDirectionStops(t *testing.T) {
	r := newRig(t)
	task := NewTask(DefaultConfig(), stats.Nop{})
	r.state.Direction = robot.Direction(42)
	r.state.CommandedSteeringAngle = -30
	r.expectPower(0, 0)
	require.NoError(t, task.Run(r.state))
	require.Equal(t, 0.0, r.state.CommandedSteeringAngle)
}

func TestReenterAfterStop(t *testing.T) {
	r := newRig(t)
	task := NewTask(DefaultConfig(), stats.Nop{})

	r.state.Direction = robot.StraightForward
	r.expectPower(-100, -100)
	require.NoError(t, task.Run(r.state))

	r.state.Direction = robot.Stop
	r.expectPower(0, 0)
	require.NoError(t, task.Run(r.state))

	r.state.Direction = robot.StraightForward
	r.expectPower(-100, -100)
	require.NoError(t, task.Run(r.state))
}

func TestBeaconFollowEveryCycle(t *testing.T) {
	r := newRig(t)
	st := stats.NewStats()
	task := NewTask(DefaultConfig(), st)
	r.state.Direction = robot.BeaconFollow

	r.rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Bearing: 5, Distance: 50}, nil)
	r.expectPower(-50, -50)
	require.NoError(t, task.Run(r.state))
	require.Equal(t, -15.0, r.state.CommandedSteeringAngle)

	r.rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Bearing: -4, Distance: 10}, nil)
	r.expectPower(-50, -50)
	require.NoError(t, task.Run(r.state))
	require.Equal(t, 12.0, r.state.CommandedSteeringAngle)

	// too close
	r.rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Bearing: 1, Distance: 9}, nil)
	r.expectPower(0, 0)
	require.NoError(t, task.Run(r.state))
	require.Equal(t, -3.0, r.state.CommandedSteeringAngle)

	r.rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Bearing: 0, Distance: robot.BeaconNotDetected}, nil)
	r.expectPower(0, 0)
	require.NoError(t, task.Run(r.state))

	c := st.GetCounters()
	require.Equal(t, int64(1), c["drive.transitions"])
	require.Equal(t, int64(robot.BeaconNotDetected), c["drive.beacon.distance"])
}

func TestIndicatorPattern(t *testing.T) {
	ctrl := gomock.NewController(t)
	ind := robot.NewMockIndicator(ctrl)
	left := robot.NewMockMotor(ctrl)
	right := robot.NewMockMotor(ctrl)
	rx := robot.NewMockReceiver(ctrl)
	s := robot.NewState(robot.Ports{Left: left, Right: right, Receiver: rx, Indicator: ind})
	left.EXPECT().SetPower(gomock.Any()).Return(nil).AnyTimes()
	right.EXPECT().SetPower(gomock.Any()).Return(nil).AnyTimes()
	rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Distance: 50}, nil).AnyTimes()
	task := NewTask(DefaultConfig(), stats.Nop{})

	for d, p := range map[robot.Direction]robot.Pattern{
		robot.Stop:            robot.PatternStopped,
		robot.BeaconFollow:    robot.PatternBeacon,
		robot.LeftBackward:    robot.PatternDriving,
		robot.StraightForward: robot.PatternDriving,
		robot.Direction(99):   robot.PatternStopped,
	} {
		require.Equal(t, p, PatternFor(d))
		s.Direction = d
		ind.EXPECT().SetPattern(p).Return(nil)
		require.NoError(t, task.Run(s))
	}
}

func TestRunErrors(t *testing.T) {
	r := newRig(t)
	task := NewTask(DefaultConfig(), stats.Nop{})

	r.state.Direction = robot.StraightForward
	r.left.EXPECT().SetPower(int8(-100)).Return(errors.New("stalled"))
	require.ErrorContains(t, task.Run(r.state), "setting left power: stalled")

	r.state.Direction = robot.BeaconFollow
	r.rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{}, errors.New("timeout"))
	require.ErrorContains(t, task.Run(r.state), "reading beacon: timeout")
}

func TestIndicatorError(t *testing.T) {
	ctrl := gomock.NewController(t)
	ind := robot.NewMockIndicator(ctrl)
	s := robot.NewState(robot.Ports{Indicator: ind})
	ind.EXPECT().SetPattern(robot.PatternStopped).Return(errors.New("led gone"))
	task := NewTask(DefaultConfig(), stats.Nop{})
	require.ErrorContains(t, task.Run(s), "setting indicator: led gone")
}

func TestConfigValidate(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	c.LeftBackward.Right = -101
	require.EqualError(t, c.Validate(), "LEFT_BACKWARD: power must be within [-100, 100]")
	c = DefaultConfig()
	c.Beacon.Power = 127
	require.EqualError(t, c.Validate(), "beacon power must be within [-100, 100]")
}

func TestMachine(t *testing.T) {
	var seen [][2]robot.Direction
	m := NewMachine(func(_ *robot.State, from, to robot.Direction) error {
		seen = append(seen, [2]robot.Direction{from, to})
		return nil
	})
	s := &robot.State{}
	for _, d := range []robot.Direction{robot.Stop, robot.Stop, robot.LeftForward, robot.LeftForward, robot.Stop} {
		s.Direction = d
		_, err := m.Step(s)
		require.NoError(t, err)
	}
	require.Equal(t, [][2]robot.Direction{
		{robot.Stop, robot.LeftForward},
		{robot.LeftForward, robot.Stop},
	}, seen)
}

func TestStartupStopIsNotATransition(t *testing.T) {
	r := newRig(t)
	st := stats.NewStats()
	task := NewTask(DefaultConfig(), st)
	for i := 0; i < 3; i++ {
		r.expectPower(0, 0)
		require.NoError(t, task.Run(r.state))
	}
	_, ok := st.GetCounters()["drive.transitions"]
	require.False(t, ok)

	r.state.Direction = robot.LeftBackward
	r.expectPower(80, 100)
	require.NoError(t, task.Run(r.state))
	require.Equal(t, int64(1), st.GetCounters()["drive.transitions"])
}
