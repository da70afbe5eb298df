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

package command

import (
	"errors"
	"testing"

	"github.com/facebook/formulaev3/robot"
	"github.com/facebook/formulaev3/stats"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newState(t *testing.T) (*robot.State, *robot.MockReceiver) {
	ctrl := gomock.NewController(t)
	rx := robot.NewMockReceiver(ctrl)
	return robot.NewState(robot.Ports{Receiver: rx}), rx
}

func TestLookupTable(t *testing.T) {
	want := map[uint8]robot.Direction{
		0: robot.Stop,
		1: robot.LeftForward,
		2: robot.LeftBackward,
		3: robot.RightForward,
		4: robot.RightBackward,
		5: robot.StraightForward,
		8: robot.StraightBackward,
		9: robot.BeaconFollow,
	}
	for code := 0; code <= 255; code++ {
		d, ok := want[uint8(code)]
		if !ok {
			d = robot.Stop
		}
		require.Equal(t, d, Lookup(uint8(code)), "code %d", code)
	}
}

func TestRunMapsCode(t *testing.T) {
	s, rx := newState(t)
	st := stats.NewStats()
	task := NewTask(BeaconLostDistance, st)

	rx.EXPECT().ReadCommand().Return(uint8(5), nil)
	require.NoError(t, task.Run(s))
	require.Equal(t, robot.StraightForward, s.Direction)
	require.False(t, task.BeaconLocked())
	require.Equal(t, int64(5), st.GetCounters()["command.code"])

	rx.EXPECT().ReadCommand().Return(uint8(7), nil)
	require.NoError(t, task.Run(s))
	require.Equal(t, robot.Stop, s.Direction)
}

func TestRunBeaconLock(t *testing.T) {
	s, rx := newState(t)
	st := stats.NewStats()
	task := NewTask(BeaconLostDistance, st)

	rx.EXPECT().ReadCommand().Return(BeaconCode, nil)
	require.NoError(t, task.Run(s))
	require.Equal(t, robot.BeaconFollow, s.Direction)
	require.True(t, task.BeaconLocked())
	require.Equal(t, int64(1), st.GetCounters()["command.beacon_lock"])

	// remote is not polled while the beacon is detected
	for _, distance := range []int{50, 10, 0, -99} {
		rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Bearing: 3, Distance: distance}, nil)
		require.NoError(t, task.Run(s))
		require.Equal(t, robot.BeaconFollow, s.Direction)
		require.True(t, task.BeaconLocked())
	}

	gomock.InOrder(
		rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Distance: -150}, nil),
		rx.EXPECT().ReadCommand().Return(uint8(1), nil),
	)
	require.NoError(t, task.Run(s))
	require.Equal(t, robot.LeftForward, s.Direction)
	require.False(t, task.BeaconLocked())
	require.Equal(t, int64(0), st.GetCounters()["command.beacon_lock"])
}

// pins the literal threshold: -100 and below, including "not detected", release the lock
func TestRunBeaconThresholdBoundary(t *testing.T) {
	for _, distance := range []int{-100, -101, -150, robot.BeaconNotDetected} {
		s, rx := newState(t)
		task := NewTask(BeaconLostDistance, stats.Nop{})

		rx.EXPECT().ReadCommand().Return(BeaconCode, nil)
		require.NoError(t, task.Run(s))

		gomock.InOrder(
			rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Distance: distance}, nil),
			rx.EXPECT().ReadCommand().Return(uint8(0), nil),
		)
		require.NoError(t, task.Run(s))
		require.Equal(t, robot.Stop, s.Direction, "distance %d", distance)
		require.False(t, task.BeaconLocked())
	}
}

func TestRunBeaconReselected(t *testing.T) {
	s, rx := newState(t)
	task := NewTask(BeaconLostDistance, stats.Nop{})

	rx.EXPECT().ReadCommand().Return(BeaconCode, nil)
	require.NoError(t, task.Run(s))

	gomock.InOrder(
		rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Distance: robot.BeaconNotDetected}, nil),
		rx.EXPECT().ReadCommand().Return(BeaconCode, nil),
	)
	require.NoError(t, task.Run(s))
	require.Equal(t, robot.BeaconFollow, s.Direction)
	require.True(t, task.BeaconLocked())
}

func TestRunSkipLeavesDirection(t *testing.T) {
	s, rx := newState(t)
	task := NewTask(BeaconLostDistance, stats.Nop{})

	rx.EXPECT().ReadCommand().Return(BeaconCode, nil)
	require.NoError(t, task.Run(s))

	s.Direction = robot.Stop
	rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{Distance: 40}, nil)
	require.NoError(t, task.Run(s))
	require.Equal(t, robot.Stop, s.Direction)
}

func TestRunErrors(t *testing.T) {
	s, rx := newState(t)
	task := NewTask(BeaconLostDistance, stats.Nop{})

	rx.EXPECT().ReadCommand().Return(uint8(0), errors.New("sensor unplugged"))
	require.ErrorContains(t, task.Run(s), "reading remote command: sensor unplugged")

	rx.EXPECT().ReadCommand().Return(BeaconCode, nil)
	require.NoError(t, task.Run(s))
	rx.EXPECT().ReadBeacon().Return(robot.BeaconLocation{}, errors.New("mode switch failed"))
	require.ErrorContains(t, task.Run(s), "reading beacon: mode switch failed")
}

func TestRunReportsCounters(t *testing.T) {
	s, rx := newState(t)
	ms := &stats.MockServer{}
	task := NewTask(BeaconLostDistance, ms)

	ms.On("SetCounter", "command.beacon_lock", int64(0)).Once()
	ms.On("SetCounter", "command.code", int64(9)).Once()
	ms.On("SetCounter", "command.beacon_lock", int64(1)).Once()
	rx.EXPECT().ReadCommand().Return(uint8(9), nil)
	require.NoError(t, task.Run(s))
	ms.AssertExpectations(t)
}
