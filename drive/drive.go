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
Package drive turns the commanded direction into wheel power and steering angle.

Table directions are edge-triggered: their motion is written once, when the
direction is entered. Stop and unknown directions zero everything on every
cycle. Beacon following is re-evaluated on every cycle from the live beacon reading.
*/
package drive

import (
	"fmt"

	"github.com/facebook/formulaev3/robot"
	"github.com/facebook/formulaev3/stats"
	log "github.com/sirupsen/logrus"
)

// PatternFor returns the indicator pattern of a direction
func PatternFor(d robot.Direction) robot.Pattern {
	switch d {
	case robot.BeaconFollow:
		return robot.PatternBeacon
	case robot.StraightForward, robot.LeftForward, robot.RightForward,
		robot.StraightBackward, robot.LeftBackward, robot.RightBackward:
		return robot.PatternDriving
	}
	return robot.PatternStopped
}

// Task is the drive state machine task
type Task struct {
	cfg     Config
	machine *Machine
	stats   stats.Server
}

// NewTask returns a Task which has not observed any direction yet
func NewTask(cfg Config, stats stats.Server) *Task {
	t := &Task{cfg: cfg, stats: stats}
	t.machine = NewMachine(t.enter)
	return t
}

func (t *Task) enter(s *robot.State, from, to robot.Direction) error {
	log.Debugf("drive: %s -> %s", from, to)
	t.stats.UpdateCounterBy("drive.transitions", 1)
	t.stats.SetCounter("drive.direction", int64(to))
	m, ok := t.cfg.Motion(to)
	if !ok {
		return nil
	}
	return t.apply(s, m)
}

func (t *Task) apply(s *robot.State, m Motion) error {
	if err := s.Left.SetPower(m.Left); err != nil {
		return fmt.Errorf("setting left power: %w", err)
	}
	if err := s.Right.SetPower(m.Right); err != nil {
		return fmt.Errorf("setting right power: %w", err)
	}
	s.CommandedSteeringAngle = m.Angle
	t.stats.SetCounter("drive.power.left", int64(m.Left))
	t.stats.SetCounter("drive.power.right", int64(m.Right))
	return nil
}

// follow steers towards the beacon and drives unless it is too close
func (t *Task) follow(s *robot.State) error {
	bl, err := s.Receiver.ReadBeacon()
	if err != nil {
		return fmt.Errorf("reading beacon: %w", err)
	}
	log.Debugf("beacon bearing %d distance %d", bl.Bearing, bl.Distance)
	t.stats.SetCounter("drive.beacon.bearing", int64(bl.Bearing))
	t.stats.SetCounter("drive.beacon.distance", int64(bl.Distance))

	m := Motion{Angle: t.cfg.Beacon.SteeringGain * float64(bl.Bearing)}
	if bl.Distance >= t.cfg.Beacon.NearDistance {
		m.Left = t.cfg.Beacon.Power
		m.Right = t.cfg.Beacon.Power
	}
	return t.apply(s, m)
}

// Run executes one cycle of the state machine
func (t *Task) Run(s *robot.State) error {
	if err := s.Indicator.SetPattern(PatternFor(s.Direction)); err != nil {
		return fmt.Errorf("setting indicator: %w", err)
	}
	if _, err := t.machine.Step(s); err != nil {
		return err
	}
	if s.Direction == robot.BeaconFollow {
		return t.follow(s)
	}
	if _, ok := t.cfg.Motion(s.Direction); ok {
		return nil
	}
	// fail-safe default, written on every cycle
	return t.apply(s, Motion{})
}
