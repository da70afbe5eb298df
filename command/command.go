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

// Package command polls the infrared receiver and turns remote codes into a robot.Direction.
package command

import (
	"fmt"
	"time"

	"github.com/facebook/formulaev3/robot"
	"github.com/facebook/formulaev3/stats"
	log "github.com/sirupsen/logrus"
)

// Period is how often the receiver is polled
const Period = 100 * time.Millisecond

// BeaconCode is the remote code which engages beacon following
const BeaconCode uint8 = 9

// BeaconLostDistance is the beacon lock threshold: while locked, a distance
// strictly above it keeps the lock. Negative distances are "not detected".
const BeaconLostDistance = -100

// table maps remote codes to directions. Codes not listed mean Stop.
var table = map[uint8]robot.Direction{
	0:          robot.Stop,
	1:          robot.LeftForward,
	2:          robot.LeftBackward,
	3:          robot.RightForward,
	4:          robot.RightBackward,
	5:          robot.StraightForward,
	8:          robot.StraightBackward,
	BeaconCode: robot.BeaconFollow,
}

// Lookup returns the direction for a remote code
func Lookup(code uint8) robot.Direction {
	if d, ok := table[code]; ok {
		return d
	}
	return robot.Stop
}

// Task is the receiver polling task
type Task struct {
	beaconActive bool
	lostDistance int
	stats        stats.Server
}

// NewTask returns a Task with the beacon lock released
func NewTask(lostDistance int, stats stats.Server) *Task {
	return &Task{
		lostDistance: lostDistance,
		stats:        stats,
	}
}

// BeaconLocked reports whether the beacon lock is held
func (t *Task) BeaconLocked() bool {
	return t.beaconActive
}

// Run polls the receiver once and updates the direction
func (t *Task) Run(s *robot.State) error {
	if t.beaconActive {
		bl, err := s.Receiver.ReadBeacon()
		if err != nil {
			return fmt.Errorf("reading beacon: %w", err)
		}
		// keep following without looking at the remote while the beacon is seen
		if bl.Distance > t.lostDistance {
			return nil
		}
		log.Debugf("beacon lost at distance %d, back to remote", bl.Distance)
	}
	t.setLock(false)

	code, err := s.Receiver.ReadCommand()
	if err != nil {
		return fmt.Errorf("reading remote command: %w", err)
	}
	t.stats.SetCounter("command.code", int64(code))
	d := Lookup(code)
	if d == robot.BeaconFollow {
		t.setLock(true)
	}
	if d != s.Direction {
		log.Debugf("remote code %d: %s -> %s", code, s.Direction, d)
	}
	s.Direction = d
	return nil
}

func (t *Task) setLock(active bool) {
	t.beaconActive = active
	var v int64
	if active {
		v = 1
	}
	t.stats.SetCounter("command.beacon_lock", v)
}
