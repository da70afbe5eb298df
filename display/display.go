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

package display

import (
	"fmt"
	"time"

	"github.com/facebook/formulaev3/drive"
	"github.com/facebook/formulaev3/robot"
)

// Period is how often the status is rendered
const Period = 100 * time.Millisecond

// Line is a single status line
type Line struct {
	Text    string
	Pattern robot.Pattern
}

// Display is anything a status line can be shown on
type Display interface {
	Show(l Line) error
}

var labels = map[robot.Direction]string{
	robot.Stop:             "Stop!",
	robot.StraightForward:  "Straight Forward",
	robot.LeftForward:      "Left Forward",
	robot.RightForward:     "Right Forward",
	robot.StraightBackward: "Straight Backward",
	robot.LeftBackward:     "Left Backward",
	robot.RightBackward:    "Right Backward",
	robot.BeaconFollow:     "Beacon ON",
}

// Label returns the human readable name of a direction
func Label(d robot.Direction) string {
	if l, ok := labels[d]; ok {
		return l
	}
	return d.String()
}

// Task renders the vehicle status on a Display
type Task struct {
	sink Display
}

// NewTask returns a Task writing to sink
func NewTask(sink Display) *Task {
	return &Task{sink: sink}
}

// Run renders the current direction and steering angle
func (t *Task) Run(s *robot.State) error {
	l := Line{
		Text:    fmt.Sprintf("%-17s steer %+5.1f", Label(s.Direction), s.CommandedSteeringAngle),
		Pattern: drive.PatternFor(s.Direction),
	}
	if err := t.sink.Show(l); err != nil {
		return fmt.Errorf("updating display: %w", err)
	}
	return nil
}
