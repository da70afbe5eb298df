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
	"fmt"
	"time"

	"github.com/facebook/formulaev3/robot"
)

// Period is how often the drive state machine runs
const Period = 100 * time.Millisecond

// Drive motors are mounted reversed: negative power moves the car forward.
const (
	// FullPower is the power of the outer wheel and of both wheels going straight
	FullPower int8 = 100
	// InnerPower is the power of the inner wheel in a turn
	InnerPower int8 = 80
	// LeftAngle is the steering angle of left turns, in degrees
	LeftAngle = 40.0
	// RightAngle is the steering angle of right turns, in degrees
	RightAngle = -30.0
)

// Beacon following defaults
const (
	// BeaconSteeringGain converts beacon bearing into steering angle
	BeaconSteeringGain = -3.0
	// BeaconNearDistance is the distance below which the car stops in front of the beacon
	BeaconNearDistance = 10
	// BeaconPower is the power of both wheels while following
	BeaconPower int8 = -50
)

// Motion is what a direction commits when it is entered
type Motion struct {
	Left  int8    `yaml:"left"`
	Right int8    `yaml:"right"`
	Angle float64 `yaml:"angle"`
}

// BeaconConfig describes beacon following
type BeaconConfig struct {
	SteeringGain float64 `yaml:"steering_gain"`
	NearDistance int     `yaml:"near_distance"`
	Power        int8    `yaml:"power"`
}

// Config is the per-direction motion table
type Config struct {
	StraightForward  Motion       `yaml:"straight_forward"`
	LeftForward      Motion       `yaml:"left_forward"`
	RightForward     Motion       `yaml:"right_forward"`
	StraightBackward Motion       `yaml:"straight_backward"`
	LeftBackward     Motion       `yaml:"left_backward"`
	RightBackward    Motion       `yaml:"right_backward"`
	Beacon           BeaconConfig `yaml:"beacon"`
}

// DefaultConfig returns the tuned motion table
func DefaultConfig() Config {
	return Config{
		StraightForward:  Motion{Left: -FullPower, Right: -FullPower, Angle: 0},
		LeftForward:      Motion{Left: -InnerPower, Right: -FullPower, Angle: LeftAngle},
		RightForward:     Motion{Left: -FullPower, Right: -InnerPower, Angle: RightAngle},
		StraightBackward: Motion{Left: FullPower, Right: FullPower, Angle: 0},
		LeftBackward:     Motion{Left: InnerPower, Right: FullPower, Angle: LeftAngle},
		RightBackward:    Motion{Left: FullPower, Right: InnerPower, Angle: RightAngle},
		Beacon: BeaconConfig{
			SteeringGain: BeaconSteeringGain,
			NearDistance: BeaconNearDistance,
			Power:        BeaconPower,
		},
	}
}

// Motion returns the motion of a table direction.
// Stop, BeaconFollow and unknown directions are not in the table.
func (c *Config) Motion(d robot.Direction) (Motion, bool) {
	switch d {
	case robot.StraightForward:
		return c.StraightForward, true
	case robot.LeftForward:
		return c.LeftForward, true
	case robot.RightForward:
		return c.RightForward, true
	case robot.StraightBackward:
		return c.StraightBackward, true
	case robot.LeftBackward:
		return c.LeftBackward, true
	case robot.RightBackward:
		return c.RightBackward, true
	}
	return Motion{}, false
}

// Validate Config is sane
func (c *Config) Validate() error {
	for d := robot.StraightForward; d <= robot.RightBackward; d++ {
		m, _ := c.Motion(d)
		if m.Left < -100 || m.Left > 100 || m.Right < -100 || m.Right > 100 {
			return fmt.Errorf("%s: power must be within [-100, 100]", d)
		}
	}
	if c.Beacon.Power < -100 || c.Beacon.Power > 100 {
		return fmt.Errorf("beacon power must be within [-100, 100]")
	}
	return nil
}
