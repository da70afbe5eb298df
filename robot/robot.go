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

package robot

import (
	"errors"
	"fmt"
)

//go:generate mockgen -source=robot.go -destination=robot_mock.go -package=robot

// Direction is the discrete commanded motion state of the vehicle
type Direction uint8

// All the directions the vehicle understands
const (
	Stop Direction = iota
	StraightForward
	LeftForward
	RightForward
	StraightBackward
	LeftBackward
	RightBackward
	BeaconFollow
)

var directionNames = [...]string{
	Stop:             "STOP",
	StraightForward:  "STRAIGHT_FORWARD",
	LeftForward:      "LEFT_FORWARD",
	RightForward:     "RIGHT_FORWARD",
	StraightBackward: "STRAIGHT_BACKWARD",
	LeftBackward:     "LEFT_BACKWARD",
	RightBackward:    "RIGHT_BACKWARD",
	BeaconFollow:     "BEACON_FOLLOW",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("UNSUPPORTED(%d)", uint8(d))
}

// BeaconNotDetected is the distance the receiver reports when there is no beacon in range
const BeaconNotDetected = -128

// BeaconLocation is a single beacon reading.
// Bearing is in [-25, 25], positive means the beacon is to the left.
// Distance is in [0, 100], negative values mean the beacon is not detected.
type BeaconLocation struct {
	Bearing  int
	Distance int
}

// Key is a keypad button
type Key uint8

// Keypad buttons
const (
	KeyNone Key = iota
	KeyEnter
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Pattern is an opaque tag for the status indicator
type Pattern uint8

// Indicator patterns
const (
	PatternOff     Pattern = 0
	PatternDriving Pattern = 1
	PatternBeacon  Pattern = 2
	PatternStopped Pattern = 3
)

func (p Pattern) String() string {
	switch p {
	case PatternOff:
		return "OFF"
	case PatternDriving:
		return "DRIVING"
	case PatternBeacon:
		return "BEACON"
	case PatternStopped:
		return "STOPPED"
	}
	return "UNSUPPORTED"
}

// Motor is a single actuator port. Power is a signed percent in [-100, 100],
// position is the tacho count in degrees.
type Motor interface {
	SetPower(power int8) error
	Position() (int32, error)
	ResetPosition() error
}

// Receiver is the infrared receiver port
type Receiver interface {
	// ReadCommand returns the code of the remote button currently held, 0 if none
	ReadCommand() (uint8, error)
	ReadBeacon() (BeaconLocation, error)
}

// Keypad is the on-board buttons port
type Keypad interface {
	// ReadKey returns the key currently pressed without blocking, KeyNone if none
	ReadKey() (Key, error)
}

// Indicator is the status light sink
type Indicator interface {
	SetPattern(p Pattern) error
}

// Ports bundles the hardware the core talks to
type Ports struct {
	Left      Motor
	Right     Motor
	Steering  Motor
	Receiver  Receiver
	Keypad    Keypad
	Indicator Indicator
}

// Validate makes sure every port is wired
func (p Ports) Validate() error {
	switch {
	case p.Left == nil:
		return fmt.Errorf("left motor is not connected")
	case p.Right == nil:
		return fmt.Errorf("right motor is not connected")
	case p.Steering == nil:
		return fmt.Errorf("steering motor is not connected")
	case p.Receiver == nil:
		return fmt.Errorf("ir receiver is not connected")
	case p.Keypad == nil:
		return fmt.Errorf("keypad is not connected")
	case p.Indicator == nil:
		return fmt.Errorf("indicator is not connected")
	}
	return nil
}

// State is the record shared by all the tasks of a running vehicle.
// Only the task being executed by the scheduler touches it, so there is no locking.
type State struct {
	Direction              Direction
	CommandedSteeringAngle float64
	Ports
}

// NewState returns a State in Stop with the given ports
func NewState(p Ports) *State {
	return &State{
		Direction: Stop,
		Ports:     p,
	}
}

// StopMotors writes zero power to all three motors.
// Every motor is tried even if an earlier one fails.
func (s *State) StopMotors() error {
	var errs []error
	motors := []struct {
		name string
		m    Motor
	}{{"left", s.Left}, {"right", s.Right}, {"steering", s.Steering}}
	for _, e := range motors {
		if err := e.m.SetPower(0); err != nil {
			errs = append(errs, fmt.Errorf("stopping %s motor: %w", e.name, err))
		}
	}
	return errors.Join(errs...)
}
