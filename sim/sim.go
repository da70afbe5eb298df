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
Package sim provides in-memory vehicle ports for running the motion core
without hardware.
*/
package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/facebook/formulaev3/robot"
)

// DefaultRate is how many degrees per second a motor turns at full power
const DefaultRate = 600.0

// Motor is a simulated motor. Its position integrates power over time.
type Motor struct {
	sync.Mutex
	power    int8
	position float64
	rate     float64
	last     time.Time
	now      func() time.Time
	writes   int
}

// NewMotor returns a Motor at rest in position 0
func NewMotor(rate float64) *Motor {
	return &Motor{rate: rate, now: time.Now}
}

func (m *Motor) advance() {
	now := m.now()
	if !m.last.IsZero() {
		m.position += float64(m.power) / 100 * m.rate * now.Sub(m.last).Seconds()
	}
	m.last = now
}

// SetPower sets the motor power
func (m *Motor) SetPower(power int8) error {
	m.Lock()
	defer m.Unlock()
	m.advance()
	m.power = power
	m.writes++
	return nil
}

// Position returns the current tacho count
func (m *Motor) Position() (int32, error) {
	m.Lock()
	defer m.Unlock()
	m.advance()
	return int32(m.position), nil
}

// ResetPosition zeroes the tacho count
func (m *Motor) ResetPosition() error {
	m.Lock()
	defer m.Unlock()
	m.advance()
	m.position = 0
	return nil
}

// Power returns the last power written
func (m *Motor) Power() int8 {
	m.Lock()
	defer m.Unlock()
	return m.power
}

// Writes returns how many times power was written
func (m *Motor) Writes() int {
	m.Lock()
	defer m.Unlock()
	return m.writes
}

// Receiver is a simulated infrared receiver
type Receiver struct {
	code    atomic.Uint32
	bearing atomic.Int32
	dist    atomic.Int32
}

// NewReceiver returns a Receiver with no button held and no beacon in range
func NewReceiver() *Receiver {
	r := &Receiver{}
	r.dist.Store(robot.BeaconNotDetected)
	return r
}

// Hold simulates a remote button being held
func (r *Receiver) Hold(code uint8) {
	r.code.Store(uint32(code))
}

// SetBeacon places the beacon
func (r *Receiver) SetBeacon(bl robot.BeaconLocation) {
	r.bearing.Store(int32(bl.Bearing))
	r.dist.Store(int32(bl.Distance))
}

// ReadCommand returns the code of the button currently held
func (r *Receiver) ReadCommand() (uint8, error) {
	return uint8(r.code.Load()), nil
}

// ReadBeacon returns the beacon location
func (r *Receiver) ReadBeacon() (robot.BeaconLocation, error) {
	return robot.BeaconLocation{Bearing: int(r.bearing.Load()), Distance: int(r.dist.Load())}, nil
}

// Keypad is a simulated keypad. A pressed key is reported once.
type Keypad struct {
	key atomic.Uint32
}

// Press queues k for the next read
func (k *Keypad) Press(key robot.Key) {
	k.key.Store(uint32(key))
}

// ReadKey returns the pressed key, if any
func (k *Keypad) ReadKey() (robot.Key, error) {
	return robot.Key(k.key.Swap(uint32(robot.KeyNone))), nil
}

// Indicator remembers the last pattern
type Indicator struct {
	pattern atomic.Uint32
}

// SetPattern sets the pattern
func (i *Indicator) SetPattern(p robot.Pattern) error {
	i.pattern.Store(uint32(p))
	return nil
}

// Pattern returns the last pattern set
func (i *Indicator) Pattern() robot.Pattern {
	return robot.Pattern(i.pattern.Load())
}

// Vehicle is a set of simulated ports
type Vehicle struct {
	Left, Right, Steering *Motor
	Receiver              *Receiver
	Keypad                *Keypad
	Indicator             *Indicator
}

// New returns a simulated vehicle whose motors turn at rate degrees per second at full power
func New(rate float64) *Vehicle {
	return &Vehicle{
		Left:      NewMotor(rate),
		Right:     NewMotor(rate),
		Steering:  NewMotor(rate),
		Receiver:  NewReceiver(),
		Keypad:    &Keypad{},
		Indicator: &Indicator{},
	}
}

// Ports returns the vehicle ports
func (v *Vehicle) Ports() robot.Ports {
	return robot.Ports{
		Left:      v.Left,
		Right:     v.Right,
		Steering:  v.Steering,
		Receiver:  v.Receiver,
		Keypad:    v.Keypad,
		Indicator: v.Indicator,
	}
}
