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
Package steering closes the loop between the commanded steering angle and the
steering motor tacho.
*/
package steering

import (
	"fmt"
	"math"
	"time"

	"github.com/eclesh/welford"
	"github.com/facebook/formulaev3/robot"
	"github.com/facebook/formulaev3/servo"
	"github.com/facebook/formulaev3/stats"
	log "github.com/sirupsen/logrus"
)

// Tuned defaults of the steering loop
const (
	Period    = 50 * time.Millisecond
	Kp        = 2.0
	Ki        = 0.1
	Kd        = 0.0
	LowPass   = 0.9
	MaxOutput = 50.0
	MinOutput = -MaxOutput
)

// ErrorWindow is the number of samples the tracking error statistics are computed over
const ErrorWindow = 20

// DefaultServoCfg returns the tuned PID configuration
func DefaultServoCfg() *servo.PidServoCfg {
	return &servo.PidServoCfg{
		Kp:        Kp,
		Ki:        Ki,
		Kd:        Kd,
		LowPass:   LowPass,
		MinOutput: MinOutput,
		MaxOutput: MaxOutput,
		Interval:  Period,
	}
}

// Task drives the steering motor towards State.CommandedSteeringAngle
type Task struct {
	pid    *servo.PidServo
	stats  stats.Server
	errors *welford.Stats
	n      int
	window int
}

// NewTask returns a steering task around pid
func NewTask(pid *servo.PidServo, stats stats.Server) *Task {
	return &Task{
		pid:    pid,
		stats:  stats,
		errors: welford.New(),
		window: ErrorWindow,
	}
}

// motorPower rounds out to a motor power, saturating at the motor limits
func motorPower(out float64) int8 {
	return int8(math.Max(-servo.MaxPower, math.Min(servo.MaxPower, math.Round(out))))
}

// Run executes one steering cycle
func (t *Task) Run(s *robot.State) error {
	pos, err := s.Steering.Position()
	if err != nil {
		return fmt.Errorf("reading steering position: %w", err)
	}
	out, state := t.pid.Sample(s.CommandedSteeringAngle, float64(pos))
	power := motorPower(out)
	if err := s.Steering.SetPower(power); err != nil {
		return fmt.Errorf("setting steering power: %w", err)
	}
	log.Debugf("steering: %s", t.pid)

	t.stats.SetCounter("steering.setpoint", int64(s.CommandedSteeringAngle))
	t.stats.SetCounter("steering.position", int64(pos))
	t.stats.SetCounter("steering.output", int64(power))
	if state == servo.StateSaturated {
		t.stats.UpdateCounterBy("steering.saturated", 1)
	}
	t.trackError(t.pid.Error())
	return nil
}

// trackError publishes mean and stddev of the tracking error, in millidegrees, once per window
func (t *Task) trackError(e float64) {
	t.errors.Add(e)
	t.n++
	if t.n < t.window {
		return
	}
	t.stats.SetCounter("steering.error.mean_mdeg", int64(t.errors.Mean()*1000))
	t.stats.SetCounter("steering.error.stddev_mdeg", int64(t.errors.Stddev()*1000))
	t.errors = welford.New()
	t.n = 0
}
