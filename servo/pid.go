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

package servo

import (
	"fmt"
	"math"
	"time"
)

// MaxPower is the largest motor power in percent the servo output may command
const MaxPower = 100

// PidServoCfg is a PID servo config
type PidServoCfg struct {
	Kp        float64       `yaml:"kp"`
	Ki        float64       `yaml:"ki"`
	Kd        float64       `yaml:"kd"`
	LowPass   float64       `yaml:"low_pass"`   // weight of the previous filtered error, in [0, 1]
	MinOutput float64       `yaml:"min_output"` // lower output bound
	MaxOutput float64       `yaml:"max_output"` // upper output bound
	Interval  time.Duration `yaml:"interval"`   // time between samples, dt of the integral and derivative terms
}

// Validate PidServoCfg is sane
func (c *PidServoCfg) Validate() error {
	for name, v := range map[string]float64{"kp": c.Kp, "ki": c.Ki, "kd": c.Kd, "min_output": c.MinOutput, "max_output": c.MaxOutput} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	if c.LowPass < 0 || c.LowPass > 1 {
		return fmt.Errorf("low_pass must be within [0, 1]")
	}
	if c.MinOutput >= c.MaxOutput {
		return fmt.Errorf("min_output must be less than max_output")
	}
	if c.MinOutput < -MaxPower || c.MaxOutput > MaxPower {
		return fmt.Errorf("min_output and max_output must be within [-%d, %d]", MaxPower, MaxPower)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be greater than zero")
	}
	return nil
}

// PidServo is a discrete PID servo with low-pass filtered derivative.
// The integral is not limited other than by the output clamp.
type PidServo struct {
	setPoint          float64
	processVariable   float64
	integral          float64
	lastFilteredError float64
	lastOutput        float64
	state             State
	/* configuration: */
	cfg *PidServoCfg
}

// NewPidServo to create servo structure
func NewPidServo(cfg *PidServoCfg) *PidServo {
	return &PidServo{cfg: cfg}
}

// Sample runs one cycle of the algorithm and returns the bounded output
func (s *PidServo) Sample(setPoint, processVariable float64) (float64, State) {
	dt := s.cfg.Interval.Seconds()
	s.setPoint = setPoint
	s.processVariable = processVariable

	e := setPoint - processVariable
	filtered := s.cfg.LowPass*s.lastFilteredError + (1-s.cfg.LowPass)*e
	s.integral += e * dt
	derivative := (filtered - s.lastFilteredError) / dt
	s.lastFilteredError = filtered

	raw := s.cfg.Kp*e + s.cfg.Ki*s.integral + s.cfg.Kd*derivative
	out, saturated := clamp(raw, s.cfg.MinOutput, s.cfg.MaxOutput)
	s.lastOutput = out
	s.state = StateTracking
	if saturated {
		s.state = StateSaturated
	}
	return out, s.state
}

// State returns the state of the last sample
func (s *PidServo) State() State {
	return s.state
}

// Integral returns the accumulated integral of the error
func (s *PidServo) Integral() float64 {
	return s.integral
}

// LastOutput returns the output of the last sample
func (s *PidServo) LastOutput() float64 {
	return s.lastOutput
}

// Error returns the error of the last sample
func (s *PidServo) Error() float64 {
	return s.setPoint - s.processVariable
}

func (s *PidServo) String() string {
	return fmt.Sprintf("SP:%.2f PV:%.2f I:%.4f F:%.4f OUT:%.2f", s.setPoint, s.processVariable, s.integral, s.lastFilteredError, s.lastOutput)
}
