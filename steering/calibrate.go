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

package steering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebook/formulaev3/robot"
	log "github.com/sirupsen/logrus"
)

// Calibration limits
const (
	CalibrationMin   = -30
	CalibrationMax   = 30
	CalibrationPower = int8(10)
	CalibrationPulse = 300 * time.Millisecond
)

// ErrCalibrationRange is returned for calibration values outside of [CalibrationMin, CalibrationMax]
var ErrCalibrationRange = errors.New("calibration value out of range")

// Calibrator nudges the steering motor to re-center the wheels before a run
type Calibrator struct {
	motor    robot.Motor
	previous int
	Pulse    time.Duration
}

// NewCalibrator returns a Calibrator which starts from 0
func NewCalibrator(motor robot.Motor) *Calibrator {
	return &Calibrator{motor: motor, Pulse: CalibrationPulse}
}

// Previous returns the last accepted calibration value
func (c *Calibrator) Previous() int {
	return c.previous
}

// Calibrate moves the steering one pulse towards value.
// A value greater than the previous one turns the motor backwards.
func (c *Calibrator) Calibrate(ctx context.Context, value int) error {
	if value < CalibrationMin || value > CalibrationMax {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrCalibrationRange, value, CalibrationMin, CalibrationMax)
	}
	power := CalibrationPower
	if value > c.previous {
		power = -CalibrationPower
	}
	log.Infof("calibrating steering %d -> %d, power %d", c.previous, value, power)
	c.previous = value

	if err := c.motor.SetPower(power); err != nil {
		return fmt.Errorf("setting steering power: %w", err)
	}
	var ctxErr error
	timer := time.NewTimer(c.Pulse)
	select {
	case <-ctx.Done():
		timer.Stop()
		ctxErr = ctx.Err()
	case <-timer.C:
	}
	if err := c.motor.SetPower(0); err != nil {
		return fmt.Errorf("stopping steering motor: %w", err)
	}
	return ctxErr
}
