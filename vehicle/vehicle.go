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
Package vehicle assembles the motion core: it creates the shared state,
registers the tasks and owns the start and shutdown sequence.
*/
package vehicle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facebook/formulaev3/command"
	"github.com/facebook/formulaev3/display"
	"github.com/facebook/formulaev3/drive"
	"github.com/facebook/formulaev3/robot"
	"github.com/facebook/formulaev3/scheduler"
	"github.com/facebook/formulaev3/servo"
	"github.com/facebook/formulaev3/stats"
	"github.com/facebook/formulaev3/steering"
	log "github.com/sirupsen/logrus"
)

// Vehicle is an assembled, ready to start vehicle
type Vehicle struct {
	state *robot.State
	sched *scheduler.Scheduler
}

// New validates ports and registers all tasks, in the order command, display, keyboard, drive, steering
func New(cfg *Config, ports robot.Ports, sink display.Display, stats stats.Server) (*Vehicle, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	v := &Vehicle{
		state: robot.NewState(ports),
		sched: scheduler.New(stats),
	}
	pidCfg := cfg.Steering
	tasks := []struct {
		name   string
		period time.Duration
		action scheduler.Action
	}{
		{"command", cfg.Periods.Command, command.NewTask(cfg.BeaconLostDistance, stats).Run},
		{"display", cfg.Periods.Display, display.NewTask(sink).Run},
		{"keyboard", cfg.Periods.Keyboard, NewKeyboard(v.sched).Run},
		{"drive", cfg.Periods.Drive, drive.NewTask(cfg.Drive, stats).Run},
		{"steering", cfg.Periods.Steering, steering.NewTask(servo.NewPidServo(&pidCfg), stats).Run},
	}
	for _, t := range tasks {
		if err := v.sched.Add(t.name, t.period, t.action); err != nil {
			return nil, fmt.Errorf("adding %s task: %w", t.name, err)
		}
	}
	return v, nil
}

// State returns the shared vehicle state
func (v *Vehicle) State() *robot.State {
	return v.state
}

// Stop asks the vehicle to stop after the current action.
// Called before Run, it makes Run shut down without starting the tasks.
func (v *Vehicle) Stop() {
	v.sched.Stop()
}

// Run resets the steering tacho and runs all tasks until stopped or ctx is done.
// The vehicle is always shut down before Run returns.
func (v *Vehicle) Run(ctx context.Context) error {
	var err error
	log.Infof("resetting steering tacho")
	if err = v.state.Steering.ResetPosition(); err != nil {
		err = fmt.Errorf("resetting steering tacho: %w", err)
	} else {
		log.Infof("starting")
		err = v.sched.Run(ctx, v.state)
	}
	if err != nil {
		log.Errorf("vehicle failed: %v", err)
	}
	return errors.Join(err, v.Shutdown())
}

// Shutdown switches the indicator off and stops all motors.
// Motors are written last so nothing can move them afterwards.
func (v *Vehicle) Shutdown() error {
	log.Infof("shutting down")
	var errs []error
	if err := v.state.Indicator.SetPattern(robot.PatternOff); err != nil {
		errs = append(errs, fmt.Errorf("setting indicator: %w", err))
	}
	if err := v.state.StopMotors(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
