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

package vehicle

import (
	"errors"
	"fmt"

	"github.com/facebook/formulaev3/robot"
	log "github.com/sirupsen/logrus"
)

// Stopper is what the keyboard task stops
type Stopper interface {
	Stop()
}

// Keyboard is the shutdown task: Escape stops the run and the motors
type Keyboard struct {
	stopper Stopper
}

// NewKeyboard returns a Keyboard task stopping s
func NewKeyboard(s Stopper) *Keyboard {
	return &Keyboard{stopper: s}
}

// Run polls the keypad once
func (k *Keyboard) Run(s *robot.State) error {
	key, err := s.Keypad.ReadKey()
	if err != nil {
		return fmt.Errorf("reading keypad: %w", err)
	}
	if key != robot.KeyEscape {
		return nil
	}
	log.Infof("escape pressed, stopping")
	k.stopper.Stop()
	var errs []error
	if err := s.Indicator.SetPattern(robot.PatternOff); err != nil {
		errs = append(errs, fmt.Errorf("setting indicator: %w", err))
	}
	if err := s.StopMotors(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
