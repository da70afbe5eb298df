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
	"github.com/facebook/formulaev3/robot"
)

// EnterFunc is called on a transition between two different directions
type EnterFunc func(s *robot.State, from, to robot.Direction) error

// Machine tracks the last observed direction and fires OnEnter on changes only
type Machine struct {
	current robot.Direction
	onEnter EnterFunc
}

// NewMachine returns a Machine in Stop, the direction every vehicle starts in
func NewMachine(onEnter EnterFunc) *Machine {
	return &Machine{current: robot.Stop, onEnter: onEnter}
}

// Current returns the last observed direction
func (m *Machine) Current() robot.Direction {
	return m.current
}

// Step observes s.Direction. OnEnter runs on every change.
func (m *Machine) Step(s *robot.State) (bool, error) {
	d := s.Direction
	if d == m.current {
		return false, nil
	}
	from := m.current
	m.current = d
	return true, m.onEnter(s, from, d)
}
