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
	"golang.org/x/exp/constraints"
)

// State provides the result of servo calculation
type State uint8

// All the states of servo
const (
	StateInit      State = 0
	StateTracking  State = 1
	StateSaturated State = 2
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateTracking:
		return "TRACKING"
	case StateSaturated:
		return "SATURATED"
	}
	return "UNSUPPORTED"
}

// clamp bounds v to [lo, hi] and reports whether it had to
func clamp[T constraints.Ordered](v, lo, hi T) (T, bool) {
	if v < lo {
		return lo, true
	}
	if v > hi {
		return hi, true
	}
	return v, false
}
