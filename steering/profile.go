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
	"fmt"
	"math"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/facebook/formulaev3/servo"
)

// ProfileHelp is a help message for set point profile expressions
const ProfileHelp = `The set point profile is an expression of t, the time in seconds since start.
evaluation is done with govaluate, please check https://github.com/Knetic/govaluate/blob/master/MANUAL.md
supported functions:
  abs(value) - absolute value
  sin(value), cos(value) - trigonometric functions, value in radians
  step(t, at, to) - 0 before 'at' seconds, 'to' afterwards`

// DefaultProfile is a left turn command half a second after start
const DefaultProfile = "step(t, 0.5, 40)"

func floatArgs(name string, want int, args []interface{}) ([]float64, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%s: wrong number of arguments: want %d, got %d", name, want, len(args))
	}
	res := make([]float64, want)
	for i, a := range args {
		v, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d is not a number", name, i)
		}
		res[i] = v
	}
	return res, nil
}

var profileFunctions = map[string]govaluate.ExpressionFunction{
	"abs": func(args ...interface{}) (interface{}, error) {
		v, err := floatArgs("abs", 1, args)
		if err != nil {
			return nil, err
		}
		return math.Abs(v[0]), nil
	},
	"sin": func(args ...interface{}) (interface{}, error) {
		v, err := floatArgs("sin", 1, args)
		if err != nil {
			return nil, err
		}
		return math.Sin(v[0]), nil
	},
	"cos": func(args ...interface{}) (interface{}, error) {
		v, err := floatArgs("cos", 1, args)
		if err != nil {
			return nil, err
		}
		return math.Cos(v[0]), nil
	},
	"step": func(args ...interface{}) (interface{}, error) {
		v, err := floatArgs("step", 3, args)
		if err != nil {
			return nil, err
		}
		if v[0] < v[1] {
			return 0.0, nil
		}
		return v[2], nil
	},
}

// Profile is a commanded steering angle as a function of time
type Profile struct {
	expr *govaluate.EvaluableExpression
}

// NewProfile parses a profile expression
func NewProfile(exprStr string) (*Profile, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(exprStr, profileFunctions)
	if err != nil {
		return nil, err
	}
	for _, v := range expr.Vars() {
		if v != "t" {
			return nil, fmt.Errorf("unsupported variable %q", v)
		}
	}
	return &Profile{expr: expr}, nil
}

// At evaluates the profile at t
func (p *Profile) At(t time.Duration) (float64, error) {
	res, err := p.expr.Evaluate(map[string]interface{}{"t": t.Seconds()})
	if err != nil {
		return 0, err
	}
	v, ok := res.(float64)
	if !ok {
		return 0, fmt.Errorf("profile evaluated to %v, not a number", res)
	}
	return v, nil
}

// Sample is one cycle of a simulated steering run
type Sample struct {
	T        time.Duration
	SetPoint float64
	Position int32
	Output   float64
	State    servo.State
}

// Simulate runs the steering loop against a motor turning rate degrees per second at full power
func Simulate(cfg *servo.PidServoCfg, p *Profile, duration time.Duration, rate float64) ([]Sample, error) {
	pid := servo.NewPidServo(cfg)
	var pos float64
	var res []Sample
	for t := time.Duration(0); t <= duration; t += cfg.Interval {
		sp, err := p.At(t)
		if err != nil {
			return nil, fmt.Errorf("evaluating profile at %v: %w", t, err)
		}
		tacho := int32(pos)
		out, state := pid.Sample(sp, float64(tacho))
		power := math.Round(out)
		pos += power / 100 * rate * cfg.Interval.Seconds()
		res = append(res, Sample{T: t, SetPoint: sp, Position: tacho, Output: power, State: state})
	}
	return res, nil
}
