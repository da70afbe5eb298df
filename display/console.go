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

package display

import (
	"fmt"
	"io"
	"os"

	"github.com/facebook/formulaev3/robot"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Console shows status lines on a terminal or a plain writer
type Console struct {
	w    io.Writer
	tty  bool
	last Line
	init bool
}

// NewConsole returns a Console on w. On a terminal the line is redrawn in place.
func NewConsole(w io.Writer) *Console {
	c := &Console{w: w}
	if f, ok := w.(*os.File); ok {
		c.tty = term.IsTerminal(int(f.Fd()))
	}
	return c
}

func colorize(l Line) string {
	switch l.Pattern {
	case robot.PatternDriving:
		return color.GreenString("%s", l.Text)
	case robot.PatternBeacon:
		return color.BlueString("%s", l.Text)
	case robot.PatternStopped:
		return color.RedString("%s", l.Text)
	}
	return l.Text
}

// Show writes l unless it is the line currently shown
func (c *Console) Show(l Line) error {
	if c.init && l == c.last {
		return nil
	}
	c.init = true
	c.last = l
	var err error
	if c.tty {
		_, err = fmt.Fprintf(c.w, "\u001b[1000D\u001b[K%s", colorize(l))
	} else {
		_, err = fmt.Fprintln(c.w, l.Text)
	}
	return err
}
