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

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/facebook/formulaev3/brick"
	"github.com/facebook/formulaev3/robot"
	"github.com/facebook/formulaev3/sim"
	"github.com/facebook/formulaev3/vehicle"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// setFlags returns the names of the flags explicitly set on the command line
func setFlags(c *cobra.Command) map[string]bool {
	res := map[string]bool{}
	c.Flags().Visit(func(f *pflag.Flag) {
		res[f.Name] = true
	})
	return res
}

// hardware is the set of ports a command runs against
type hardware struct {
	ports robot.Ports
	close func()
}

// openHardware connects to the bridge, or builds a simulated vehicle.
// With remote set the simulated vehicle is driven from the terminal.
func openHardware(ctx context.Context, cfg *vehicle.Config, remote bool) (*hardware, error) {
	if !cfg.Simulate {
		b, err := brick.Open(cfg.Serial)
		if err != nil {
			return nil, err
		}
		return &hardware{ports: b.Ports(), close: func() { b.Close() }}, nil
	}

	v := sim.New(sim.DefaultRate)
	hw := &hardware{ports: v.Ports(), close: func() {}}
	fd := int(os.Stdin.Fd())
	if !remote {
		return hw, nil
	}
	if !term.IsTerminal(fd) {
		log.Warningf("stdin is not a terminal, simulated remote is disabled")
		return hw, nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("switching terminal to raw mode: %w", err)
	}
	hw.close = func() {
		if err := term.Restore(fd, oldState); err != nil {
			log.Errorf("restoring terminal: %v", err)
		}
	}
	fmt.Fprintf(os.Stderr, "%s\r\n", sim.RemoteHelp)
	go func() {
		if err := sim.NewKeyboardRemote(os.Stdin, v).Run(ctx); err != nil {
			log.Errorf("simulated remote: %v", err)
		}
	}()
	return hw, nil
}
