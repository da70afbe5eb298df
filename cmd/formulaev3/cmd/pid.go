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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/facebook/formulaev3/steering"
	"github.com/facebook/formulaev3/vehicle"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	pidProfileFlag  string
	pidDurationFlag time.Duration
	pidRateFlag     float64
	pidKpFlag       float64
	pidKiFlag       float64
	pidKdFlag       float64
)

func init() {
	RootCmd.AddCommand(pidCmd)
	pidCmd.Flags().StringVarP(&pidProfileFlag, "profile", "p", steering.DefaultProfile, "set point profile expression")
	pidCmd.Flags().DurationVarP(&pidDurationFlag, "duration", "d", 3*time.Second, "how long to simulate")
	pidCmd.Flags().Float64Var(&pidRateFlag, "rate", 200, "steering motor speed at full power, degrees per second")
	pidCmd.Flags().Float64Var(&pidKpFlag, "kp", steering.Kp, "proportional gain")
	pidCmd.Flags().Float64Var(&pidKiFlag, "ki", steering.Ki, "integral gain")
	pidCmd.Flags().Float64Var(&pidKdFlag, "kd", steering.Kd, "derivative gain")
}

func pidRun(cfg *vehicle.Config, set map[string]bool) error {
	pidCfg := cfg.Steering
	if set["kp"] {
		pidCfg.Kp = pidKpFlag
	}
	if set["ki"] {
		pidCfg.Ki = pidKiFlag
	}
	if set["kd"] {
		pidCfg.Kd = pidKdFlag
	}
	if err := pidCfg.Validate(); err != nil {
		return err
	}
	p, err := steering.NewProfile(pidProfileFlag)
	if err != nil {
		return fmt.Errorf("parsing profile: %w", err)
	}
	samples, err := steering.Simulate(&pidCfg, p, pidDurationFlag, pidRateFlag)
	if err != nil {
		return err
	}

	return writeResponse(os.Stdout, samples)
}

// writeResponse prints samples as a table
func writeResponse(w io.Writer, samples []steering.Sample) error {
	table := tablewriter.NewWriter(w)
	table.Header("t", "set point", "position", "output", "state")
	for _, s := range samples {
		err := table.Append([]string{
			s.T.String(),
			fmt.Sprintf("%.1f", s.SetPoint),
			fmt.Sprintf("%d", s.Position),
			fmt.Sprintf("%.0f", s.Output),
			s.State.String(),
		})
		if err != nil {
			return fmt.Errorf("adding row: %w", err)
		}
	}
	return table.Render()
}

var pidCmd = &cobra.Command{
	Use:   "pid",
	Short: "Print the simulated response of the steering loop",
	Long:  steering.ProfileHelp,
	Run: func(c *cobra.Command, _ []string) {
		ConfigureVerbosity()
		cfg := vehicle.DefaultConfig()
		if rootConfigFlag != "" {
			var err error
			if cfg, err = vehicle.ReadConfig(rootConfigFlag); err != nil {
				log.Fatal(err)
			}
		}
		if err := pidRun(cfg, setFlags(c)); err != nil {
			log.Fatal(err)
		}
	},
}
