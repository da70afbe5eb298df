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
	"strconv"

	"github.com/facebook/formulaev3/steering"
	"github.com/facebook/formulaev3/vehicle"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(calibrateCmd)
}

func calibrateRun(ctx context.Context, cfg *vehicle.Config, values []int) error {
	hw, err := openHardware(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer hw.close()

	c := steering.NewCalibrator(hw.ports.Steering)
	for _, v := range values {
		if err := c.Calibrate(ctx, v); err != nil {
			return err
		}
		fmt.Printf("steering calibrated to %d\n", c.Previous())
	}
	return nil
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate value [value...]",
	Short: "Nudge the steering motor to re-center the front wheels",
	Long: fmt.Sprintf("Every value in [%d, %d] moves the steering one pulse, in the direction of the change from the previous value. The first value is compared to 0.",
		steering.CalibrationMin, steering.CalibrationMax),
	Args: cobra.MinimumNArgs(1),
	Run: func(c *cobra.Command, args []string) {
		ConfigureVerbosity()
		values := make([]int, 0, len(args))
		for _, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				log.Fatalf("parsing %q: %v", a, err)
			}
			values = append(values, v)
		}
		cfg, err := vehicle.PrepareConfig(rootConfigFlag, rootSerialFlag, 0, rootSimulateFlag, setFlags(c))
		if err != nil {
			log.Fatal(err)
		}
		if err := calibrateRun(c.Context(), cfg, values); err != nil {
			log.Fatal(err)
		}
	},
}
