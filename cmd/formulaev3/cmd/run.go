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
	"os"
	"os/signal"

	"github.com/coreos/go-systemd/daemon"
	"github.com/davecgh/go-spew/spew"
	"github.com/facebook/formulaev3/display"
	"github.com/facebook/formulaev3/stats"
	"github.com/facebook/formulaev3/vehicle"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

var runMonitoringPortFlag int

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVarP(&runMonitoringPortFlag, "monitoringport", "m", vehicle.DefaultConfig().MonitoringPort, "port to serve stats on, 0 disables it")
}

func runRun(cfg *vehicle.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	hw, err := openHardware(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer hw.close()

	st := stats.NewJSONStats()
	v, err := vehicle.New(cfg, hw.ports, display.NewConsole(os.Stdout), st)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	eg, egCtx := errgroup.WithContext(runCtx)
	if cfg.MonitoringPort > 0 {
		eg.Go(func() error {
			return st.Start(egCtx, cfg.MonitoringPort, cfg.MetricsInterval)
		})
	}
	eg.Go(func() error {
		defer cancel()
		return v.Run(egCtx)
	})
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warningf("notifying systemd: %v", err)
	}
	return eg.Wait()
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the car from the infrared remote",
	Run: func(c *cobra.Command, _ []string) {
		ConfigureVerbosity()
		cfg, err := vehicle.PrepareConfig(rootConfigFlag, rootSerialFlag, runMonitoringPortFlag, rootSimulateFlag, setFlags(c))
		if err != nil {
			log.Fatal(err)
		}
		if rootVerboseFlag {
			log.Debugf("resolved config:\n%s", spew.Sdump(cfg))
		}
		if err := runRun(cfg); err != nil {
			log.Fatal(err)
		}
	},
}
