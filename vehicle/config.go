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
	"fmt"
	"os"
	"time"

	"github.com/facebook/formulaev3/brick"
	"github.com/facebook/formulaev3/command"
	"github.com/facebook/formulaev3/display"
	"github.com/facebook/formulaev3/drive"
	"github.com/facebook/formulaev3/servo"
	"github.com/facebook/formulaev3/steering"
	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"
)

// KeyboardPeriod is how often the keypad is polled for shutdown
const KeyboardPeriod = 500 * time.Millisecond

// PeriodsConfig holds the period of every task
type PeriodsConfig struct {
	Command  time.Duration `yaml:"command"`
	Display  time.Duration `yaml:"display"`
	Keyboard time.Duration `yaml:"keyboard"`
	Drive    time.Duration `yaml:"drive"`
	Steering time.Duration `yaml:"steering"`
}

// Validate PeriodsConfig is sane
func (c *PeriodsConfig) Validate() error {
	for name, p := range map[string]time.Duration{
		"command":  c.Command,
		"display":  c.Display,
		"keyboard": c.Keyboard,
		"drive":    c.Drive,
		"steering": c.Steering,
	} {
		if p <= 0 {
			return fmt.Errorf("%s period must be greater than zero", name)
		}
	}
	return nil
}

// Config specifies the vehicle run options
type Config struct {
	Periods            PeriodsConfig     `yaml:"periods"`
	Steering           servo.PidServoCfg `yaml:"steering"`
	Drive              drive.Config      `yaml:"drive"`
	BeaconLostDistance int               `yaml:"beacon_lost_distance"`
	Serial             brick.Config      `yaml:"serial"`
	MonitoringPort     int               `yaml:"monitoring_port"`
	MetricsInterval    time.Duration     `yaml:"metrics_interval"`
	Simulate           bool              `yaml:"simulate"`
}

// DefaultConfig returns Config initialized with default values
func DefaultConfig() *Config {
	return &Config{
		Periods: PeriodsConfig{
			Command:  command.Period,
			Display:  display.Period,
			Keyboard: KeyboardPeriod,
			Drive:    drive.Period,
			Steering: steering.Period,
		},
		Steering:           *steering.DefaultServoCfg(),
		Drive:              drive.DefaultConfig(),
		BeaconLostDistance: command.BeaconLostDistance,
		Serial:             brick.DefaultConfig(),
		MonitoringPort:     4270,
		MetricsInterval:    time.Second,
	}
}

// Validate config is sane
func (c *Config) Validate() error {
	if err := c.Periods.Validate(); err != nil {
		return fmt.Errorf("invalid periods config: %w", err)
	}
	if err := c.Steering.Validate(); err != nil {
		return fmt.Errorf("invalid steering config: %w", err)
	}
	if c.Steering.Interval != c.Periods.Steering {
		return fmt.Errorf("steering interval %v must match steering period %v", c.Steering.Interval, c.Periods.Steering)
	}
	if err := c.Drive.Validate(); err != nil {
		return fmt.Errorf("invalid drive config: %w", err)
	}
	if !c.Simulate {
		if err := c.Serial.Validate(); err != nil {
			return fmt.Errorf("invalid serial config: %w", err)
		}
	}
	if c.MonitoringPort < 0 {
		return fmt.Errorf("monitoring_port must be 0 or positive")
	}
	if c.MetricsInterval <= 0 {
		return fmt.Errorf("metrics_interval must be greater than zero")
	}
	return nil
}

// ReadConfig reads config from the file on top of defaults
func ReadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	cData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.UnmarshalStrict(cData, c)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// PrepareConfig prepares final version of config based on defaults, CLI flags and on-disk config, and validates resulting config
func PrepareConfig(cfgPath string, serialPort string, monitoringPort int, simulate bool, setFlags map[string]bool) (*Config, error) {
	cfg := DefaultConfig()
	var err error
	warn := func(name string) {
		log.Warningf("overriding %s from CLI flag", name)
	}
	if cfgPath != "" {
		cfg, err = ReadConfig(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("reading config from %q: %w", cfgPath, err)
		}
	}
	if setFlags["serial"] {
		warn("serial")
		cfg.Serial.Port = serialPort
	}
	if setFlags["monitoringport"] {
		warn("monitoringPort")
		cfg.MonitoringPort = monitoringPort
	}
	if setFlags["simulate"] {
		warn("simulate")
		cfg.Simulate = simulate
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	log.Debugf("config: %+v", cfg)
	return cfg, nil
}
