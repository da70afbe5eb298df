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

/*
Package brick talks to the motor and sensor bridge over a serial line.

The protocol is line based. Every request is a single line and is answered
by exactly one line, either "ok" followed by optional values or "err"
followed by a message:

	> version
	< ok 1.2.0
	> motor B power -100
	< ok
	> motor A tacho
	< ok -37
	> ir beacon
	< ok 5 50
*/
package brick

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/facebook/formulaev3/robot"
	version "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

var (
	// ErrFirmwareVersion is returned when the bridge firmware is older than required
	ErrFirmwareVersion = errors.New("bridge firmware is too old")
	// ErrProtocol is returned on malformed answers
	ErrProtocol = errors.New("protocol error")
)

// Motor ports of the bridge
const (
	PortSteering = "A"
	PortLeft     = "B"
	PortRight    = "C"
)

// Config describes the serial connection to the bridge
type Config struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	Timeout     time.Duration `yaml:"timeout"`
	MinFirmware string        `yaml:"min_firmware"`
}

// DefaultConfig returns Config initialized with default values
func DefaultConfig() Config {
	return Config{
		Port:        "/dev/ttyUSB0",
		Baud:        115200,
		Timeout:     time.Second,
		MinFirmware: "1.0.0",
	}
}

// Validate Config is sane
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must be specified")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be greater than zero")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than zero")
	}
	if _, err := version.NewVersion(c.MinFirmware); err != nil {
		return fmt.Errorf("min_firmware: %w", err)
	}
	return nil
}

// Brick is a connected bridge
type Brick struct {
	sync.Mutex
	rw io.ReadWriter
	r  *bufio.Reader
}

// New returns a Brick speaking over rw
func New(rw io.ReadWriter) *Brick {
	return &Brick{rw: rw, r: bufio.NewReader(rw)}
}

// Open opens the serial port and checks the bridge firmware
func Open(cfg Config) (*Brick, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Port, err)
	}
	if err := port.SetReadTimeout(cfg.Timeout); err != nil {
		port.Close()
		return nil, err
	}
	b := New(port)
	if err := b.CheckFirmware(cfg.MinFirmware); err != nil {
		port.Close()
		return nil, err
	}
	return b, nil
}

// Close closes the underlying port if it can be closed
func (b *Brick) Close() error {
	if c, ok := b.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// call sends one request and returns the values of the answer
func (b *Brick) call(format string, args ...any) ([]string, error) {
	b.Lock()
	defer b.Unlock()
	req := fmt.Sprintf(format, args...)
	if _, err := fmt.Fprintf(b.rw, "%s\n", req); err != nil {
		return nil, err
	}
	line, err := b.r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%q: reading answer: %w", req, err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%q: %w: empty answer", req, ErrProtocol)
	}
	switch fields[0] {
	case "ok":
		return fields[1:], nil
	case "err":
		return nil, fmt.Errorf("%q: %s", req, strings.Join(fields[1:], " "))
	}
	return nil, fmt.Errorf("%q: %w: unexpected answer %q", req, ErrProtocol, strings.TrimSpace(line))
}

func (b *Brick) callInts(n int, format string, args ...any) ([]int, error) {
	fields, err := b.call(format, args...)
	if err != nil {
		return nil, err
	}
	if len(fields) != n {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrProtocol, n, len(fields))
	}
	res := make([]int, n)
	for i, f := range fields {
		if res[i], err = strconv.Atoi(f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProtocol, err)
		}
	}
	return res, nil
}

// Firmware returns the firmware version of the bridge
func (b *Brick) Firmware() (*version.Version, error) {
	fields, err := b.call("version")
	if err != nil {
		return nil, err
	}
	if len(fields) != 1 {
		return nil, fmt.Errorf("%w: malformed version %v", ErrProtocol, fields)
	}
	return version.NewVersion(fields[0])
}

// CheckFirmware makes sure the bridge runs at least min
func (b *Brick) CheckFirmware(min string) error {
	want, err := version.NewVersion(min)
	if err != nil {
		return err
	}
	got, err := b.Firmware()
	if err != nil {
		return fmt.Errorf("reading firmware version: %w", err)
	}
	if got.LessThan(want) {
		return fmt.Errorf("%w: running %s, need %s", ErrFirmwareVersion, got, want)
	}
	log.Infof("bridge firmware %s", got)
	return nil
}

// Motor is a motor port of the bridge
type Motor struct {
	b    *Brick
	port string
}

// Motor returns the motor attached to port
func (b *Brick) Motor(port string) *Motor {
	return &Motor{b: b, port: port}
}

// SetPower sets the motor power in percent
func (m *Motor) SetPower(power int8) error {
	_, err := m.b.call("motor %s power %d", m.port, power)
	return err
}

// Position returns the tacho count in degrees
func (m *Motor) Position() (int32, error) {
	v, err := m.b.callInts(1, "motor %s tacho", m.port)
	if err != nil {
		return 0, err
	}
	return int32(v[0]), nil
}

// ResetPosition zeroes the tacho count
func (m *Motor) ResetPosition() error {
	_, err := m.b.call("motor %s reset", m.port)
	return err
}

// ReadCommand returns the code of the remote button currently held
func (b *Brick) ReadCommand() (uint8, error) {
	v, err := b.callInts(1, "ir remote")
	if err != nil {
		return 0, err
	}
	if v[0] < 0 || v[0] > 255 {
		return 0, fmt.Errorf("%w: remote code %d", ErrProtocol, v[0])
	}
	return uint8(v[0]), nil
}

// ReadBeacon returns the current beacon location
func (b *Brick) ReadBeacon() (robot.BeaconLocation, error) {
	v, err := b.callInts(2, "ir beacon")
	if err != nil {
		return robot.BeaconLocation{}, err
	}
	return robot.BeaconLocation{Bearing: v[0], Distance: v[1]}, nil
}

var keys = map[string]robot.Key{
	"none":   robot.KeyNone,
	"enter":  robot.KeyEnter,
	"escape": robot.KeyEscape,
	"up":     robot.KeyUp,
	"down":   robot.KeyDown,
	"left":   robot.KeyLeft,
	"right":  robot.KeyRight,
}

// ReadKey returns the button currently pressed
func (b *Brick) ReadKey() (robot.Key, error) {
	fields, err := b.call("keys")
	if err != nil {
		return robot.KeyNone, err
	}
	if len(fields) != 1 {
		return robot.KeyNone, fmt.Errorf("%w: malformed keys %v", ErrProtocol, fields)
	}
	k, ok := keys[fields[0]]
	if !ok {
		return robot.KeyNone, fmt.Errorf("%w: unknown key %q", ErrProtocol, fields[0])
	}
	return k, nil
}

// SetPattern switches the status light pattern
func (b *Brick) SetPattern(p robot.Pattern) error {
	_, err := b.call("led %d", p)
	return err
}

// Ports returns the bridge wired as vehicle ports
func (b *Brick) Ports() robot.Ports {
	return robot.Ports{
		Left:      b.Motor(PortLeft),
		Right:     b.Motor(PortRight),
		Steering:  b.Motor(PortSteering),
		Receiver:  b,
		Keypad:    b,
		Indicator: b,
	}
}
