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

package sim

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/facebook/formulaev3/robot"
	log "github.com/sirupsen/logrus"
)

// RemoteHelp lists the keys KeyboardRemote understands
const RemoteHelp = `w forward, a left forward, d right forward,
s backward, z left backward, c right backward,
b beacon, n lose beacon, space stop, q quit`

var remoteCodes = map[byte]uint8{
	'w': 5,
	'a': 1,
	'd': 3,
	's': 8,
	'z': 2,
	'c': 4,
	'b': 9,
	' ': 0,
}

// KeyboardRemote turns key presses into held remote buttons
type KeyboardRemote struct {
	r io.Reader
	v *Vehicle
}

// NewKeyboardRemote returns a remote reading keys from r
func NewKeyboardRemote(r io.Reader, v *Vehicle) *KeyboardRemote {
	return &KeyboardRemote{r: r, v: v}
}

// Handle applies a single key press
func (k *KeyboardRemote) Handle(c byte) {
	switch c {
	case 'q', 3: // ctrl-c in raw mode
		k.v.Keypad.Press(robot.KeyEscape)
		return
	case 'b':
		// beacon ahead, well in range
		k.v.Receiver.SetBeacon(robot.BeaconLocation{Bearing: 0, Distance: 50})
	case 'n':
		k.v.Receiver.SetBeacon(robot.BeaconLocation{Distance: robot.BeaconNotDetected})
		return
	}
	code, ok := remoteCodes[c]
	if !ok {
		return
	}
	log.Debugf("remote: holding %d", code)
	k.v.Receiver.Hold(code)
}

// Run reads keys until r is exhausted or ctx is done
func (k *KeyboardRemote) Run(ctx context.Context) error {
	br := bufio.NewReader(k.r)
	for {
		if ctx.Err() != nil {
			return nil
		}
		c, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		k.Handle(c)
	}
}
