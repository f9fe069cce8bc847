// Copyright 2024 The rANS Authors.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package backend

import (
	"errors"

	"golang.org/x/exp/slices"
)

// ErrSeekOutOfRange is returned by Cursor.Seek when pos falls outside the
// backend's data, or when mustBeEnd is inconsistent with pos.
var ErrSeekOutOfRange = errors.New("backend: seek position out of range")

// Cursor is an immutable-slice read backend supporting random access. It
// comes in two flavors, selected by forward:
//
//   - backward (forward == false): reads from the end of data toward the
//     start, the natural pop order for a slice in encoder push order (the
//     same layout Growable.IntoSlice produces).
//   - forward (forward == true): reads from the start of data toward the
//     end; used when data's physical order has already been reversed
//     relative to push order (e.g. for on-disk byte-order reasons).
//
// Pos reports the number of words still unread (AmtLeft), not the number
// consumed: a backward cursor's Pos matches Growable.Pos at the
// corresponding point in encoding, since both count the words making up
// the not-yet-(further-)written prefix of the final compressed data. This
// is what lets a (pos, state) pair captured while encoding later reseek a
// decoder built from the finished output. IntoReversed switches between
// the two flavors in place (a single slices.Reverse call, no second
// allocation); consumed is left untouched, since data[consumed:] after
// the reversal already names the same remaining words the cursor was
// about to read before, just re-expressed in the other direction.
type Cursor[W any] struct {
	data     []W
	consumed int
	forward  bool
}

// NewCursorBackward wraps data, read back-to-front (LIFO over push
// order).
func NewCursorBackward[W any](data []W) *Cursor[W] {
	return &Cursor[W]{data: data}
}

// NewCursorForward wraps data whose physical order has already been
// reversed, read front-to-back.
func NewCursorForward[W any](data []W) *Cursor[W] {
	return &Cursor[W]{data: data, forward: true}
}

func (c *Cursor[W]) index() int {
	if c.forward {
		return c.consumed
	}
	return len(c.data) - 1 - c.consumed
}

func (c *Cursor[W]) Read() (W, bool) {
	if c.consumed >= len(c.data) {
		var zero W
		return zero, false
	}
	v := c.data[c.index()]
	c.consumed++
	return v, true
}

func (c *Cursor[W]) AmtLeft() int {
	return len(c.data) - c.consumed
}

func (c *Cursor[W]) IsEmpty() bool {
	return c.consumed >= len(c.data)
}

func (c *Cursor[W]) Pos() int {
	return c.AmtLeft()
}

// Seek moves the cursor to pos, the AmtLeft value Pos would report at the
// target point, which must be consistent with mustBeEnd: pos == 0 (no
// words left to read) iff mustBeEnd is true.
func (c *Cursor[W]) Seek(pos int, mustBeEnd bool) error {
	if pos < 0 || pos > len(c.data) {
		return ErrSeekOutOfRange
	}
	if (pos == 0) != mustBeEnd {
		return ErrSeekOutOfRange
	}
	c.consumed = len(c.data) - pos
	return nil
}

// IntoReversed switches this cursor's traversal direction in place and
// returns it (as a Reader) so the same value can keep being used. consumed
// is left unchanged: Pos (AmtLeft) is a function of len(data)-consumed,
// which slices.Reverse does not disturb, so a checkpoint captured under
// one flavor reseeks the other directly, with no remapping at the call
// site.
func (c *Cursor[W]) IntoReversed() Reader[W] {
	slices.Reverse(c.data)
	c.forward = !c.forward
	return c
}

// AsReadStack returns a read-only view sharing this cursor's position and
// storage; used to hand out independent decoders over the same data
// (advancing the returned Reader does not advance this Cursor further
// than the snapshot taken at call time, since it copies the cursor value).
func (c *Cursor[W]) AsReadStack() Reader[W] {
	snapshot := *c
	return &snapshot
}
