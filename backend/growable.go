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

import "golang.org/x/exp/slices"

// initialCapacity is the default capacity a fresh Growable pre-allocates,
// avoiding the first few reallocations during encoding of typical inputs.
const initialCapacity = 256

// Growable is the default write target for encoding: a dynamically
// growable buffer of compressed words. It reads back in LIFO order (pop
// from the end), matching the order an rANS encoder must be decoded in.
//
// Growable implements Reader, Writer, Lookaheader, Clearer, and Poser
// (Pos reports the current length). It does not implement Seeker or
// Reverser; use a Cursor over its contents (via AsSlice) for random
// access or reversed traversal.
type Growable[W any] struct {
	data []W
}

// NewGrowable creates an empty growable buffer.
func NewGrowable[W any]() *Growable[W] {
	return &Growable[W]{data: make([]W, 0, initialCapacity)}
}

// NewGrowableFrom wraps an existing slice as a growable buffer's initial
// contents, taking ownership of it.
func NewGrowableFrom[W any](data []W) *Growable[W] {
	return &Growable[W]{data: data}
}

func (g *Growable[W]) Write(w W) {
	g.data = slices.Grow(g.data, 1)
	g.data = append(g.data, w)
}

func (g *Growable[W]) Extend(ws []W) {
	g.data = slices.Grow(g.data, len(ws))
	g.data = append(g.data, ws...)
}

func (g *Growable[W]) Read() (W, bool) {
	if len(g.data) == 0 {
		var zero W
		return zero, false
	}
	last := len(g.data) - 1
	v := g.data[last]
	g.data = g.data[:last]
	return v, true
}

func (g *Growable[W]) Clear() {
	g.data = g.data[:0]
}

func (g *Growable[W]) AmtLeft() int {
	return len(g.data)
}

func (g *Growable[W]) IsEmpty() bool {
	return len(g.data) == 0
}

func (g *Growable[W]) Pos() int {
	return len(g.data)
}

// AsSlice returns the buffer's current contents, in push order. The
// returned slice aliases the buffer's storage; callers must not retain it
// across further mutating calls.
func (g *Growable[W]) AsSlice() []W {
	return g.data
}

// IntoSlice consumes the buffer and returns its contents, clipped to
// exactly its used length.
func (g *Growable[W]) IntoSlice() []W {
	return slices.Clip(g.data)
}

// AsReadStack returns a read-only LIFO view over the buffer's current
// contents without consuming or copying them: the returned Cursor aliases
// g's backing array and only ever reads from it, so mutating g afterward
// (Write, Extend, Clear) invalidates the view.
func (g *Growable[W]) AsReadStack() Reader[W] {
	return NewCursorBackward(g.data)
}
