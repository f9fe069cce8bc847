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

package rans

import (
	"github.com/sneller-labs/rans/backend"
	"github.com/sneller-labs/rans/word"
)

// FromCompressedSlice reconstructs a coder that owns a copy-free,
// growable view over data, which must be in the layout Coder.IntoCompressed
// produces (push order: oldest word first). The returned coder can both
// decode and continue encoding.
func FromCompressedSlice[W word.Unsigned, S word.Unsigned](data []W) (*Coder[W, S], error) {
	return FromCompressed[W, S](backend.NewGrowableFrom(data))
}

// FromReversedCompressed reconstructs a read-only decoder over data
// already stored in reversed order relative to Coder.IntoCompressed's
// output (newest word first), without copying or re-reversing it.
func FromReversedCompressed[W word.Unsigned, S word.Unsigned](data []W) (*Coder[W, S], error) {
	return FromCompressed[W, S](backend.NewCursorForward(data))
}

// FromCompressedIter reconstructs a read-only, forward-only decoder that
// pulls compressed words lazily from next, in the same pop order
// Coder.IntoCompressed's output would be read back in.
func FromCompressedIter[W word.Unsigned, S word.Unsigned](next func() (W, bool)) (*Coder[W, S], error) {
	return FromCompressed[W, S](lookaheadlessIter[W]{backend.NewFromIter(next)})
}

// lookaheadlessIter adapts backend.FromIter (Reader only) to
// backend.ReadLookaheader by reporting AmtLeft/IsEmpty conservatively:
// an iterator's remaining length is unknowable in general, so IsEmpty
// always reports false and AmtLeft always reports -1, even after Read
// has reported exhaustion. This is
// sufficient for FromCompressed, which only calls Read in a loop guarded
// by its own return value, never IsEmpty/AmtLeft.
type lookaheadlessIter[W any] struct {
	*backend.FromIter[W]
}

func (lookaheadlessIter[W]) AmtLeft() int  { return -1 }
func (lookaheadlessIter[W]) IsEmpty() bool { return false }
