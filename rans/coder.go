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
	"fmt"

	"github.com/sneller-labs/rans/backend"
	"github.com/sneller-labs/rans/word"
)

// Coder is an rANS entropy coder: compressed words accumulate in bulk,
// with the low bits(S)-bits(W) (at minimum) of pending state held in a
// register, state, that is too narrow to write out a word at a time
// without first refilling or flushing it.
//
// A Coder is not safe for concurrent use. Its zero value is not usable;
// construct one with New, FromCompressed, or FromBinary.
//
// Coder is generic over the compressed-word type W and the state type S;
// every constructor enforces bits(S) >= 2*bits(W) (assertWidths), since
// the renormalization argument the coder relies on assumes a state
// register at least twice as wide as a word.
type Coder[W word.Unsigned, S word.Unsigned] struct {
	bulk  backend.Reader[W]
	state S
}

func assertWidths[W word.Unsigned, S word.Unsigned]() {
	if word.BitsOf[S]() < 2*word.BitsOf[W]() {
		panic("rans: state type must have at least twice the bit width of the word type")
	}
}

func stateSatisfiesInvariant[W word.Unsigned, S word.Unsigned](state S) bool {
	threshold := S(1) << uint(word.BitsOf[S]()-word.BitsOf[W]())
	return state >= threshold
}

// New creates an empty coder backed by a growable buffer, ready for
// encoding.
func New[W word.Unsigned, S word.Unsigned]() *Coder[W, S] {
	assertWidths[W, S]()
	return &Coder[W, S]{bulk: backend.NewGrowable[W]()}
}

// WithStateAndEmptyBulk constructs a coder with an empty growable bulk
// and an arbitrary initial state, bypassing INV-STATE. Most callers want
// New; this exists for advanced constructions (e.g. seeding a coder with
// side information folded into its state before any symbols are pushed).
func WithStateAndEmptyBulk[W word.Unsigned, S word.Unsigned](state S) *Coder[W, S] {
	assertWidths[W, S]()
	return &Coder[W, S]{bulk: backend.NewGrowable[W](), state: state}
}

// FromRawParts assembles a coder from an existing bulk and state. It
// rejects the combination with ErrInvalidRawParts unless bulk is empty or
// state satisfies INV-STATE, since a nonempty bulk paired with a
// too-small state would make renormalization behave inconsistently with
// a coder that reached the same place by encoding.
func FromRawParts[W word.Unsigned, S word.Unsigned](bulk backend.ReadLookaheader[W], state S) (*Coder[W, S], error) {
	assertWidths[W, S]()
	if !bulk.IsEmpty() && !stateSatisfiesInvariant[W, S](state) {
		return nil, ErrInvalidRawParts
	}
	return &Coder[W, S]{bulk: bulk, state: state}, nil
}

// FromCompressed reconstructs a coder from its exported compressed form:
// the bulk is consumed word by word (in the same LIFO order decoding
// uses) until enough bits have accumulated to satisfy INV-STATE, or until
// bulk runs out. Each word popped is placed above the ones already
// absorbed (the first word popped ends up in state's lowest bits), the
// inverse of how IntoCompressed peels state back apart into words, most
// significant chunk first, before appending them to bulk. Returns
// ErrInvalidCompressedData if the first word popped is zero, which can
// only happen for data that did not come from Coder.IntoCompressed.
func FromCompressed[W word.Unsigned, S word.Unsigned](bulk backend.ReadLookaheader[W]) (*Coder[W, S], error) {
	assertWidths[W, S]()
	first, ok := bulk.Read()
	if !ok {
		return &Coder[W, S]{bulk: bulk}, nil
	}
	if first == 0 {
		return nil, ErrInvalidCompressedData
	}

	wordBits := uint(word.BitsOf[W]())
	state := word.Widen[S](first)
	shift := wordBits
	for !stateSatisfiesInvariant[W, S](state) {
		next, ok := bulk.Read()
		if !ok {
			break
		}
		state |= word.Widen[S](next) << shift
		shift += wordBits
	}
	return &Coder[W, S]{bulk: bulk, state: state}, nil
}

// FromBinary reconstructs a coder from a buffer produced by
// Coder.IntoBinary: a plain bitstring with no guarantee its trailing word
// is nonzero, so the word count alone cannot disambiguate how many
// leading zero bits of the first real word are padding versus data. A
// sentinel bit equal to 1 takes state's top position instead, with each
// word popped off bulk shifted in below it in the order it was read: the
// most recently popped word sits lowest, immediately below any words
// popped before it, so the sentinel ends up sitting exactly one bit above
// the highest bit contributed by real data regardless of how many words
// bulk actually had left (a short bulk leaves the sentinel lower; no zero
// words are filled in; see DESIGN.md OQ-3). IntoBinary locates that sentinel bit by its
// position (the highest set bit in state) and strips it back off.
func FromBinary[W word.Unsigned, S word.Unsigned](bulk backend.Reader[W]) *Coder[W, S] {
	assertWidths[W, S]()
	wordBits := uint(word.BitsOf[W]())
	maxWords := (word.BitsOf[S]() + int(wordBits) - 1) / int(wordBits)

	state := S(1)
	for i := 1; i < maxWords; i++ {
		next, ok := bulk.Read()
		if !ok {
			break
		}
		state = state<<wordBits | word.Widen[S](next)
	}
	return &Coder[W, S]{bulk: bulk, state: state}
}

// Bulk returns the coder's backend, for callers that need to inspect it
// directly (e.g. to recover a concrete backend type via type assertion).
func (c *Coder[W, S]) Bulk() backend.Reader[W] {
	return c.bulk
}

// State returns the coder's current state register.
func (c *Coder[W, S]) State() S {
	return c.state
}

// IsEmpty reports whether the coder holds no compressed data at all: no
// buffered bulk words and a zero state.
func (c *Coder[W, S]) IsEmpty() bool {
	if lookaheader, ok := c.bulk.(backend.Lookaheader); ok && !lookaheader.IsEmpty() {
		return false
	}
	return c.state == 0
}

// Clear discards all compressed data, resetting the coder to the same
// state New would produce. Panics if the backend does not support
// Clearer.
func (c *Coder[W, S]) Clear() {
	clearer, ok := c.bulk.(backend.Clearer)
	if !ok {
		panic("rans: coder's backend does not support Clear")
	}
	clearer.Clear()
	c.state = 0
}

// NumWords reports the total number of compressed words the coder
// currently represents: bulk's buffered words plus state's nonzero
// chunks. Panics if the backend does not support Lookaheader.
func (c *Coder[W, S]) NumWords() int {
	lookaheader, ok := c.bulk.(backend.Lookaheader)
	if !ok {
		panic("rans: coder's backend does not support introspection (Lookaheader)")
	}
	return lookaheader.AmtLeft() + len(word.ToChunksTruncated[S, W](c.state))
}

// NumBits is NumWords expressed in bits.
func (c *Coder[W, S]) NumBits() int {
	return word.BitsOf[W]() * c.NumWords()
}

// NumValidBits reports the number of bits of actual compressed
// information the coder holds, excluding the single set "flag" bit
// INV-STATE guarantees exists at the top of a nonempty state. Panics if
// the backend does not support Lookaheader.
func (c *Coder[W, S]) NumValidBits() int {
	lookaheader, ok := c.bulk.(backend.Lookaheader)
	if !ok {
		panic("rans: coder's backend does not support introspection (Lookaheader)")
	}
	sBits := word.BitsOf[S]()
	significant := sBits - word.LeadingZeros(c.state)
	if significant < 1 {
		significant = 1
	}
	return word.BitsOf[W]()*lookaheader.AmtLeft() + significant - 1
}

// Pos returns a (backend position, state) pair that Seek can later use to
// jump back to this exact point in the coder's decode order. Panics if
// the backend does not support Poser.
func (c *Coder[W, S]) Pos() (int, S) {
	poser, ok := c.bulk.(backend.Poser)
	if !ok {
		panic("rans: coder's backend does not support Pos")
	}
	return poser.Pos(), c.state
}

// Seek repositions the coder to a (pos, state) pair previously obtained
// from Pos, possibly on a different Coder value sharing the same
// underlying data (e.g. after IntoReversed or SeekableDecoder). Panics if
// the backend does not support Seeker; returns ErrSeekOutOfRange if pos
// is invalid, or if whether state satisfies INV-STATE is inconsistent
// with whether pos denotes end-of-stream.
func (c *Coder[W, S]) Seek(pos int, state S) error {
	seeker, ok := c.bulk.(backend.Seeker)
	if !ok {
		panic("rans: coder's backend does not support Seek")
	}
	mustBeEnd := !stateSatisfiesInvariant[W, S](state)
	if err := seeker.Seek(pos, mustBeEnd); err != nil {
		return fmt.Errorf("%w: %v", ErrSeekOutOfRange, err)
	}
	c.state = state
	return nil
}

// IntoReversed switches a cursor-backed coder's read direction in place,
// for decoding the same compressed data in the opposite order (e.g. after
// physically reversing it for on-the-wire byte order). Panics if the
// backend does not support Reverser.
func (c *Coder[W, S]) IntoReversed() *Coder[W, S] {
	reverser, ok := c.bulk.(backend.Reverser[W])
	if !ok {
		panic("rans: coder's backend does not support reversal")
	}
	return &Coder[W, S]{bulk: reverser.IntoReversed(), state: c.state}
}

// SeekableDecoder returns an independent coder sharing this one's
// remaining compressed data and current state, suitable for handing out
// to a caller that needs to seek without disturbing this coder's own
// position. Panics if the backend does not support AsReadStacker.
func (c *Coder[W, S]) SeekableDecoder() *Coder[W, S] {
	asReadStack, ok := c.bulk.(backend.AsReadStacker[W])
	if !ok {
		panic("rans: coder's backend does not support AsReadStack")
	}
	return &Coder[W, S]{bulk: asReadStack.AsReadStack(), state: c.state}
}
