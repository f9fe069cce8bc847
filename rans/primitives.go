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

// The four primitives below, together with the renormalization helpers
// flushState and tryRefillStateIfNecessary further down, are the only
// places Coder.state is ever rewritten during encode/decode. Each of the
// four is the mirror image of another:
// chopQuantileOffState undoes appendQuantileToState, and
// decodeRemainderOffState undoes encodeRemainderOntoState. EncodeSymbol
// and DecodeSymbol (encode.go, decode.go) compose them in opposite order,
// which is what makes decoding the exact LIFO inverse of encoding.

// chopQuantileOffState removes the low precision bits of state and
// returns them as a quantile on the model's probability grid.
func (c *Coder[W, S]) chopQuantileOffState(precision uint) W {
	mask := S(1)<<precision - 1
	quantile := word.Narrow[W](c.state & mask)
	c.state >>= precision
	return quantile
}

// appendQuantileToState is chopQuantileOffState's inverse: it shifts
// state left by precision bits and folds quantile into the vacated low
// bits.
func (c *Coder[W, S]) appendQuantileToState(quantile W, precision uint) {
	c.state = c.state<<precision | word.Widen[S](quantile)
}

// decodeRemainderOffState divides the remainder of an encoded symbol's
// contribution out of state, the division counterpart of rANS's encode
// step. Returns ErrImpossibleSymbol if probability is zero (division by
// zero would otherwise panic).
func (c *Coder[W, S]) decodeRemainderOffState(probability W) (W, error) {
	if probability == 0 {
		return 0, ErrImpossibleSymbol
	}
	p := word.Widen[S](probability)
	remainder := word.Narrow[W](c.state % p)
	c.state /= p
	return remainder, nil
}

// encodeRemainderOntoState is decodeRemainderOffState's inverse.
func (c *Coder[W, S]) encodeRemainderOntoState(remainder, probability W) {
	c.state = c.state*word.Widen[S](probability) + word.Widen[S](remainder)
}

// flushState writes out the low word of state to w, making room to grow
// state further without overflowing S. Called by EncodeSymbol just
// before a push would otherwise overflow S.
func (c *Coder[W, S]) flushState(w backend.Writer[W]) {
	w.Write(word.Narrow[W](c.state))
	c.state >>= uint(word.BitsOf[W]())
}

// tryRefillStateIfNecessary pulls one more word from bulk into state
// whenever state has dropped below the threshold INV-STATE requires,
// silently doing nothing if bulk is already exhausted (decoding past the
// end of valid data is the caller's responsibility to avoid; see
// DecoderModel's totality requirement).
func (c *Coder[W, S]) tryRefillStateIfNecessary() {
	threshold := S(1) << uint(word.BitsOf[S]()-word.BitsOf[W]())
	if c.state >= threshold {
		return
	}
	next, ok := c.bulk.Read()
	if !ok {
		return
	}
	c.state = c.state<<uint(word.BitsOf[W]()) | word.Widen[S](next)
}
