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

// Package word provides the bit-width arithmetic shared by the rANS coder
// and its stream backends: the unsigned-integer constraint the coder is
// generic over, bit-width introspection, and the chunk decomposition used
// to move a wide state register into and out of narrow compressed words.
package word

import (
	"math/bits"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Unsigned is the set of integer types usable as a rANS word (W) or state
// (S). Both the compressed-word type and the state type are drawn from
// this same constraint; the coder independently requires bits(S) >=
// 2*bits(W), checked at construction time (see rans.Coder).
type Unsigned interface {
	constraints.Unsigned
}

// BitsOf returns the bit width of T, e.g. 8 for uint8, 64 for uint64.
func BitsOf[T Unsigned]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

// LeadingZeros returns the number of leading zero bits in x, counting from
// the most significant bit of T. LeadingZeros of the zero value of T
// equals BitsOf[T](), matching the convention clz(0) = bits(T) used
// throughout the coder's introspection formulas.
func LeadingZeros[T Unsigned](x T) int {
	w := BitsOf[T]()
	return bits.LeadingZeros64(uint64(x)) - (64 - w)
}

// Narrow truncates a wider value down to W, keeping only its low
// bits(W) bits. Used to move a chunk of state into a compressed word.
func Narrow[W Unsigned, S Unsigned](x S) W {
	return W(x)
}

// Widen extends a narrower value up to S. Unsigned widening is total: no
// bits are lost and no sign extension occurs.
func Widen[S Unsigned, W Unsigned](x W) S {
	return S(x)
}
