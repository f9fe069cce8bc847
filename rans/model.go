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

// Package rans implements a streaming rANS (range Asymmetric Numeral
// System) entropy coder: a stack that encoding pushes symbols onto and
// decoding pops symbols off of, parameterized by a compressed-word type W
// and a state type S with bits(S) >= 2*bits(W).
//
// The coder itself knows nothing about how probabilities are assigned to
// symbols; every encode and decode call takes an explicit model
// implementing EncoderModel or DecoderModel. The model package provides
// two ready-made ones; callers can also implement the interfaces
// directly.
package rans

import "github.com/sneller-labs/rans/word"

// EncoderModel supplies the fixed-point probabilities EncodeSymbol needs
// to push one symbol. Probabilities live on a grid of size
// 2^Precision(): for every symbol in the model's support,
// LeftCumulativeAndProbability must return a pair (cumulative,
// probability) such that the half-open intervals [cumulative,
// cumulative+probability) tile [0, 2^Precision()) without gaps or
// overlaps, in left-cumulative order.
//
// A zero-probability return signals that symbol lies outside the model's
// support; EncodeSymbol reports this as ErrImpossibleSymbol rather than
// corrupting the coder's state.
type EncoderModel[Sym any, W word.Unsigned] interface {
	// Precision is the number of bits of the model's fixed-point
	// probability grid. It must be in (0, bits(W)] and must not change
	// across calls for a given model value.
	Precision() uint
	LeftCumulativeAndProbability(symbol Sym) (cumulative, probability W, err error)
}

// DecoderModel is EncoderModel's inverse: given a quantile in
// [0, 2^Precision()), it returns the unique symbol whose cumulative
// interval contains it, along with that interval's bounds. It must be
// total over the full grid; DecodeSymbol never fails.
type DecoderModel[Sym any, W word.Unsigned] interface {
	Precision() uint
	QuantileFunction(quantile W) (symbol Sym, cumulative, probability W)
}
