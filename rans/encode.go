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

// EncodeSymbol and the functions around it take *Coder[W, S] as an
// explicit argument rather than being methods on Coder: Go does not allow
// a method to introduce a type parameter of its own (Sym here), only the
// ones already bound on its receiver, and Coder deliberately carries no
// Sym parameter since a single coder's lifetime routinely mixes symbols
// of different types and models of different precisions (see the model
// package's Categorical and LeakyQuantizedGaussian, used side by side in
// a typical compressed stream). Package-level generic functions are the
// same shape the standard slices package uses for the analogous problem.

// EncodeSymbol pushes symbol onto c under model, encoding's analogue of
// pushing an element onto a stack: the next DecodeSymbol call against the
// same coder (absent any other encodes in between) pops it back off.
// Returns ErrImpossibleSymbol if model assigns symbol zero probability.
// Panics if c's backend does not support Writer.
func EncodeSymbol[Sym any, W word.Unsigned, S word.Unsigned](c *Coder[W, S], symbol Sym, model EncoderModel[Sym, W]) error {
	writer, ok := c.bulk.(backend.Writer[W])
	if !ok {
		panic("rans: coder's backend does not support Write; cannot encode")
	}

	cumulative, probability, err := model.LeftCumulativeAndProbability(symbol)
	if err != nil || probability == 0 {
		return ErrImpossibleSymbol
	}

	precision := model.Precision()
	sBits := uint(word.BitsOf[S]())
	if c.state>>(sBits-precision) >= word.Widen[S](probability) {
		c.flushState(writer)
	}

	remainder, err := c.decodeRemainderOffState(probability)
	if err != nil {
		return err
	}
	c.appendQuantileToState(cumulative+remainder, precision)
	return nil
}

// SymbolModel pairs a symbol with the model it should be encoded under,
// for encoding sequences whose models vary from one symbol to the next
// (e.g. a LeakyQuantizedGaussian parameterized differently per symbol).
type SymbolModel[Sym any, W word.Unsigned] struct {
	Symbol Sym
	Model  EncoderModel[Sym, W]
}

// EncodeSymbolsReverse encodes pairs in reverse order (last pair first),
// so that decoding in forward order with DecodeSymbols and the
// corresponding DecoderModels reproduces pairs' symbols in their original
// order. This is the usual way to encode a non-IID sequence, since rANS
// is a LIFO stack.
func EncodeSymbolsReverse[Sym any, W word.Unsigned, S word.Unsigned](c *Coder[W, S], pairs []SymbolModel[Sym, W]) error {
	for i := len(pairs) - 1; i >= 0; i-- {
		if err := EncodeSymbol(c, pairs[i].Symbol, pairs[i].Model); err != nil {
			return err
		}
	}
	return nil
}

// EncodeSymbols encodes pairs in forward order. Decoding the result back
// in forward order yields pairs' symbols in reverse; reach for
// EncodeSymbolsReverse instead unless that reversal is what the caller
// wants.
func EncodeSymbols[Sym any, W word.Unsigned, S word.Unsigned](c *Coder[W, S], pairs []SymbolModel[Sym, W]) error {
	for i := range pairs {
		if err := EncodeSymbol(c, pairs[i].Symbol, pairs[i].Model); err != nil {
			return err
		}
	}
	return nil
}

// EncodeIIDSymbolsReverse is EncodeSymbolsReverse specialized to a single
// shared model, the common case of encoding an independent and
// identically distributed sequence.
func EncodeIIDSymbolsReverse[Sym any, W word.Unsigned, S word.Unsigned](c *Coder[W, S], symbols []Sym, model EncoderModel[Sym, W]) error {
	for i := len(symbols) - 1; i >= 0; i-- {
		if err := EncodeSymbol(c, symbols[i], model); err != nil {
			return err
		}
	}
	return nil
}

// EncodeIIDSymbols is EncodeSymbols specialized to a single shared model.
func EncodeIIDSymbols[Sym any, W word.Unsigned, S word.Unsigned](c *Coder[W, S], symbols []Sym, model EncoderModel[Sym, W]) error {
	for i := range symbols {
		if err := EncodeSymbol(c, symbols[i], model); err != nil {
			return err
		}
	}
	return nil
}

// SymbolModelResult is one element of the source TryEncodeSymbolsReverse
// pulls from: either a (symbol, model) pair to encode, or an error from
// whatever produced the sequence (e.g. a statistics pass that failed
// partway through a stream it was simultaneously encoding).
type SymbolModelResult[Sym any, W word.Unsigned] struct {
	Pair SymbolModel[Sym, W]
	Err  error
}

// TryEncodeSymbolsReverse is EncodeSymbolsReverse over a fallible source:
// the first element whose Err is non-nil stops encoding and is reported
// wrapped in ErrSymbolSource, distinguishable from ErrImpossibleSymbol so
// callers can tell a broken upstream producer apart from a genuinely
// out-of-support symbol.
func TryEncodeSymbolsReverse[Sym any, W word.Unsigned, S word.Unsigned](c *Coder[W, S], results []SymbolModelResult[Sym, W]) error {
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Err != nil {
			return &symbolSourceError{results[i].Err}
		}
		if err := EncodeSymbol(c, results[i].Pair.Symbol, results[i].Pair.Model); err != nil {
			return err
		}
	}
	return nil
}

type symbolSourceError struct {
	cause error
}

func (e *symbolSourceError) Error() string {
	return ErrSymbolSource.Error() + ": " + e.cause.Error()
}

func (e *symbolSourceError) Unwrap() error {
	return ErrSymbolSource
}
