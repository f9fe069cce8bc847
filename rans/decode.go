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

import "github.com/sneller-labs/rans/word"

// DecodeSymbol pops the next symbol off c under model. Unlike
// EncodeSymbol, decoding never fails: model must be total over
// [0, 2^Precision()), so every quantile chopped off state maps to some
// symbol. Decoding past the last symbol that was actually encoded is the
// caller's responsibility to avoid (it silently returns whatever the
// model maps the coder's residual bits to).
func DecodeSymbol[Sym any, W word.Unsigned, S word.Unsigned](c *Coder[W, S], model DecoderModel[Sym, W]) Sym {
	precision := model.Precision()
	quantile := c.chopQuantileOffState(precision)
	symbol, cumulative, probability := model.QuantileFunction(quantile)
	remainder := quantile - cumulative
	c.encodeRemainderOntoState(remainder, probability)
	c.tryRefillStateIfNecessary()
	return symbol
}

// DecodeIIDSymbols decodes n symbols in a row under a single shared
// model, the inverse of EncodeIIDSymbolsReverse.
func DecodeIIDSymbols[Sym any, W word.Unsigned, S word.Unsigned](c *Coder[W, S], n int, model DecoderModel[Sym, W]) []Sym {
	out := make([]Sym, n)
	for i := range out {
		out[i] = DecodeSymbol(c, model)
	}
	return out
}

// DecodeSymbols decodes len(models) symbols, one per model in order, the
// inverse of EncodeSymbolsReverse given the same sequence of models.
func DecodeSymbols[Sym any, W word.Unsigned, S word.Unsigned](c *Coder[W, S], models []DecoderModel[Sym, W]) []Sym {
	out := make([]Sym, len(models))
	for i, model := range models {
		out[i] = DecodeSymbol(c, model)
	}
	return out
}
