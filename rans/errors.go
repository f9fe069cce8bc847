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

import "errors"

var (
	// ErrImpossibleSymbol is returned by EncodeSymbol (and the batch
	// encode helpers) when a model assigns the symbol zero probability.
	ErrImpossibleSymbol = errors.New("rans: symbol has zero probability under model")

	// ErrInvalidCompressedData is returned by FromCompressed when the
	// supplied data's first popped word is zero, violating the invariant
	// that a coder's compressed form never ends in a zero word.
	ErrInvalidCompressedData = errors.New("rans: compressed data ends in a zero word")

	// ErrInvalidRawParts is returned by FromRawParts when state fails to
	// satisfy INV-STATE for a nonempty bulk.
	ErrInvalidRawParts = errors.New("rans: state does not satisfy the state invariant for a nonempty bulk")

	// ErrNotSealed is returned by IntoBinary when the coder's state is
	// zero or its valid bit count is not a whole multiple of bits(W).
	ErrNotSealed = errors.New("rans: coder is not bit-aligned to a whole number of words")

	// ErrSeekOutOfRange is returned by Coder.Seek when the target
	// position is invalid for the backend, or inconsistent with whether
	// the target state satisfies INV-STATE.
	ErrSeekOutOfRange = errors.New("rans: seek position is out of range")

	// ErrSymbolSource is returned by TryEncodeSymbolsReverse, wrapping
	// whatever error the caller's symbol/model source produced.
	ErrSymbolSource = errors.New("rans: symbol source failed before producing a symbol")
)
