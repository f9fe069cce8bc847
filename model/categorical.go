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

// Package model supplies two reference implementations of the rans
// package's EncoderModel/DecoderModel interfaces: Categorical, for a
// fixed finite alphabet with arbitrary per-symbol probabilities, and
// LeakyQuantizedGaussian, for integer symbols whose probabilities follow
// a quantized normal distribution. Neither attempts to be a general
// entropy model library; they exist to drive rans's own test suite and
// cmd/ransdemo end to end.
package model

import (
	"fmt"

	"github.com/sneller-labs/rans/word"
)

// rawFreqScale is the fixed-point scale raw (floating-point) probability
// mass is quantized to before rescaleFreqs redistributes it onto the
// target grid. It only needs to be large enough that small probabilities
// don't all round to the same raw count; the rescale step that follows
// is exact regardless of this choice.
const rawFreqScale = 1 << 30

// Categorical is a fixed finite-alphabet model: each symbol has a fixed
// probability, quantized onto the 2^precision grid via the same
// "leaky" rescale-then-patch algorithm the teacher corpus uses to turn
// byte-frequency histograms into an ANS probability table (steal a unit
// of frequency from the least-common symbol with spare frequency to
// rescue any symbol that would otherwise round down to zero).
type Categorical[Sym comparable, W word.Unsigned] struct {
	precision uint
	symbols   []Sym
	cumFreqs  []W // length len(symbols)+1; cumFreqs[i] is symbols[i]'s left cumulative
	index     map[Sym]int
}

// NewCategorical builds a Categorical model over symbols, one probability
// per symbol (need not sum to exactly 1; only relative magnitudes
// matter), quantized to a grid of size 2^precision. Every symbol with a
// strictly positive input probability is guaranteed at least one unit of
// frequency on the output grid.
func NewCategorical[Sym comparable, W word.Unsigned](symbols []Sym, probabilities []float64, precision uint) (*Categorical[Sym, W], error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("model: categorical requires at least one symbol")
	}
	if len(symbols) != len(probabilities) {
		return nil, fmt.Errorf("model: %d symbols but %d probabilities", len(symbols), len(probabilities))
	}
	wBits := uint(word.BitsOf[W]())
	if precision == 0 || precision > wBits {
		return nil, fmt.Errorf("model: precision %d out of range (1..=%d)", precision, wBits)
	}

	raw := make([]uint64, len(symbols))
	for i, p := range probabilities {
		if p < 0 {
			return nil, fmt.Errorf("model: negative probability for symbol index %d", i)
		}
		f := uint64(p * rawFreqScale)
		if p > 0 && f == 0 {
			f = 1
		}
		raw[i] = f
	}

	cumFreqs, err := rescaleFreqs(raw, uint64(1)<<precision)
	if err != nil {
		return nil, err
	}

	wCumFreqs := make([]W, len(cumFreqs))
	index := make(map[Sym]int, len(symbols))
	for i, c := range cumFreqs {
		wCumFreqs[i] = W(c)
	}
	for i, s := range symbols {
		index[s] = i
	}

	return &Categorical[Sym, W]{
		precision: precision,
		symbols:   append([]Sym(nil), symbols...),
		cumFreqs:  wCumFreqs,
		index:     index,
	}, nil
}

// rescaleFreqs rescales raw frequencies (which need not sum to target)
// onto a grid summing to exactly target, then patches any originally
// nonzero frequency that rescaled to zero by stealing a unit from the
// least-frequent symbol with spare frequency to steal. Returns the
// resulting cumulative frequencies, length len(raw)+1.
//
// Grounded on the teacher's ansRawStatistics.normalizeFreqs (iguana's ANS
// byte-histogram normalizer), generalized from a fixed 256-entry alphabet
// to an arbitrary one.
func rescaleFreqs(raw []uint64, target uint64) ([]uint64, error) {
	n := len(raw)
	var total uint64
	for _, f := range raw {
		total += f
	}
	if total == 0 {
		return nil, fmt.Errorf("model: all probabilities are zero")
	}

	cumFreqs := make([]uint64, n+1)
	for i := 0; i < n; i++ {
		cumFreqs[i+1] = cumFreqs[i] + raw[i]
	}
	for i := 1; i <= n; i++ {
		cumFreqs[i] = target * cumFreqs[i] / total
	}

	for i := 0; i < n; i++ {
		if raw[i] != 0 && cumFreqs[i+1] == cumFreqs[i] {
			bestFreq := ^uint64(0)
			bestSteal := -1
			for j := 0; j < n; j++ {
				freq := cumFreqs[j+1] - cumFreqs[j]
				if freq > 1 && freq < bestFreq {
					bestFreq = freq
					bestSteal = j
				}
			}
			if bestSteal < 0 {
				return nil, fmt.Errorf("model: precision too low to give every symbol nonzero frequency")
			}
			if bestSteal < i {
				for j := bestSteal + 1; j <= i; j++ {
					cumFreqs[j]--
				}
			} else {
				for j := i + 1; j <= bestSteal; j++ {
					cumFreqs[j]++
				}
			}
		}
	}
	return cumFreqs, nil
}

func (m *Categorical[Sym, W]) Precision() uint { return m.precision }

func (m *Categorical[Sym, W]) LeftCumulativeAndProbability(symbol Sym) (cumulative, probability W, err error) {
	i, ok := m.index[symbol]
	if !ok {
		return 0, 0, fmt.Errorf("model: symbol %v is not in the alphabet", symbol)
	}
	probability = m.cumFreqs[i+1] - m.cumFreqs[i]
	if probability == 0 {
		return 0, 0, fmt.Errorf("model: symbol %v has zero probability", symbol)
	}
	return m.cumFreqs[i], probability, nil
}

func (m *Categorical[Sym, W]) QuantileFunction(quantile W) (symbol Sym, cumulative, probability W) {
	lo, hi := 0, len(m.symbols)
	for lo < hi {
		mid := (lo + hi) / 2
		if m.cumFreqs[mid+1] <= quantile {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return m.symbols[lo], m.cumFreqs[lo], m.cumFreqs[lo+1] - m.cumFreqs[lo]
}
