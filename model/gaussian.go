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

package model

import (
	"fmt"
	"math"

	"github.com/sneller-labs/rans/word"
)

// LeakyQuantizedGaussian models a single integer symbol drawn from a
// normal distribution with the given mean and standard deviation,
// quantized onto a finite support [supportMin, supportMax] and a
// 2^precision probability grid. "Leaky" means every integer in the
// support gets at least one unit of frequency, however far it sits in
// the tails, so the model stays total over its support even when the
// true Gaussian mass there would round to zero.
//
// Each symbol in a non-IID sequence (e.g. one video frame's worth of
// residuals, each centered on a different per-symbol prediction) gets its
// own LeakyQuantizedGaussian instance; unlike Categorical this type keeps
// no symbol list or symbol index, since its symbols are the integers of
// its support: only the cumulative frequency table is stored.
type LeakyQuantizedGaussian[W word.Unsigned] struct {
	precision  uint
	supportMin int32
	cumFreqs   []W // length (supportMax-supportMin+2); index 0 is supportMin
}

// NewLeakyQuantizedGaussian builds a model for a Gaussian(mean, std)
// truncated to [supportMin, supportMax] and quantized to a grid of size
// 2^precision, via the same rescale-then-patch quantization Categorical
// uses.
func NewLeakyQuantizedGaussian[W word.Unsigned](mean, std float64, supportMin, supportMax int32, precision uint) (*LeakyQuantizedGaussian[W], error) {
	if supportMax < supportMin {
		return nil, fmt.Errorf("model: empty support [%d, %d]", supportMin, supportMax)
	}
	if std <= 0 {
		return nil, fmt.Errorf("model: non-positive standard deviation %v", std)
	}
	wBits := uint(word.BitsOf[W]())
	if precision == 0 || precision > wBits {
		return nil, fmt.Errorf("model: precision %d out of range (1..=%d)", precision, wBits)
	}

	n := int(supportMax-supportMin) + 1
	raw := make([]uint64, n)
	lo := normalCDF(float64(supportMin)-0.5, mean, std)
	for i := 0; i < n; i++ {
		x := float64(supportMin) + float64(i)
		hi := normalCDF(x+0.5, mean, std)
		mass := hi - lo
		lo = hi
		if mass < 0 {
			mass = 0
		}
		f := uint64(mass * rawFreqScale)
		if f == 0 {
			f = 1
		}
		raw[i] = f
	}

	cumFreqs, err := rescaleFreqs(raw, uint64(1)<<precision)
	if err != nil {
		return nil, err
	}
	wCumFreqs := make([]W, len(cumFreqs))
	for i, c := range cumFreqs {
		wCumFreqs[i] = W(c)
	}

	return &LeakyQuantizedGaussian[W]{
		precision:  precision,
		supportMin: supportMin,
		cumFreqs:   wCumFreqs,
	}, nil
}

// normalCDF is the CDF of a normal distribution with the given mean and
// standard deviation, evaluated via math.Erf as
// math/rand's normal sampling machinery and most Go statistics packages
// in the ecosystem do, rather than a hand-rolled rational approximation.
func normalCDF(x, mean, std float64) float64 {
	return 0.5 * (1 + math.Erf((x-mean)/(std*math.Sqrt2)))
}

func (m *LeakyQuantizedGaussian[W]) Precision() uint { return m.precision }

func (m *LeakyQuantizedGaussian[W]) supportMax() int32 {
	return m.supportMin + int32(len(m.cumFreqs)) - 2
}

func (m *LeakyQuantizedGaussian[W]) LeftCumulativeAndProbability(symbol int32) (cumulative, probability W, err error) {
	if symbol < m.supportMin || symbol > m.supportMax() {
		return 0, 0, fmt.Errorf("model: symbol %d outside support [%d, %d]", symbol, m.supportMin, m.supportMax())
	}
	i := int(symbol - m.supportMin)
	probability = m.cumFreqs[i+1] - m.cumFreqs[i]
	if probability == 0 {
		return 0, 0, fmt.Errorf("model: symbol %d has zero probability", symbol)
	}
	return m.cumFreqs[i], probability, nil
}

func (m *LeakyQuantizedGaussian[W]) QuantileFunction(quantile W) (symbol int32, cumulative, probability W) {
	n := len(m.cumFreqs) - 1
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		if m.cumFreqs[mid+1] <= quantile {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return int32(lo) + m.supportMin, m.cumFreqs[lo], m.cumFreqs[lo+1] - m.cumFreqs[lo]
}
