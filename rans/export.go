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

// reverseInPlace swaps s's elements end for end. Used by the export
// operations below to turn state's chunks, assembled least-significant
// first, into the most-significant-first order bulk is appended in.
func reverseInPlace[W any](s []W) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func exportBackend[W word.Unsigned](bulk backend.Reader[W]) (backend.Writer[W], backend.AsSlicer[W], bool) {
	writer, ok1 := bulk.(backend.Writer[W])
	slicer, ok2 := bulk.(backend.AsSlicer[W])
	return writer, slicer, ok1 && ok2
}

// IntoCompressed consumes the coder and returns its full compressed
// representation as a single slice: bulk's buffered words, followed by
// state's nonzero chunks, most significant first. The coder must not be
// used after this call. Returns an error if the backend cannot support
// export (it must implement both Writer and AsSlicer).
func (c *Coder[W, S]) IntoCompressed() ([]W, error) {
	writer, slicer, ok := exportBackend[W](c.bulk)
	if !ok {
		return nil, fmt.Errorf("rans: coder's backend does not support export (need Write and AsSlice)")
	}
	chunks := word.ToChunksTruncated[S, W](c.state)
	reverseInPlace(chunks)
	writer.Extend(chunks)
	return slicer.AsSlice(), nil
}

// IntoBinary consumes the coder and returns a plain bitstring with no
// guarantee its last word is nonzero: the inverse of FromBinary. It
// requires the coder to be "sealed" — state nonzero and its valid bit
// count (NumValidBits) a whole multiple of bits(W) — returning
// ErrNotSealed otherwise. This is the export format to use when the
// consumer does not need to tell padding apart from data any other way
// (e.g. a fixed-size container that already records the uncompressed
// length).
func (c *Coder[W, S]) IntoBinary() ([]W, error) {
	sBits := uint(word.BitsOf[S]())
	wBits := uint(word.BitsOf[W]())
	if c.state == 0 {
		return nil, ErrNotSealed
	}
	clz := uint(word.LeadingZeros(c.state))
	validBits := sBits - 1 - clz
	if validBits%wBits != 0 {
		return nil, ErrNotSealed
	}

	writer, slicer, ok := exportBackend[W](c.bulk)
	if !ok {
		return nil, fmt.Errorf("rans: coder's backend does not support export (need Write and AsSlice)")
	}
	truncatedState := c.state ^ (S(1) << validBits)
	// Exactly validBits/wBits words, least significant first, zero words
	// included: FromBinary's first pop (the last word appended here) must
	// be the chunk directly below the sentinel.
	chunks := make([]W, validBits/wBits)
	for i := range chunks {
		chunks[i] = word.Narrow[W](truncatedState >> (uint(i) * wBits))
	}
	writer.Extend(chunks)
	return slicer.AsSlice(), nil
}

// GetCompressed gives fn a temporary read-only view of the coder's full
// compressed representation (the same contents IntoCompressed would
// return) without consuming the coder: it flushes state's chunks into
// bulk, calls fn, and then pops exactly those chunks back off, restoring
// bulk to its prior contents before returning — even if fn panics, since
// the restore runs via defer. Panics if the backend does not support
// Writer, Reader, and AsSlicer together.
func (c *Coder[W, S]) GetCompressed(fn func(compressed []W)) {
	writer, slicer, ok := exportBackend[W](c.bulk)
	reader, okReader := c.bulk.(backend.Reader[W])
	if !ok || !okReader {
		panic("rans: coder's backend does not support a scoped compressed view (need Write, Read, and AsSlice)")
	}

	chunks := word.ToChunksTruncated[S, W](c.state)
	reverseInPlace(chunks)
	writer.Extend(chunks)
	defer func() {
		for range chunks {
			reader.Read()
		}
	}()

	fn(slicer.AsSlice())
}

// IterCompressed returns a pull function that yields the coder's
// compressed words in the same order GetCompressed presents them (bulk's
// remaining contents in push order, followed by state's nonzero chunks,
// most significant first) without mutating the coder at all: it borrows
// bulk as a read-only stack via AsReadStacker and copies the remaining
// bulk words out of that view when called, so it is not lazy over bulk.
// Panics if the backend does not support AsReadStacker.
func (c *Coder[W, S]) IterCompressed() func() (W, bool) {
	asReadStack, ok := c.bulk.(backend.AsReadStacker[W])
	if !ok {
		panic("rans: coder's backend does not support a non-mutating compressed view (need AsReadStack)")
	}
	bulkView := asReadStack.AsReadStack()
	var words []W
	for v, ok := bulkView.Read(); ok; v, ok = bulkView.Read() {
		words = append(words, v)
	}
	reverseInPlace(words)
	chunks := word.ToChunksTruncated[S, W](c.state)
	reverseInPlace(chunks)
	words = append(words, chunks...)

	i := 0
	return func() (W, bool) {
		if i < len(words) {
			v := words[i]
			i++
			return v, true
		}
		var zero W
		return zero, false
	}
}
