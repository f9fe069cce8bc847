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

// Package backend provides the rANS coder's stream buffer abstractions: a
// family of capability interfaces (read, write, lookahead, position, seek,
// reverse) and the concrete backends that implement some subset of them.
//
// Every backend supports Reader, since both decoding and the
// get_compressed/into_compressed export path need to pop words in LIFO
// order. The remaining capabilities are optional: callers (chiefly the
// rans package) type-assert for them the way the standard library's io
// package type-asserts an io.Writer for io.ReaderFrom, rather than forcing
// every backend to implement a single do-everything interface.
package backend

// Reader pops the next compressed word in LIFO order: the last word
// pushed (via Writer, during encoding) is the first word popped (during
// decoding or export). Returns ok == false once no words remain.
type Reader[W any] interface {
	Read() (W, bool)
}

// Writer appends compressed words in push order. Required for encoding
// and for the two export operations that flush buffered state.
type Writer[W any] interface {
	Write(w W)
	Extend(ws []W)
}

// Lookaheader reports how much unread data remains without consuming it.
// Required for num_words/num_bits/num_valid_bits/is_empty introspection.
type Lookaheader interface {
	AmtLeft() int
	IsEmpty() bool
}

// Clearer discards all buffered words, required by Coder.Clear.
type Clearer interface {
	Clear()
}

// Poser reports the backend's current cursor position, a backend-defined
// value meaningful only in combination with a captured rANS state.
type Poser interface {
	Pos() int
}

// Seeker repositions a backend's read cursor. mustBeEnd communicates
// whether the rANS state captured alongside pos violates INV-STATE (true)
// or satisfies it (false); a correct Seeker implementation must reject a
// (pos, mustBeEnd) pair whose end-of-stream status doesn't match.
type Seeker interface {
	Poser
	Seek(pos int, mustBeEnd bool) error
}

// Reverser produces a Reader that traverses the same underlying storage
// in the opposite direction, without allocating a second copy of the
// data. Used to switch between decoding a buffer back-to-front (as
// produced by an encoder) and front-to-back (as produced by reversing
// that buffer once, e.g. for transport).
type Reverser[W any] interface {
	IntoReversed() Reader[W]
}

// AsReadStacker borrows a backend as a read-only LIFO view without
// consuming ownership of it, used by Coder.SeekableDecoder to hand out
// independent seekable views into the same compressed data.
type AsReadStacker[W any] interface {
	AsReadStack() Reader[W]
}

// AsSlicer exposes a backend's buffered words as a slice in push order.
// Only write-target backends (Growable) implement this; it is what lets
// Coder.IntoCompressed and Coder.IntoBinary materialize their result.
type AsSlicer[W any] interface {
	AsSlice() []W
}

// ReadLookaheader is the capability bundle FromRawParts and FromCompressed
// require: popping words while also being able to check whether any
// remain.
type ReadLookaheader[W any] interface {
	Reader[W]
	Lookaheader
}
