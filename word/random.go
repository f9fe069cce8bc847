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

package word

import (
	"crypto/rand"
	"unsafe"
)

// RandomFill fills out with cryptographically random bits, used by this
// package's property-style tests to exercise ToChunksTruncated/FromChunks
// over inputs not hand-picked to land on a convenient bit pattern.
func RandomFill[T Unsigned](out []T) error {
	if len(out) == 0 {
		return nil
	}
	_, err := rand.Read(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(out)*int(unsafe.Sizeof(out[0]))))
	return err
}
