/*
 * Copyright (c) 2024. Shuojiang Liu.
 * Licensed under the MIT License (the "License");
 * you may not use this file except in compliance with the License.
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package score provides order-preserving byte encodings for numeric
// scores: comparing the encoded bytes lexicographically gives the same
// result as comparing the numbers. Sorted-lists and sorted-sets order
// their items by raw bytewise score comparison, so numeric callers should
// encode their scores with one of these helpers
package score

import (
	"encoding/binary"
	"math"
)

const signBias = uint64(1) << 63

// Uint64 encodes an unsigned integer score
func Uint64(v uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, v)
	return buffer
}

// Uint64FromBytes decodes a score encoded by Uint64
func Uint64FromBytes(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

// Int64 encodes a signed integer score by biasing it into the unsigned
// range, so negative scores sort before positive ones
func Int64(v int64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, uint64(v)+signBias)
	return buffer
}

// Int64FromBytes decodes a score encoded by Int64
func Int64FromBytes(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b) - signBias)
}

// Float64 encodes a float score: positive values get their sign bit
// flipped, negative values get all bits flipped, which makes the IEEE 754
// representation order bytewise
func Float64(v float64) []byte {
	bits := math.Float64bits(v)
	if bits&signBias != 0 {
		bits = ^bits
	} else {
		bits |= signBias
	}

	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, bits)
	return buffer
}

// Float64FromBytes decodes a score encoded by Float64
func Float64FromBytes(b []byte) float64 {
	bits := binary.BigEndian.Uint64(b)
	if bits&signBias != 0 {
		bits &^= signBias
	} else {
		bits = ^bits
	}
	return math.Float64frombits(bits)
}
