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

package structdb

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"
)

// key families:
//
// meta key:
//         +--------+------------+
//         |  "m:"  |  user key  |
//         +--------+------------+
//
// data key:
//         +--------+-----------+------------------+
//         |  "d:"  |  meta id  |  type tail       |
//         |        | (8 bytes) |  (per type)      |
//         +--------+-----------+------------------+
//
// the id is big-endian so that one meta's items form a contiguous key range,
// bounded by the data prefix of id+1

var (
	metaPrefix = []byte("m:")
	dataPrefix = []byte("d:")

	// fillEmptyData is stored where the key itself carries all information
	fillEmptyData = []byte{0}
)

const (
	dataPrefixSize = 2 + 8

	sortedSetForwardTag = 0x00
	sortedSetReverseTag = 0x01

	// positionBias maps a signed list position onto the unsigned range so
	// that bytewise key order equals signed position order; plain
	// two's-complement would sort negative positions after positive ones
	positionBias = uint64(1) << 63
)

func encodeMetaKey(key []byte) []byte {
	buffer := make([]byte, len(metaPrefix)+len(key))
	copy(buffer, metaPrefix)
	copy(buffer[len(metaPrefix):], key)
	return buffer
}

func decodeMetaKey(encoded []byte) (string, error) {
	key := encoded[len(metaPrefix):]
	if !utf8.Valid(key) {
		return "", ErrInvalidUTF8Key
	}
	return string(key), nil
}

func encodeDataPrefix(id uint64) []byte {
	buffer := make([]byte, dataPrefixSize)
	copy(buffer, dataPrefix)
	binary.BigEndian.PutUint64(buffer[2:], id)
	return buffer
}

func encodeDataKeyMapItem(id uint64, field []byte) []byte {
	buffer := make([]byte, dataPrefixSize+len(field))
	copy(buffer, dataPrefix)
	binary.BigEndian.PutUint64(buffer[2:], id)
	copy(buffer[dataPrefixSize:], field)
	return buffer
}

func decodeDataKeyMapItem(encoded []byte) []byte {
	return encoded[dataPrefixSize:]
}

func encodeDataKeySetItem(id uint64, value []byte) []byte {
	return encodeDataKeyMapItem(id, value)
}

func decodeDataKeySetItem(encoded []byte) []byte {
	return encoded[dataPrefixSize:]
}

func encodeDataKeyListItem(id uint64, position int64) []byte {
	buffer := make([]byte, dataPrefixSize+8)
	copy(buffer, dataPrefix)
	binary.BigEndian.PutUint64(buffer[2:], id)
	binary.BigEndian.PutUint64(buffer[dataPrefixSize:], uint64(position)+positionBias)
	return buffer
}

func encodeDataKeySortedListItem(id uint64, score []byte, sequence uint64) []byte {
	buffer := make([]byte, dataPrefixSize+len(score)+8)
	copy(buffer, dataPrefix)
	binary.BigEndian.PutUint64(buffer[2:], id)
	copy(buffer[dataPrefixSize:], score)
	binary.BigEndian.PutUint64(buffer[dataPrefixSize+len(score):], sequence)
	return buffer
}

// decodeDataKeySortedListItem extracts the score, the trailing 8 bytes are
// the insertion sequence tie-break
func decodeDataKeySortedListItem(encoded []byte) []byte {
	return encoded[dataPrefixSize : len(encoded)-8]
}

// encodeDataKeySortedSetPrefix bounds the score-ordered (forward) subrange
// of a sorted-set
func encodeDataKeySortedSetPrefix(id uint64) []byte {
	buffer := make([]byte, dataPrefixSize+1)
	copy(buffer, dataPrefix)
	binary.BigEndian.PutUint64(buffer[2:], id)
	buffer[dataPrefixSize] = sortedSetForwardTag
	return buffer
}

// encodeDataKeySortedSetReversePrefix bounds the member-keyed (reverse)
// subrange; it also marks the end of the forward subrange
func encodeDataKeySortedSetReversePrefix(id uint64) []byte {
	buffer := make([]byte, dataPrefixSize+1)
	copy(buffer, dataPrefix)
	binary.BigEndian.PutUint64(buffer[2:], id)
	buffer[dataPrefixSize] = sortedSetReverseTag
	return buffer
}

func encodeDataKeySortedSetItemWithScore(id uint64, score, value []byte) []byte {
	buffer := make([]byte, dataPrefixSize+1+len(score)+len(value))
	copy(buffer, dataPrefix)
	binary.BigEndian.PutUint64(buffer[2:], id)
	buffer[dataPrefixSize] = sortedSetForwardTag
	copy(buffer[dataPrefixSize+1:], score)
	copy(buffer[dataPrefixSize+1+len(score):], value)
	return buffer
}

func encodeDataKeySortedSetItemWithoutScore(id uint64, value []byte) []byte {
	buffer := make([]byte, dataPrefixSize+1+len(value))
	copy(buffer, dataPrefix)
	binary.BigEndian.PutUint64(buffer[2:], id)
	buffer[dataPrefixSize] = sortedSetReverseTag
	copy(buffer[dataPrefixSize+1:], value)
	return buffer
}

func decodeDataKeySortedSetItemWithScore(encoded []byte, scoreLen byte) (score, value []byte) {
	rest := encoded[dataPrefixSize+1:]
	return rest[:scoreLen], rest[scoreLen:]
}

// CompareScoreBytes is the ordering relation for scores: raw bytewise
// comparison. Callers that want numeric ordering must supply
// order-preserving encodings, see the score package
func CompareScoreBytes(a, b []byte) int {
	return bytes.Compare(a, b)
}
