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

import "encoding/binary"

type KeyType = byte

const (
	Map KeyType = iota
	Set
	List
	SortedList
	SortedSet
)

const (
	metaValueFixedSize = 8 + 1 + 8

	listExtraSize       = 8 + 8
	sortedListExtraSize = 8 + 4 + 4
	sortedSetExtraSize  = 4 + 1
)

// layout of the stored meta value, all fields big-endian:
//
//         +-----------+-----------+-----------+------------+
// key =>  |    id     |   type    |   count   |   extra    |
//         | (8 bytes) | (1 byte)  | (8 bytes) | (variable) |
//         +-----------+-----------+-----------+------------+
//
// extra is interpreted per type:
//   Map, Set:   empty
//   List:       left (8 bytes signed) | right (8 bytes signed)
//   SortedList: sequence (8 bytes) | left deleted (4 bytes) | right deleted (4 bytes)
//   SortedSet:  deleted count (4 bytes) | score length (1 byte)

// KeyMeta is the per-logical-key metadata record
type KeyMeta struct {
	ID    uint64
	Type  KeyType
	Count uint64
	Extra []byte
}

// newKeyMeta constructs a fresh meta with the default extra for the type
func newKeyMeta(id uint64, keyType KeyType) *KeyMeta {
	meta := &KeyMeta{ID: id, Type: keyType}

	switch keyType {
	case List:
		// items occupy (left, right) exclusive, so the first left push lands
		// at position 0 and the first right push at position 1
		meta.Extra = make([]byte, listExtraSize)
		meta.SetListExtra(0, 1)
	case SortedList:
		meta.Extra = make([]byte, sortedListExtraSize)
	case SortedSet:
		meta.Extra = make([]byte, sortedSetExtraSize)
	}

	return meta
}

func (m *KeyMeta) encode() []byte {
	buffer := make([]byte, metaValueFixedSize+len(m.Extra))

	binary.BigEndian.PutUint64(buffer[0:8], m.ID)
	buffer[8] = m.Type
	binary.BigEndian.PutUint64(buffer[9:17], m.Count)
	copy(buffer[metaValueFixedSize:], m.Extra)

	return buffer
}

func decodeKeyMeta(buffer []byte) (*KeyMeta, error) {
	if len(buffer) < metaValueFixedSize {
		return nil, ErrCorruptedMeta
	}

	extra := make([]byte, len(buffer)-metaValueFixedSize)
	copy(extra, buffer[metaValueFixedSize:])

	return &KeyMeta{
		ID:    binary.BigEndian.Uint64(buffer[0:8]),
		Type:  buffer[8],
		Count: binary.BigEndian.Uint64(buffer[9:17]),
		Extra: extra,
	}, nil
}

// ListExtra unpacks the occupied-range endpoints of a list meta
func (m *KeyMeta) ListExtra() (left int64, right int64) {
	left = int64(binary.BigEndian.Uint64(m.Extra[0:8]))
	right = int64(binary.BigEndian.Uint64(m.Extra[8:16]))
	return left, right
}

func (m *KeyMeta) SetListExtra(left, right int64) {
	binary.BigEndian.PutUint64(m.Extra[0:8], uint64(left))
	binary.BigEndian.PutUint64(m.Extra[8:16], uint64(right))
}

// SortedListExtra unpacks the insertion sequence number and the two
// endpoint deletion counters of a sorted-list meta
func (m *KeyMeta) SortedListExtra() (sequence uint64, leftDeleted, rightDeleted uint32) {
	sequence = binary.BigEndian.Uint64(m.Extra[0:8])
	leftDeleted = binary.BigEndian.Uint32(m.Extra[8:12])
	rightDeleted = binary.BigEndian.Uint32(m.Extra[12:16])
	return sequence, leftDeleted, rightDeleted
}

func (m *KeyMeta) SetSortedListExtra(sequence uint64, leftDeleted, rightDeleted uint32) {
	binary.BigEndian.PutUint64(m.Extra[0:8], sequence)
	binary.BigEndian.PutUint32(m.Extra[8:12], leftDeleted)
	binary.BigEndian.PutUint32(m.Extra[12:16], rightDeleted)
}

// SortedSetExtra unpacks the deletion counter and the fixed score length of
// a sorted-set meta; a zero score length means no member has been added yet
func (m *KeyMeta) SortedSetExtra() (deletedCount uint32, scoreLen byte) {
	deletedCount = binary.BigEndian.Uint32(m.Extra[0:4])
	scoreLen = m.Extra[4]
	return deletedCount, scoreLen
}

func (m *KeyMeta) SetSortedSetExtra(deletedCount uint32, scoreLen byte) {
	binary.BigEndian.PutUint32(m.Extra[0:4], deletedCount)
	m.Extra[4] = scoreLen
}
