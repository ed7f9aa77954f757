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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyMeta_EncodeDecode(t *testing.T) {
	meta := newKeyMeta(12, Map)
	meta.Count = 99

	decoded, err := decodeKeyMeta(meta.encode())
	assert.Nil(t, err)
	assert.Equal(t, uint64(12), decoded.ID)
	assert.Equal(t, Map, decoded.Type)
	assert.Equal(t, uint64(99), decoded.Count)
	assert.Equal(t, 0, len(decoded.Extra))
}

func TestKeyMeta_ListExtra(t *testing.T) {
	meta := newKeyMeta(1, List)

	// the initial window is (0, 1): first left push lands at 0,
	// first right push at 1
	left, right := meta.ListExtra()
	assert.Equal(t, int64(0), left)
	assert.Equal(t, int64(1), right)

	meta.SetListExtra(-5, 3)
	decoded, err := decodeKeyMeta(meta.encode())
	assert.Nil(t, err)

	left, right = decoded.ListExtra()
	assert.Equal(t, int64(-5), left)
	assert.Equal(t, int64(3), right)
}

func TestKeyMeta_SortedListExtra(t *testing.T) {
	meta := newKeyMeta(2, SortedList)
	meta.SetSortedListExtra(1000, 3, 7)

	decoded, err := decodeKeyMeta(meta.encode())
	assert.Nil(t, err)

	sequence, leftDeleted, rightDeleted := decoded.SortedListExtra()
	assert.Equal(t, uint64(1000), sequence)
	assert.Equal(t, uint32(3), leftDeleted)
	assert.Equal(t, uint32(7), rightDeleted)
}

func TestKeyMeta_SortedSetExtra(t *testing.T) {
	meta := newKeyMeta(3, SortedSet)

	deletedCount, scoreLen := meta.SortedSetExtra()
	assert.Equal(t, uint32(0), deletedCount)
	assert.Equal(t, byte(0), scoreLen)

	meta.SetSortedSetExtra(5, 8)
	decoded, err := decodeKeyMeta(meta.encode())
	assert.Nil(t, err)

	deletedCount, scoreLen = decoded.SortedSetExtra()
	assert.Equal(t, uint32(5), deletedCount)
	assert.Equal(t, byte(8), scoreLen)
}

func TestDecodeKeyMeta_Corrupted(t *testing.T) {
	_, err := decodeKeyMeta([]byte{0x01, 0x02})
	assert.Equal(t, ErrCorruptedMeta, err)
}
