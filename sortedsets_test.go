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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/structdb/structdb/utils"
)

func TestDatabase_SortedSetAdd(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	count, err := db.SortedSetAdd(utils.GetTestKey(1), []byte{0x00, 0x01}, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)

	count, err = db.SortedSetAdd(utils.GetTestKey(1), []byte{0x00, 0x02}, []byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), count)

	ok, err := db.SortedSetIsMember(utils.GetTestKey(1), []byte("a"))
	assert.Nil(t, err)
	assert.True(t, ok)

	ok, err = db.SortedSetDelete(utils.GetTestKey(1), []byte("a"))
	assert.Nil(t, err)
	assert.True(t, ok)

	ok, err = db.SortedSetIsMember(utils.GetTestKey(1), []byte("a"))
	assert.Nil(t, err)
	assert.False(t, ok)

	count, err = db.SortedSetCount(utils.GetTestKey(1))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)
}

// re-adding a member with a new score moves it instead of leaving a stale
// record under the old score
func TestDatabase_SortedSetAdd_MoveScore(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	count, err := db.SortedSetAdd(utils.GetTestKey(1), []byte{0x00, 0x07}, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)

	count, err = db.SortedSetAdd(utils.GetTestKey(1), []byte{0x00, 0x02}, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)

	items, err := db.SortedSetItems(utils.GetTestKey(1))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, []byte{0x00, 0x02}, items[0].Score)
	assert.Equal(t, []byte("a"), items[0].Value)

	score, err := db.SortedSetScore(utils.GetTestKey(1), []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{0x00, 0x02}, score)
}

func TestDatabase_SortedSetAdd_SameScore(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	_, err := db.SortedSetAdd(utils.GetTestKey(1), []byte{0x00, 0x07}, []byte("a"))
	assert.Nil(t, err)

	count, err := db.SortedSetAdd(utils.GetTestKey(1), []byte{0x00, 0x07}, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestDatabase_SortedSetAdd_ScoreLengthMismatch(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	_, err := db.SortedSetAdd(utils.GetTestKey(1), []byte{0x00, 0x01}, []byte("a"))
	assert.Nil(t, err)

	_, err = db.SortedSetAdd(utils.GetTestKey(1), []byte{0x00, 0x01, 0x02}, []byte("b"))
	assert.True(t, errors.Is(err, ErrInvalidScoreLength))

	count, err := db.SortedSetCount(utils.GetTestKey(1))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestDatabase_SortedSetDelete_Missing(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	ok, err := db.SortedSetDelete(utils.GetTestKey(1), []byte("a"))
	assert.Nil(t, err)
	assert.False(t, ok)

	_, err = db.SortedSetAdd(utils.GetTestKey(1), []byte{0x01}, []byte("a"))
	assert.Nil(t, err)

	ok, err = db.SortedSetDelete(utils.GetTestKey(1), []byte("other"))
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestDatabase_SortedSetLeft(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	_, err := db.SortedSetAdd(utils.GetTestKey(1), []byte{0x03}, []byte("c"))
	assert.Nil(t, err)
	_, err = db.SortedSetAdd(utils.GetTestKey(1), []byte{0x01}, []byte("a"))
	assert.Nil(t, err)
	_, err = db.SortedSetAdd(utils.GetTestKey(1), []byte{0x02}, []byte("b"))
	assert.Nil(t, err)

	items, err := db.SortedSetLeft(utils.GetTestKey(1), nil, 0)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(items))
	assert.Equal(t, []byte("a"), items[0].Value)
	assert.Equal(t, []byte("b"), items[1].Value)
	assert.Equal(t, []byte("c"), items[2].Value)

	items, err = db.SortedSetLeft(utils.GetTestKey(1), []byte{0x02}, 0)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(items))

	items, err = db.SortedSetLeft(utils.GetTestKey(1), nil, 1)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, []byte("a"), items[0].Value)
}

func TestDatabase_SortedSetRight(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	_, err := db.SortedSetAdd(utils.GetTestKey(1), []byte{0x03}, []byte("c"))
	assert.Nil(t, err)
	_, err = db.SortedSetAdd(utils.GetTestKey(1), []byte{0x01}, []byte("a"))
	assert.Nil(t, err)
	_, err = db.SortedSetAdd(utils.GetTestKey(1), []byte{0x02}, []byte("b"))
	assert.Nil(t, err)

	items, err := db.SortedSetRight(utils.GetTestKey(1), nil, 0)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(items))
	assert.Equal(t, []byte("c"), items[0].Value)
	assert.Equal(t, []byte("b"), items[1].Value)
	assert.Equal(t, []byte("a"), items[2].Value)

	items, err = db.SortedSetRight(utils.GetTestKey(1), []byte{0x02}, 0)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(items))

	items, err = db.SortedSetRight(utils.GetTestKey(1), nil, 1)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, []byte("c"), items[0].Value)
}

func TestDatabase_SortedSetRight_MissingKey(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	items, err := db.SortedSetRight(utils.GetTestKey(404), nil, 10)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(items))
}

func TestDatabase_SortedSetDelete_EmptiesKey(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	_, err := db.SortedSetAdd(utils.GetTestKey(1), []byte{0x01}, []byte("a"))
	assert.Nil(t, err)

	ok, err := db.SortedSetDelete(utils.GetTestKey(1), []byte("a"))
	assert.Nil(t, err)
	assert.True(t, ok)

	entries, err := db.Keys()
	assert.Nil(t, err)
	assert.Equal(t, 0, len(entries))
}
