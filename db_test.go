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
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/structdb/structdb/store"
	"github.com/structdb/structdb/utils"
)

// openMemoryDB opens a database on the volatile backend, used by most of
// the collection tests
func openMemoryDB(t *testing.T) *Database {
	options := DefaultOptions
	options.StoreType = Memory

	db, err := Open(options)
	assert.Nil(t, err)
	assert.NotNil(t, db)

	return db
}

func destroyDB(db *Database) {
	if db != nil {
		_ = db.Close()
		if !store.IsVolatile(db.options.StoreType) {
			_ = Destroy(db.options.DirectoryPath)
		}
	}
}

func TestOpen(t *testing.T) {
	options := DefaultOptions
	directory, _ := os.MkdirTemp("", "structdb")
	options.DirectoryPath = directory

	db, err := Open(options)
	defer destroyDB(db)

	assert.Nil(t, err)
	assert.NotNil(t, db)
}

func TestOpen_EmptyDirectory(t *testing.T) {
	options := DefaultOptions
	options.DirectoryPath = ""

	_, err := Open(options)
	assert.Equal(t, ErrDirectoryPathIsEmpty, err)
}

func TestOpen_Reopen(t *testing.T) {
	options := DefaultOptions
	directory, _ := os.MkdirTemp("", "structdb")
	options.DirectoryPath = directory

	db, err := Open(options)
	assert.Nil(t, err)

	// create a few keys and remember the largest id
	var maxID uint64
	for i := 0; i < 5; i++ {
		ok, err := db.SetAdd(utils.GetTestKey(i), []byte("member"))
		assert.Nil(t, err)
		assert.True(t, ok)
	}
	entries, err := db.Keys()
	assert.Nil(t, err)
	assert.Equal(t, 5, len(entries))
	for _, entry := range entries {
		if entry.Meta.ID > maxID {
			maxID = entry.Meta.ID
		}
	}

	assert.Nil(t, db.Close())

	// ids assigned after a reopen must exceed every surviving id
	db, err = Open(options)
	defer destroyDB(db)
	assert.Nil(t, err)

	ok, err := db.SetAdd([]byte("fresh-key"), []byte("member"))
	assert.Nil(t, err)
	assert.True(t, ok)

	fresh, err := db.KeysWithPrefix([]byte("fresh-key"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(fresh))
	assert.Equal(t, maxID+1, fresh[0].Meta.ID)
}

func TestDatabase_WrongTypeOperation(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	err := db.MapPut(utils.GetTestKey(1), []byte("field"), []byte("value"))
	assert.Nil(t, err)

	_, err = db.SetAdd(utils.GetTestKey(1), []byte("member"))
	assert.Equal(t, ErrWrongTypeOperation, err)

	_, err = db.ListLeftPop(utils.GetTestKey(1))
	assert.Equal(t, ErrWrongTypeOperation, err)
}

func TestDatabase_EmptyKey(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	err := db.MapPut(nil, []byte("field"), []byte("value"))
	assert.Equal(t, ErrKeyIsEmpty, err)
}

func TestDatabase_ForEachKey(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	for i := 0; i < 10; i++ {
		err := db.MapPut(utils.GetTestKey(i), []byte("field"), []byte("value"))
		assert.Nil(t, err)
	}

	var visited []string
	counter, err := db.ForEachKey(func(key string, meta *KeyMeta) bool {
		visited = append(visited, key)
		assert.Equal(t, Map, meta.Type)
		assert.Equal(t, uint64(1), meta.Count)
		return true
	})
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), counter)
	assert.Equal(t, 10, len(visited))

	// keys come back in lexicographic order
	assert.Equal(t, string(utils.GetTestKey(0)), visited[0])
	assert.Equal(t, string(utils.GetTestKey(9)), visited[9])
}

func TestDatabase_ForEachKeyWithLimit(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	for i := 0; i < 10; i++ {
		_, err := db.SetAdd(utils.GetTestKey(i), []byte("member"))
		assert.Nil(t, err)
	}

	counter, err := db.ForEachKeyWithLimit(3, func(key string, meta *KeyMeta) bool {
		return true
	})
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), counter)
}

func TestDatabase_ForEachKeyWithPrefix(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	for i := 0; i < 3; i++ {
		_, err := db.SetAdd([]byte(fmt.Sprintf("job:%d", i)), []byte("member"))
		assert.Nil(t, err)
		_, err = db.SetAdd([]byte(fmt.Sprintf("user:%d", i)), []byte("member"))
		assert.Nil(t, err)
	}

	counter, err := db.ForEachKeyWithPrefix([]byte("job:"), func(key string, meta *KeyMeta) bool {
		return true
	})
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), counter)
}

func TestDatabase_Count(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	count, err := db.Count(utils.GetTestKey(1))
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)

	_, err = db.ListRightPush(utils.GetTestKey(1), []byte("a"))
	assert.Nil(t, err)
	_, err = db.ListRightPush(utils.GetTestKey(1), []byte("b"))
	assert.Nil(t, err)

	count, err = db.Count(utils.GetTestKey(1))
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestDatabase_DeleteAll(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	for i := 0; i < 5; i++ {
		err := db.MapPut(utils.GetTestKey(1), []byte(fmt.Sprintf("field-%d", i)), utils.RandomValue(10))
		assert.Nil(t, err)
	}

	deleted, err := db.DeleteAll(utils.GetTestKey(1))
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), deleted)

	count, err := db.Count(utils.GetTestKey(1))
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), count)

	entries, err := db.Keys()
	assert.Nil(t, err)
	assert.Equal(t, 0, len(entries))
}

func TestDatabase_DeleteAll_SortedSet(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	for i := 0; i < 3; i++ {
		_, err := db.SortedSetAdd(utils.GetTestKey(1), []byte{0x00, byte(i)}, []byte(fmt.Sprintf("member-%d", i)))
		assert.Nil(t, err)
	}

	// every member stores a forward and a reverse record
	deleted, err := db.DeleteAll(utils.GetTestKey(1))
	assert.Nil(t, err)
	assert.Equal(t, uint64(6), deleted)

	ok, err := db.SortedSetIsMember(utils.GetTestKey(1), []byte("member-0"))
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestDatabase_DeleteAll_MissingKey(t *testing.T) {
	db := openMemoryDB(t)
	defer destroyDB(db)

	deleted, err := db.DeleteAll(utils.GetTestKey(404))
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), deleted)
}
