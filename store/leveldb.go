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

package store

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore defines the goleveldb storage backend
//
// it mainly encapsulates the goleveldb library: [https://github.com/syndtr/goleveldb]
type LevelDBStore struct {
	db     *leveldb.DB
	writes *opt.WriteOptions
}

// NewLevelDBStore opens (creating if missing) a leveldb database at the directory
func NewLevelDBStore(directoryPath string, syncWrites bool) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(directoryPath, nil)
	if err != nil {
		return nil, err
	}

	return &LevelDBStore{
		db:     db,
		writes: &opt.WriteOptions{Sync: syncWrites},
	}, nil
}

func (ls *LevelDBStore) Get(key []byte) ([]byte, error) {
	value, err := ls.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}

	return value, nil
}

func (ls *LevelDBStore) Put(key, value []byte) error {
	return ls.db.Put(key, value, ls.writes)
}

func (ls *LevelDBStore) Delete(key []byte) error {
	return ls.db.Delete(key, ls.writes)
}

func (ls *LevelDBStore) Iterator(reverse bool) (Iterator, error) {
	it := &levelDBIterator{iter: ls.db.NewIterator(nil, nil), reverse: reverse}
	it.Rewind()

	return it, nil
}

func (ls *LevelDBStore) CompactRange(start, end []byte) error {
	return ls.db.CompactRange(util.Range{Start: start, Limit: end})
}

func (ls *LevelDBStore) Close() error {
	return ls.db.Close()
}

type levelDBIterator struct {
	iter    iterator.Iterator
	reverse bool
	valid   bool
}

func (li *levelDBIterator) Rewind() {
	if li.reverse {
		li.valid = li.iter.Last()
	} else {
		li.valid = li.iter.First()
	}
}

func (li *levelDBIterator) Seek(key []byte) {
	if li.reverse {
		// position at the last key strictly less than the seek key
		if li.iter.Seek(key) {
			li.valid = li.iter.Prev()
		} else {
			li.valid = li.iter.Last()
		}
	} else {
		li.valid = li.iter.Seek(key)
	}
}

func (li *levelDBIterator) Next() {
	if li.reverse {
		li.valid = li.iter.Prev()
	} else {
		li.valid = li.iter.Next()
	}
}

func (li *levelDBIterator) Valid() bool {
	return li.valid
}

func (li *levelDBIterator) Key() []byte {
	return li.iter.Key()
}

func (li *levelDBIterator) Value() []byte {
	return li.iter.Value()
}

func (li *levelDBIterator) Err() error {
	return li.iter.Error()
}

func (li *levelDBIterator) Close() error {
	li.iter.Release()
	return li.iter.Error()
}
