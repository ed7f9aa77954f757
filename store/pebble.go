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

	"github.com/cockroachdb/pebble"
)

// PebbleStore defines the default LSM storage backend
//
// it mainly encapsulates the pebble library: [https://github.com/cockroachdb/pebble]
type PebbleStore struct {
	db     *pebble.DB
	writes *pebble.WriteOptions
}

// NewPebbleStore opens (creating if missing) a pebble database at the directory
func NewPebbleStore(directoryPath string, syncWrites bool) (*PebbleStore, error) {
	db, err := pebble.Open(directoryPath, &pebble.Options{})
	if err != nil {
		return nil, err
	}

	writes := pebble.NoSync
	if syncWrites {
		writes = pebble.Sync
	}

	return &PebbleStore{db: db, writes: writes}, nil
}

func (ps *PebbleStore) Get(key []byte) ([]byte, error) {
	value, closer, err := ps.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}

	// the returned slice is only valid until the closer is released
	result := make([]byte, len(value))
	copy(result, value)

	if err := closer.Close(); err != nil {
		return nil, err
	}

	return result, nil
}

func (ps *PebbleStore) Put(key, value []byte) error {
	return ps.db.Set(key, value, ps.writes)
}

func (ps *PebbleStore) Delete(key []byte) error {
	return ps.db.Delete(key, ps.writes)
}

func (ps *PebbleStore) Iterator(reverse bool) (Iterator, error) {
	iter, err := ps.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}

	it := &pebbleIterator{iter: iter, reverse: reverse}
	it.Rewind()

	return it, nil
}

func (ps *PebbleStore) CompactRange(start, end []byte) error {
	return ps.db.Compact(start, end, false)
}

func (ps *PebbleStore) Close() error {
	return ps.db.Close()
}

type pebbleIterator struct {
	iter    *pebble.Iterator
	reverse bool
}

func (pi *pebbleIterator) Rewind() {
	if pi.reverse {
		pi.iter.Last()
	} else {
		pi.iter.First()
	}
}

func (pi *pebbleIterator) Seek(key []byte) {
	if pi.reverse {
		pi.iter.SeekLT(key)
	} else {
		pi.iter.SeekGE(key)
	}
}

func (pi *pebbleIterator) Next() {
	if pi.reverse {
		pi.iter.Prev()
	} else {
		pi.iter.Next()
	}
}

func (pi *pebbleIterator) Valid() bool {
	return pi.iter.Valid()
}

func (pi *pebbleIterator) Key() []byte {
	return pi.iter.Key()
}

func (pi *pebbleIterator) Value() []byte {
	return pi.iter.Value()
}

func (pi *pebbleIterator) Err() error {
	return pi.iter.Error()
}

func (pi *pebbleIterator) Close() error {
	return pi.iter.Close()
}
