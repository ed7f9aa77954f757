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

import "errors"

var ErrKeyNotFound = errors.New("key is not found in the store")

// Store is the abstract ordered key-value store interface
// If there are other storage engines that require integration, implement this interface directly
type Store interface {
	// Get fetches the value stored under key, ErrKeyNotFound if absent
	Get(key []byte) ([]byte, error)

	// Put stores value under key, replacing any previous value
	Put(key, value []byte) error

	// Delete removes the key, no error if absent
	Delete(key []byte) error

	// Iterator returns an iterator over the whole keyspace in bytewise key order
	Iterator(reverse bool) (Iterator, error)

	// CompactRange asks the engine to reclaim space over [start, end)
	// best effort, backends without range compaction treat it as a no-op
	CompactRange(start, end []byte) error

	// Close closes the store
	Close() error
}

// Iterator defines a generic store iterator
type Iterator interface {
	// Rewind returns to the start (first item) of the iterator
	Rewind()

	// Seek positions the iterator at the first key greater than or equal to
	// the key passed in, or for a reverse iterator at the last key strictly
	// less than it
	Seek(key []byte)

	// Next jumps to the next key
	Next()

	// Valid checks the validity
	// by checking whether all keys have been traversed, which can be used to exit traversal
	Valid() bool

	// Key returns the current iterating Key data
	// the slice is only valid until the next call on the iterator
	Key() []byte

	// Value returns the current iterating Value data
	// the slice is only valid until the next call on the iterator
	Value() []byte

	// Err reports a backend error encountered during iteration
	Err() error

	// Close closes the iterator, freeing the resources
	Close() error
}

type StoreType = int8

const (
	// Pebble indicates the cockroachdb/pebble LSM backend
	Pebble StoreType = iota + 1

	// LevelDB indicates the goleveldb LSM backend
	LevelDB

	// Bolt indicates the bbolt B+ tree backend
	Bolt

	// Memory indicates the volatile btree-backed in-memory backend
	Memory

	// ART indicates the volatile adaptive-radix-tree in-memory backend
	ART
)

// IsVolatile reports whether the backend type keeps its data in memory
// only, with no files on disk
func IsVolatile(tp StoreType) bool {
	return tp == Memory || tp == ART
}

// NewStore initializes the store according to the backend type
func NewStore(tp StoreType, directoryPath string, syncWrites bool) (Store, error) {
	switch tp {
	case Pebble:
		return NewPebbleStore(directoryPath, syncWrites)
	case LevelDB:
		return NewLevelDBStore(directoryPath, syncWrites)
	case Bolt:
		return NewBoltStore(directoryPath, syncWrites)
	case Memory:
		return NewMemoryStore(), nil
	case ART:
		return NewARTStore(), nil
	default:
		panic("unsupported store type!")
	}
}
