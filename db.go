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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/structdb/structdb/store"
)

const fileLockName = "fLock"

// Database is a typed collection layer over a single ordered key-value
// store. It exposes maps, sets, lists, sorted-lists and sorted-sets, each
// stored under a per-key metadata record and a range of encoded data keys.
//
// The instance may be shared across goroutines for reads and for operations
// on disjoint logical keys; operations that mutate the same logical key are
// read-modify-write sequences and must be serialized by the caller.
type Database struct {
	// options defines the user defined configurations
	options Options

	// store is the underlying ordered key-value backend
	store store.Store

	// fileLock is a file lock that ensures mutual exclusion between multiple processes
	// refer to [https://github.com/gofrs/flock]
	fileLock *flock.Flock

	// nextKeyID is the next metadata id to assign, reseeded from the stored
	// metas at open
	nextKeyID atomic.Uint64
}

// KeyEntry pairs a live logical key with its metadata record
type KeyEntry struct {
	Key  string
	Meta *KeyMeta
}

// Open opens a StructDB instance
func Open(options Options) (*Database, error) {
	// check the user options first
	if err := checkOptions(options); err != nil {
		return nil, err
	}

	var fileLock *flock.Flock
	if !store.IsVolatile(options.StoreType) {
		// determine whether the data directory exists
		// if not, create the directory
		if _, err := os.Stat(options.DirectoryPath); os.IsNotExist(err) {
			if err := os.MkdirAll(options.DirectoryPath, os.ModePerm); err != nil {
				return nil, err
			}
		}

		// determine whether the current data directory is in use
		fileLock = flock.New(filepath.Join(options.DirectoryPath, fileLockName))
		hold, err := fileLock.TryLock()
		if err != nil {
			return nil, err
		}
		if !hold {
			return nil, ErrDatabaseIsUsing
		}
	}

	// the backend keeps its files in a subdirectory so that the lock file
	// never sits inside the engine's own directory
	kv, err := store.NewStore(options.StoreType, filepath.Join(options.DirectoryPath, "store"), options.SyncWrites)
	if err != nil {
		if fileLock != nil {
			_ = fileLock.Unlock()
		}
		return nil, err
	}

	db := &Database{
		options:  options,
		store:    kv,
		fileLock: fileLock,
	}

	if err := db.afterOpen(); err != nil {
		_ = kv.Close()
		if fileLock != nil {
			_ = fileLock.Unlock()
		}
		return nil, err
	}

	return db, nil
}

// Close closes the database instance
func (db *Database) Close() error {
	err := db.store.Close()

	if db.fileLock != nil {
		if unlockErr := db.fileLock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("failed to unlock the directory: %w", unlockErr)
		}
	}

	return err
}

// Destroy removes the database files at the path
// the database must be closed first
func Destroy(path string) error {
	return os.RemoveAll(path)
}

func checkOptions(options Options) error {
	if !store.IsVolatile(options.StoreType) && options.DirectoryPath == "" {
		return ErrDirectoryPathIsEmpty
	}
	return nil
}

// afterOpen scans all metadata records and reseeds the id counter above the
// largest surviving id, so that ids stay unique across restarts without a
// persisted counter
func (db *Database) afterOpen() error {
	var maxID uint64

	it, err := db.store.Iterator(false)
	if err != nil {
		return err
	}
	defer func() { _ = it.Close() }()

	for it.Seek(metaPrefix); it.Valid(); it.Next() {
		if !bytes.HasPrefix(it.Key(), metaPrefix) {
			break
		}
		meta, err := decodeKeyMeta(it.Value())
		if err != nil {
			return err
		}
		if meta.ID > maxID {
			maxID = meta.ID
		}
	}
	if err := it.Err(); err != nil {
		return err
	}

	db.nextKeyID.Store(maxID + 1)
	return nil
}

// getMeta fetches the metadata record for a logical key, nil when absent
func (db *Database) getMeta(key []byte) (*KeyMeta, error) {
	if len(key) == 0 {
		return nil, ErrKeyIsEmpty
	}

	value, err := db.store.Get(encodeMetaKey(key))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return decodeKeyMeta(value)
}

// findMeta fetches the metadata record and checks that the stored type
// matches the operation
func (db *Database) findMeta(key []byte, keyType KeyType) (*KeyMeta, error) {
	meta, err := db.getMeta(key)
	if err != nil {
		return nil, err
	}
	if meta != nil && meta.Type != keyType {
		return nil, ErrWrongTypeOperation
	}
	return meta, nil
}

// getOrCreateMeta returns the existing metadata record or persists a fresh
// one with a newly assigned id
func (db *Database) getOrCreateMeta(key []byte, keyType KeyType) (*KeyMeta, error) {
	meta, err := db.findMeta(key, keyType)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		return meta, nil
	}

	meta = newKeyMeta(db.nextKeyID.Add(1)-1, keyType)
	if err := db.saveMeta(key, meta, false); err != nil {
		return nil, err
	}

	return meta, nil
}

// saveMeta persists the metadata record; on a delete-style operation that
// emptied the collection the record is removed instead, when configured
func (db *Database) saveMeta(key []byte, meta *KeyMeta, deleteIfEmpty bool) error {
	if db.options.DeleteMetaWhenEmpty && deleteIfEmpty && meta.Count < 1 {
		return db.store.Delete(encodeMetaKey(key))
	}
	return db.store.Put(encodeMetaKey(key), meta.encode())
}

// forEachKey is the shared meta scan, limit 0 means unlimited
func (db *Database) forEachKey(limit uint64, prefix []byte, f func(key string, meta *KeyMeta) bool) (uint64, error) {
	seek := metaPrefix
	if len(prefix) > 0 {
		seek = encodeMetaKey(prefix)
	}

	it, err := db.store.Iterator(false)
	if err != nil {
		return 0, err
	}
	defer func() { _ = it.Close() }()

	var counter uint64
	for it.Seek(seek); it.Valid(); it.Next() {
		if !bytes.HasPrefix(it.Key(), seek) {
			break
		}
		if limit > 0 && counter >= limit {
			break
		}
		counter++

		key, err := decodeMetaKey(it.Key())
		if err != nil {
			return counter, err
		}
		meta, err := decodeKeyMeta(it.Value())
		if err != nil {
			return counter, err
		}
		if !f(key, meta) {
			break
		}
	}

	return counter, it.Err()
}

// ForEachKey invokes the callback for every live logical key in
// lexicographic key order, stopping when it returns false
func (db *Database) ForEachKey(f func(key string, meta *KeyMeta) bool) (uint64, error) {
	return db.forEachKey(0, nil, f)
}

// ForEachKeyWithLimit visits at most limit logical keys
func (db *Database) ForEachKeyWithLimit(limit uint64, f func(key string, meta *KeyMeta) bool) (uint64, error) {
	return db.forEachKey(limit, nil, f)
}

// ForEachKeyWithPrefix visits the logical keys beginning with prefix
func (db *Database) ForEachKeyWithPrefix(prefix []byte, f func(key string, meta *KeyMeta) bool) (uint64, error) {
	return db.forEachKey(0, prefix, f)
}

// Keys collects all live logical keys with their metadata
func (db *Database) Keys() ([]KeyEntry, error) {
	var entries []KeyEntry
	_, err := db.ForEachKey(func(key string, meta *KeyMeta) bool {
		entries = append(entries, KeyEntry{Key: key, Meta: meta})
		return true
	})
	return entries, err
}

// KeysWithPrefix collects the logical keys beginning with prefix
func (db *Database) KeysWithPrefix(prefix []byte) ([]KeyEntry, error) {
	var entries []KeyEntry
	_, err := db.ForEachKeyWithPrefix(prefix, func(key string, meta *KeyMeta) bool {
		entries = append(entries, KeyEntry{Key: key, Meta: meta})
		return true
	})
	return entries, err
}

// forEachData scans the data records of one logical key in key order.
// For sorted-sets only the score-ordered family is visited. An optional
// item prefix narrows the scan
func (db *Database) forEachData(key, itemPrefix []byte, f func(k, v []byte) bool) (uint64, error) {
	meta, err := db.getMeta(key)
	if err != nil {
		return 0, err
	}
	if meta == nil || meta.Count == 0 {
		return 0, nil
	}

	var prefix []byte
	if meta.Type == SortedSet {
		prefix = encodeDataKeySortedSetPrefix(meta.ID)
	} else {
		prefix = encodeDataPrefix(meta.ID)
	}
	if len(itemPrefix) > 0 {
		prefix = append(prefix, itemPrefix...)
	}

	it, err := db.store.Iterator(false)
	if err != nil {
		return 0, err
	}
	defer func() { _ = it.Close() }()

	var counter uint64
	for it.Seek(prefix); it.Valid(); it.Next() {
		if !bytes.HasPrefix(it.Key(), prefix) {
			break
		}
		counter++
		if !f(it.Key(), it.Value()) {
			break
		}
	}

	return counter, it.Err()
}

// hasDataKey is a point existence probe on the underlying store
func (db *Database) hasDataKey(fullKey []byte) (bool, error) {
	if _, err := db.store.Get(fullKey); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrKeyNotFound)
}

func copyBytes(b []byte) []byte {
	result := make([]byte, len(b))
	copy(result, b)
	return result
}

// Count returns the number of items stored under the logical key,
// regardless of its type
func (db *Database) Count(key []byte) (uint64, error) {
	meta, err := db.getMeta(key)
	if err != nil {
		return 0, err
	}
	if meta == nil {
		return 0, nil
	}
	return meta.Count, nil
}

// DeleteAll removes every data record of the logical key along with its
// metadata and returns the number of data records deleted. There is no
// partial-success rollback; on error the caller may retry
func (db *Database) DeleteAll(key []byte) (uint64, error) {
	meta, err := db.getMeta(key)
	if err != nil {
		return 0, err
	}
	if meta == nil {
		return 0, nil
	}

	prefix := encodeDataPrefix(meta.ID)
	nextPrefix := encodeDataPrefix(meta.ID + 1)

	it, err := db.store.Iterator(false)
	if err != nil {
		return 0, err
	}
	defer func() { _ = it.Close() }()

	var deletesCount uint64
	for it.Seek(prefix); it.Valid(); it.Next() {
		if !bytes.HasPrefix(it.Key(), prefix) {
			break
		}
		deletesCount++
		if err := db.store.Delete(it.Key()); err != nil {
			return deletesCount, err
		}
	}
	if err := it.Err(); err != nil {
		return deletesCount, err
	}

	if err := db.store.Delete(encodeMetaKey(key)); err != nil {
		return deletesCount, err
	}
	if err := db.store.CompactRange(prefix, nextPrefix); err != nil {
		return deletesCount, err
	}

	return deletesCount, nil
}
