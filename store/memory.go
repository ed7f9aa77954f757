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
	"bytes"
	"sort"
	"sync"

	"github.com/google/btree"
)

// MemoryStore defines a volatile in-memory backend, mainly for tests and
// ephemeral data
//
// it mainly encapsulates Google's btree library: [https://github.com/google/btree]
type MemoryStore struct {
	tree *btree.BTree
	lock *sync.RWMutex
}

// Item defines each item to be inserted into the BTree structure
type Item struct {
	key   []byte
	value []byte
}

// Less compares the current item with the right-hand side item
// it can be used to determine the order of the item in the BTree
func (i *Item) Less(rhs btree.Item) bool {
	return bytes.Compare(i.key, rhs.(*Item).key) == -1
}

// NewMemoryStore creates a new empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tree: btree.New(32),
		lock: new(sync.RWMutex),
	}
}

func (ms *MemoryStore) Get(key []byte) ([]byte, error) {
	ms.lock.RLock()
	item := ms.tree.Get(&Item{key: key})
	ms.lock.RUnlock()

	if item == nil {
		return nil, ErrKeyNotFound
	}

	return item.(*Item).value, nil
}

func (ms *MemoryStore) Put(key, value []byte) error {
	it := &Item{key: key, value: value}

	ms.lock.Lock()
	ms.tree.ReplaceOrInsert(it)
	ms.lock.Unlock()

	return nil
}

func (ms *MemoryStore) Delete(key []byte) error {
	ms.lock.Lock()
	ms.tree.Delete(&Item{key: key})
	ms.lock.Unlock()

	return nil
}

func (ms *MemoryStore) Iterator(reverse bool) (Iterator, error) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()

	var idx int
	items := make([]kvItem, ms.tree.Len())

	// put all the data into the array
	saveItems := func(it btree.Item) bool {
		item := it.(*Item)
		items[idx] = kvItem{key: item.key, value: item.value}
		idx++
		return true
	}

	if reverse {
		ms.tree.Descend(saveItems)
	} else {
		ms.tree.Ascend(saveItems)
	}

	return &snapshotIterator{items: items, reverse: reverse}, nil
}

// CompactRange is a no-op for the in-memory backend
func (ms *MemoryStore) CompactRange(start, end []byte) error {
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}

type kvItem struct {
	key   []byte
	value []byte
}

// snapshotIterator iterates over a point-in-time copy of the keyspace,
// already arranged in iteration order
type snapshotIterator struct {
	currentIndex int
	reverse      bool
	items        []kvItem
}

func (si *snapshotIterator) Rewind() {
	si.currentIndex = 0
}

func (si *snapshotIterator) Seek(key []byte) {
	if si.reverse {
		// use binary search, items are in descending order
		si.currentIndex = sort.Search(len(si.items), func(i int) bool {
			return bytes.Compare(si.items[i].key, key) < 0
		})
	} else {
		si.currentIndex = sort.Search(len(si.items), func(i int) bool {
			return bytes.Compare(si.items[i].key, key) >= 0
		})
	}
}

func (si *snapshotIterator) Next() {
	si.currentIndex += 1
}

func (si *snapshotIterator) Valid() bool {
	return si.currentIndex < len(si.items)
}

func (si *snapshotIterator) Key() []byte {
	return si.items[si.currentIndex].key
}

func (si *snapshotIterator) Value() []byte {
	return si.items[si.currentIndex].value
}

func (si *snapshotIterator) Err() error {
	return nil
}

func (si *snapshotIterator) Close() error {
	si.items = nil
	return nil
}
