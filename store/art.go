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
	"sync"

	goART "github.com/plar/go-adaptive-radix-tree"
)

// ARTStore defines a volatile adaptive-radix-tree backend, an alternative
// to the btree-backed MemoryStore for key sets with long shared prefixes
//
// refer to [https://github.com/plar/go-adaptive-radix-tree]
type ARTStore struct {
	tree goART.Tree
	lock *sync.RWMutex
}

// NewARTStore creates a new empty ART-backed store
func NewARTStore() *ARTStore {
	return &ARTStore{
		tree: goART.New(),
		lock: new(sync.RWMutex),
	}
}

func (as *ARTStore) Get(key []byte) ([]byte, error) {
	as.lock.RLock()
	value, found := as.tree.Search(key)
	as.lock.RUnlock()

	if !found {
		return nil, ErrKeyNotFound
	}

	return value.([]byte), nil
}

func (as *ARTStore) Put(key, value []byte) error {
	as.lock.Lock()
	as.tree.Insert(key, value)
	as.lock.Unlock()

	return nil
}

func (as *ARTStore) Delete(key []byte) error {
	as.lock.Lock()
	as.tree.Delete(key)
	as.lock.Unlock()

	return nil
}

func (as *ARTStore) Iterator(reverse bool) (Iterator, error) {
	as.lock.RLock()
	defer as.lock.RUnlock()

	var index int
	if reverse {
		index = as.tree.Size() - 1
	}

	// the tree walk is forward only, fill the snapshot from the matching end
	items := make([]kvItem, as.tree.Size())
	saveItems := func(node goART.Node) bool {
		items[index] = kvItem{key: node.Key(), value: node.Value().([]byte)}

		if reverse {
			index--
		} else {
			index++
		}
		return true
	}

	as.tree.ForEach(saveItems)

	return &snapshotIterator{items: items, reverse: reverse}, nil
}

// CompactRange is a no-op for the in-memory backend
func (as *ARTStore) CompactRange(start, end []byte) error {
	return nil
}

func (as *ARTStore) Close() error {
	return nil
}
