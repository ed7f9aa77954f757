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
	"os"

	"github.com/structdb/structdb/store"
)

type Options struct {
	// DirectoryPath is the path to the data directory
	DirectoryPath string

	// StoreType selects the underlying ordered key-value backend
	StoreType store.StoreType

	// SyncWrites indicates whether to sync for every write to disk
	SyncWrites bool

	// SortedListCompactDeletesCount triggers a range compaction on the
	// underlying store every time this many items have been deleted from a
	// sorted-list endpoint or a sorted-set; 0 disables the compactions
	SortedListCompactDeletesCount uint32

	// DeleteMetaWhenEmpty removes the key metadata record once its item count
	// drops to zero; the key gets a fresh id the next time it is written.
	// When false the empty meta stays and the id is reused
	DeleteMetaWhenEmpty bool
}

// re-exported store backend types
const (
	Pebble  = store.Pebble
	LevelDB = store.LevelDB
	Bolt    = store.Bolt
	Memory  = store.Memory
	ART     = store.ART
)

var DefaultOptions = Options{
	DirectoryPath:                 os.TempDir(),
	StoreType:                     Pebble,
	SyncWrites:                    false,
	SortedListCompactDeletesCount: 300,
	DeleteMetaWhenEmpty:           true,
}
