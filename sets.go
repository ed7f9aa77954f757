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

// ========================================= Set =========================================

// actual data:
//                            +---------------+
// ["d:" | id | value]     => |    filler     |
//                            +---------------+
// the member is the key, the stored value is a one-byte filler

// SetAdd adds value to the set stored at key
// returns true if the value was newly inserted
func (db *Database) SetAdd(key, value []byte) (bool, error) {
	meta, err := db.getOrCreateMeta(key, Set)
	if err != nil {
		return false, err
	}

	fullKey := encodeDataKeySetItem(meta.ID, value)
	exist, err := db.hasDataKey(fullKey)
	if err != nil {
		return false, err
	}

	if err := db.store.Put(fullKey, fillEmptyData); err != nil {
		return false, err
	}

	if !exist {
		meta.Count++
		if err := db.saveMeta(key, meta, false); err != nil {
			return false, err
		}
	}

	return !exist, nil
}

// SetIsMember checks whether value is a member of the set stored at key
func (db *Database) SetIsMember(key, value []byte) (bool, error) {
	meta, err := db.findMeta(key, Set)
	if err != nil {
		return false, err
	}
	if meta == nil || meta.Count == 0 {
		return false, nil
	}

	return db.hasDataKey(encodeDataKeySetItem(meta.ID, value))
}

// SetDelete removes value from the set stored at key
// returns true if the value was present
func (db *Database) SetDelete(key, value []byte) (bool, error) {
	meta, err := db.findMeta(key, Set)
	if err != nil {
		return false, err
	}
	if meta == nil {
		return false, nil
	}

	fullKey := encodeDataKeySetItem(meta.ID, value)
	exist, err := db.hasDataKey(fullKey)
	if err != nil || !exist {
		return false, err
	}

	if err := db.store.Delete(fullKey); err != nil {
		return false, err
	}
	meta.Count--

	return true, db.saveMeta(key, meta, true)
}

// SetCount returns the number of members in the set stored at key
func (db *Database) SetCount(key []byte) (uint64, error) {
	return db.Count(key)
}

// SetForEach invokes the callback for every member in lexicographic order;
// the slice is only valid during the callback
func (db *Database) SetForEach(key []byte, f func(value []byte) bool) (uint64, error) {
	return db.forEachData(key, nil, func(k, _ []byte) bool {
		return f(decodeDataKeySetItem(k))
	})
}

// SetItems collects all members of the set stored at key
func (db *Database) SetItems(key []byte) ([][]byte, error) {
	var items [][]byte
	_, err := db.SetForEach(key, func(value []byte) bool {
		items = append(items, copyBytes(value))
		return true
	})
	return items, err
}
