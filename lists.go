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

// ========================================= List =========================================

// actual data:
//                            +---------------+
// ["d:" | id | position]  => |     value     |
//                            +---------------+
//
// occupied positions are exactly the open interval (left, right) held in the
// meta extra, so count == right - left - 1. Positions are stored
// bias-encoded so that bytewise key order equals signed position order

// ListLeftPush prepends value to the list stored at key
// returns the length of the list after the push
func (db *Database) ListLeftPush(key, value []byte) (uint64, error) {
	return db.listPush(key, value, true)
}

// ListRightPush appends value to the list stored at key
// returns the length of the list after the push
func (db *Database) ListRightPush(key, value []byte) (uint64, error) {
	return db.listPush(key, value, false)
}

func (db *Database) listPush(key, value []byte, isPushLeft bool) (uint64, error) {
	meta, err := db.getOrCreateMeta(key, List)
	if err != nil {
		return 0, err
	}

	left, right := meta.ListExtra()

	var position int64
	if isPushLeft {
		position = left
		left--
	} else {
		position = right
		right++
	}

	if err := db.store.Put(encodeDataKeyListItem(meta.ID, position), value); err != nil {
		return 0, err
	}

	meta.SetListExtra(left, right)
	meta.Count++
	if err := db.saveMeta(key, meta, false); err != nil {
		return 0, err
	}

	return meta.Count, nil
}

// ListLeftPop removes and returns the first element of the list stored at
// key, nil when the list is empty
func (db *Database) ListLeftPop(key []byte) ([]byte, error) {
	return db.listPop(key, true)
}

// ListRightPop removes and returns the last element of the list stored at
// key, nil when the list is empty
func (db *Database) ListRightPop(key []byte) ([]byte, error) {
	return db.listPop(key, false)
}

func (db *Database) listPop(key []byte, isPopLeft bool) ([]byte, error) {
	meta, err := db.findMeta(key, List)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, nil
	}

	left, right := meta.ListExtra()

	var position int64
	if isPopLeft {
		position = left + 1
		left++
	} else {
		position = right - 1
		right--
	}

	fullKey := encodeDataKeyListItem(meta.ID, position)
	value, err := db.store.Get(fullKey)
	if err != nil {
		// an absent endpoint means the list is empty
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	if err := db.store.Delete(fullKey); err != nil {
		return nil, err
	}

	meta.SetListExtra(left, right)
	meta.Count--
	if err := db.saveMeta(key, meta, true); err != nil {
		return nil, err
	}

	return value, nil
}

// ListCount returns the number of elements in the list stored at key
func (db *Database) ListCount(key []byte) (uint64, error) {
	return db.Count(key)
}

// ListForEach invokes the callback for every element from left to right;
// the slice is only valid during the callback
func (db *Database) ListForEach(key []byte, f func(value []byte) bool) (uint64, error) {
	return db.forEachData(key, nil, func(_, v []byte) bool {
		return f(v)
	})
}

// ListItems collects all elements of the list stored at key from left to right
func (db *Database) ListItems(key []byte) ([][]byte, error) {
	var items [][]byte
	_, err := db.ListForEach(key, func(value []byte) bool {
		items = append(items, copyBytes(value))
		return true
	})
	return items, err
}
