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

// ========================================= Map =========================================

// actual data:
//                            +---------------+
// ["d:" | id | field]     => |     value     |
//                            +---------------+

// MapItem is one field of a map
type MapItem struct {
	Field []byte
	Value []byte
}

// MapPut stores value under field in the map stored at key
func (db *Database) MapPut(key, field, value []byte) error {
	meta, err := db.getOrCreateMeta(key, Map)
	if err != nil {
		return err
	}

	fullKey := encodeDataKeyMapItem(meta.ID, field)

	// the count only moves when the field is newly inserted
	exist, err := db.hasDataKey(fullKey)
	if err != nil {
		return err
	}
	if !exist {
		meta.Count++
	}

	if err := db.store.Put(fullKey, value); err != nil {
		return err
	}

	return db.saveMeta(key, meta, false)
}

// MapGet fetches the value stored under field, nil when the map or the
// field does not exist
func (db *Database) MapGet(key, field []byte) ([]byte, error) {
	meta, err := db.findMeta(key, Map)
	if err != nil {
		return nil, err
	}
	if meta == nil || meta.Count == 0 {
		return nil, nil
	}

	value, err := db.store.Get(encodeDataKeyMapItem(meta.ID, field))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return value, nil
}

// MapDelete removes field from the map stored at key
// returns true if the field was present
func (db *Database) MapDelete(key, field []byte) (bool, error) {
	meta, err := db.findMeta(key, Map)
	if err != nil {
		return false, err
	}
	if meta == nil {
		return false, nil
	}

	fullKey := encodeDataKeyMapItem(meta.ID, field)
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

// MapCount returns the number of fields in the map stored at key
func (db *Database) MapCount(key []byte) (uint64, error) {
	return db.Count(key)
}

// MapForEach invokes the callback for every field in lexicographic field
// order; the slices are only valid during the callback
func (db *Database) MapForEach(key []byte, f func(field, value []byte) bool) (uint64, error) {
	return db.forEachData(key, nil, func(k, v []byte) bool {
		return f(decodeDataKeyMapItem(k), v)
	})
}

// MapForEachWithPrefix restricts the iteration to fields beginning with prefix
func (db *Database) MapForEachWithPrefix(key, prefix []byte, f func(field, value []byte) bool) (uint64, error) {
	return db.forEachData(key, prefix, func(k, v []byte) bool {
		return f(decodeDataKeyMapItem(k), v)
	})
}

// MapItems collects all fields of the map stored at key
func (db *Database) MapItems(key []byte) ([]MapItem, error) {
	var items []MapItem
	_, err := db.MapForEach(key, func(field, value []byte) bool {
		items = append(items, MapItem{Field: copyBytes(field), Value: copyBytes(value)})
		return true
	})
	return items, err
}

// MapItemsWithPrefix collects the fields beginning with prefix
func (db *Database) MapItemsWithPrefix(key, prefix []byte) ([]MapItem, error) {
	var items []MapItem
	_, err := db.MapForEachWithPrefix(key, prefix, func(field, value []byte) bool {
		items = append(items, MapItem{Field: copyBytes(field), Value: copyBytes(value)})
		return true
	})
	return items, err
}
