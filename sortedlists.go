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

import "bytes"

// ========================================= Sorted List =========================================

// actual data:
//                                   +---------------+
// ["d:" | id | score | sequence] => |     value     |
//                                   +---------------+
//
// scores may vary in length and are ordered bytewise; the trailing sequence
// number preserves insertion order among equal scores. Popping from the
// endpoints accumulates tombstones, so every SortedListCompactDeletesCount
// deletes a range compaction is requested over the drained end

// ScoreValue pairs a score with its stored value
type ScoreValue struct {
	Score []byte
	Value []byte
}

// SortedListAdd inserts value with the given score
// returns the length of the sorted-list after the insert
func (db *Database) SortedListAdd(key, score, value []byte) (uint64, error) {
	meta, err := db.getOrCreateMeta(key, SortedList)
	if err != nil {
		return 0, err
	}

	sequence, leftDeleted, rightDeleted := meta.SortedListExtra()
	fullKey := encodeDataKeySortedListItem(meta.ID, score, sequence)

	if err := db.store.Put(fullKey, value); err != nil {
		return 0, err
	}

	meta.SetSortedListExtra(sequence+1, leftDeleted, rightDeleted)
	meta.Count++
	if err := db.saveMeta(key, meta, false); err != nil {
		return 0, err
	}

	return meta.Count, nil
}

// SortedListLeftPop removes and returns the item with the smallest score.
// When maxScore is non-nil and the smallest stored score compares greater,
// the item is left in place and nil is returned
func (db *Database) SortedListLeftPop(key, maxScore []byte) (*ScoreValue, error) {
	meta, err := db.findMeta(key, SortedList)
	if err != nil || meta == nil {
		return nil, err
	}

	prefix := encodeDataPrefix(meta.ID)

	it, err := db.store.Iterator(false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	it.Seek(prefix)
	if !it.Valid() || !bytes.HasPrefix(it.Key(), prefix) {
		return nil, it.Err()
	}

	score := decodeDataKeySortedListItem(it.Key())
	if maxScore != nil && CompareScoreBytes(score, maxScore) > 0 {
		return nil, nil
	}

	popped := &ScoreValue{Score: copyBytes(score), Value: copyBytes(it.Value())}
	poppedKey := copyBytes(it.Key())

	if err := db.store.Delete(poppedKey); err != nil {
		return nil, err
	}
	meta.Count--

	sequence, leftDeleted, rightDeleted := meta.SortedListExtra()
	leftDeleted++
	if threshold := db.options.SortedListCompactDeletesCount; threshold > 0 && leftDeleted%threshold == 0 {
		if err := db.store.CompactRange(prefix, poppedKey); err != nil {
			return nil, err
		}
		leftDeleted = 0
	}
	meta.SetSortedListExtra(sequence, leftDeleted, rightDeleted)

	if err := db.saveMeta(key, meta, true); err != nil {
		return nil, err
	}

	return popped, nil
}

// SortedListRightPop removes and returns the item with the largest score.
// When minScore is non-nil and the largest stored score compares less, the
// item is left in place and nil is returned
func (db *Database) SortedListRightPop(key, minScore []byte) (*ScoreValue, error) {
	meta, err := db.findMeta(key, SortedList)
	if err != nil || meta == nil {
		return nil, err
	}

	prefix := encodeDataPrefix(meta.ID)
	nextPrefix := encodeDataPrefix(meta.ID + 1)

	it, err := db.store.Iterator(true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	it.Seek(nextPrefix)
	if !it.Valid() || !bytes.HasPrefix(it.Key(), prefix) {
		return nil, it.Err()
	}

	score := decodeDataKeySortedListItem(it.Key())
	if minScore != nil && CompareScoreBytes(score, minScore) < 0 {
		return nil, nil
	}

	popped := &ScoreValue{Score: copyBytes(score), Value: copyBytes(it.Value())}
	poppedKey := copyBytes(it.Key())

	if err := db.store.Delete(poppedKey); err != nil {
		return nil, err
	}
	meta.Count--

	sequence, leftDeleted, rightDeleted := meta.SortedListExtra()
	rightDeleted++
	if threshold := db.options.SortedListCompactDeletesCount; threshold > 0 && rightDeleted%threshold == 0 {
		if err := db.store.CompactRange(poppedKey, nextPrefix); err != nil {
			return nil, err
		}
		rightDeleted = 0
	}
	meta.SetSortedListExtra(sequence, leftDeleted, rightDeleted)

	if err := db.saveMeta(key, meta, true); err != nil {
		return nil, err
	}

	return popped, nil
}

// SortedListCount returns the number of items in the sorted-list stored at key
func (db *Database) SortedListCount(key []byte) (uint64, error) {
	return db.Count(key)
}

// SortedListForEach invokes the callback in non-decreasing score order with
// insertion order as tie-break; the slices are only valid during the callback
func (db *Database) SortedListForEach(key []byte, f func(score, value []byte) bool) (uint64, error) {
	return db.forEachData(key, nil, func(k, v []byte) bool {
		return f(decodeDataKeySortedListItem(k), v)
	})
}

// SortedListItems collects all items in score order
func (db *Database) SortedListItems(key []byte) ([]ScoreValue, error) {
	var items []ScoreValue
	_, err := db.SortedListForEach(key, func(score, value []byte) bool {
		items = append(items, ScoreValue{Score: copyBytes(score), Value: copyBytes(value)})
		return true
	})
	return items, err
}
