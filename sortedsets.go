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
	"fmt"
)

// ========================================= Sorted Set =========================================

// every member stores two records:
//
// forward, for score-ordered scans:
//                                    +---------------+
// ["d:" | id | 0x00 | score | value] |    filler     |
//                                    +---------------+
// reverse, for membership and score lookup:
//                                    +---------------+
// ["d:" | id | 0x01 | value]      => |     score     |
//                                    +---------------+
//
// the score length is fixed on the first insert, which is what allows the
// forward key to be split back into score and value

// SortedSetAdd adds value with the given score to the sorted-set stored at
// key. Re-adding an existing value moves it to the new score. The score must
// have the same length as every score previously stored under this key.
// Returns the number of members after the add
func (db *Database) SortedSetAdd(key, score, value []byte) (uint64, error) {
	meta, err := db.getOrCreateMeta(key, SortedSet)
	if err != nil {
		return 0, err
	}

	deletedCount, scoreLen := meta.SortedSetExtra()
	if scoreLen < 1 {
		scoreLen = byte(len(score))
		meta.SetSortedSetExtra(deletedCount, scoreLen)
	} else if int(scoreLen) != len(score) {
		return 0, fmt.Errorf("%w: expected %d bytes but got %d bytes",
			ErrInvalidScoreLength, scoreLen, len(score))
	}

	reverseKey := encodeDataKeySortedSetItemWithoutScore(meta.ID, value)

	// an existing member moves: drop its old forward record instead of
	// leaving it orphaned under the stale score
	oldScore, err := db.store.Get(reverseKey)
	switch {
	case err == nil:
		if bytes.Equal(oldScore, score) {
			return meta.Count, nil
		}
		if err := db.store.Delete(encodeDataKeySortedSetItemWithScore(meta.ID, oldScore, value)); err != nil {
			return 0, err
		}
	case isNotFound(err):
		meta.Count++
	default:
		return 0, err
	}

	if err := db.store.Put(encodeDataKeySortedSetItemWithScore(meta.ID, score, value), fillEmptyData); err != nil {
		return 0, err
	}
	if err := db.store.Put(reverseKey, score); err != nil {
		return 0, err
	}

	if err := db.saveMeta(key, meta, false); err != nil {
		return 0, err
	}

	return meta.Count, nil
}

// SortedSetIsMember checks whether value is a member of the sorted-set
// stored at key
func (db *Database) SortedSetIsMember(key, value []byte) (bool, error) {
	meta, err := db.findMeta(key, SortedSet)
	if err != nil {
		return false, err
	}
	if meta == nil || meta.Count == 0 {
		return false, nil
	}

	return db.hasDataKey(encodeDataKeySortedSetItemWithoutScore(meta.ID, value))
}

// SortedSetScore returns the score stored for value, nil when value is not
// a member
func (db *Database) SortedSetScore(key, value []byte) ([]byte, error) {
	meta, err := db.findMeta(key, SortedSet)
	if err != nil {
		return nil, err
	}
	if meta == nil || meta.Count == 0 {
		return nil, nil
	}

	score, err := db.store.Get(encodeDataKeySortedSetItemWithoutScore(meta.ID, value))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return score, nil
}

// SortedSetDelete removes value from the sorted-set stored at key
// returns true if the value was present
func (db *Database) SortedSetDelete(key, value []byte) (bool, error) {
	meta, err := db.findMeta(key, SortedSet)
	if err != nil {
		return false, err
	}
	if meta == nil {
		return false, nil
	}

	reverseKey := encodeDataKeySortedSetItemWithoutScore(meta.ID, value)
	score, err := db.store.Get(reverseKey)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if err := db.store.Delete(encodeDataKeySortedSetItemWithScore(meta.ID, score, value)); err != nil {
		return false, err
	}
	if err := db.store.Delete(reverseKey); err != nil {
		return false, err
	}
	meta.Count--

	deletedCount, scoreLen := meta.SortedSetExtra()
	deletedCount++
	if threshold := db.options.SortedListCompactDeletesCount; threshold > 0 && deletedCount%threshold == 0 {
		prefix := encodeDataPrefix(meta.ID)
		if err := db.store.CompactRange(prefix, encodeDataPrefix(meta.ID+1)); err != nil {
			return false, err
		}
		deletedCount = 0
	}
	meta.SetSortedSetExtra(deletedCount, scoreLen)

	return true, db.saveMeta(key, meta, true)
}

// SortedSetLeft collects up to limit members from the smallest score
// upwards, stopping early once a score compares greater than maxScore when
// maxScore is non-nil. A limit of 0 or less means no limit
func (db *Database) SortedSetLeft(key, maxScore []byte, limit int) ([]ScoreValue, error) {
	meta, err := db.findMeta(key, SortedSet)
	if err != nil || meta == nil {
		return nil, err
	}

	_, scoreLen := meta.SortedSetExtra()
	prefix := encodeDataKeySortedSetPrefix(meta.ID)

	it, err := db.store.Iterator(false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var items []ScoreValue
	for it.Seek(prefix); it.Valid(); it.Next() {
		if !bytes.HasPrefix(it.Key(), prefix) {
			break
		}
		score, value := decodeDataKeySortedSetItemWithScore(it.Key(), scoreLen)
		if maxScore != nil && CompareScoreBytes(score, maxScore) > 0 {
			break
		}
		items = append(items, ScoreValue{Score: copyBytes(score), Value: copyBytes(value)})
		if limit > 0 && len(items) >= limit {
			break
		}
	}

	return items, it.Err()
}

// SortedSetRight collects up to limit members from the largest score
// downwards, stopping early once a score compares less than minScore when
// minScore is non-nil. A limit of 0 or less means no limit
func (db *Database) SortedSetRight(key, minScore []byte, limit int) ([]ScoreValue, error) {
	meta, err := db.findMeta(key, SortedSet)
	if err != nil || meta == nil {
		return nil, err
	}

	_, scoreLen := meta.SortedSetExtra()
	prefix := encodeDataKeySortedSetPrefix(meta.ID)

	it, err := db.store.Iterator(true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var items []ScoreValue
	// seed just past the forward subrange, at the reverse-tag prefix
	for it.Seek(encodeDataKeySortedSetReversePrefix(meta.ID)); it.Valid(); it.Next() {
		if !bytes.HasPrefix(it.Key(), prefix) {
			break
		}
		score, value := decodeDataKeySortedSetItemWithScore(it.Key(), scoreLen)
		if minScore != nil && CompareScoreBytes(score, minScore) < 0 {
			break
		}
		items = append(items, ScoreValue{Score: copyBytes(score), Value: copyBytes(value)})
		if limit > 0 && len(items) >= limit {
			break
		}
	}

	return items, it.Err()
}

// SortedSetCount returns the number of members in the sorted-set stored at key
func (db *Database) SortedSetCount(key []byte) (uint64, error) {
	return db.Count(key)
}

// SortedSetForEach invokes the callback in non-decreasing score order; the
// slices are only valid during the callback
func (db *Database) SortedSetForEach(key []byte, f func(score, value []byte) bool) (uint64, error) {
	meta, err := db.findMeta(key, SortedSet)
	if err != nil || meta == nil {
		return 0, err
	}

	_, scoreLen := meta.SortedSetExtra()
	return db.forEachData(key, nil, func(k, _ []byte) bool {
		score, value := decodeDataKeySortedSetItemWithScore(k, scoreLen)
		return f(score, value)
	})
}

// SortedSetItems collects all members in score order
func (db *Database) SortedSetItems(key []byte) ([]ScoreValue, error) {
	var items []ScoreValue
	_, err := db.SortedSetForEach(key, func(score, value []byte) bool {
		items = append(items, ScoreValue{Score: copyBytes(score), Value: copyBytes(value)})
		return true
	})
	return items, err
}
