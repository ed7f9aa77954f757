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

package score

import (
	"bytes"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint64(t *testing.T) {
	values := []uint64{0, 1, 255, 256, math.MaxUint64}

	for _, v := range values {
		assert.Equal(t, v, Uint64FromBytes(Uint64(v)))
	}

	assert.True(t, bytes.Compare(Uint64(1), Uint64(256)) < 0)
}

func TestInt64_OrderPreserving(t *testing.T) {
	values := []int64{math.MinInt64, -1000, -1, 0, 1, 1000, math.MaxInt64}

	var encoded [][]byte
	for _, v := range values {
		b := Int64(v)
		assert.Equal(t, v, Int64FromBytes(b))
		encoded = append(encoded, b)
	}

	sorted := sort.SliceIsSorted(encoded, func(i, j int) bool {
		return bytes.Compare(encoded[i], encoded[j]) < 0
	})
	assert.True(t, sorted)
}

func TestFloat64_OrderPreserving(t *testing.T) {
	values := []float64{math.Inf(-1), -1e10, -3.14, -0.5, 0, 0.5, 3.14, 1e10, math.Inf(1)}

	var encoded [][]byte
	for _, v := range values {
		b := Float64(v)
		assert.Equal(t, v, Float64FromBytes(b))
		encoded = append(encoded, b)
	}

	sorted := sort.SliceIsSorted(encoded, func(i, j int) bool {
		return bytes.Compare(encoded[i], encoded[j]) < 0
	})
	assert.True(t, sorted)
}
