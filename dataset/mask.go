// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"github.com/bits-and-blooms/bitset"
)

// MissingMask marks response entries excluded from fitting. A nil mask marks nothing.
type MissingMask struct {
	rows int
	cols int
	bits *bitset.BitSet
}

func NewMissingMask(rows, cols int) *MissingMask {
	return &MissingMask{
		rows: rows,
		cols: cols,
		bits: bitset.New(uint(rows * cols)),
	}
}

func (m *MissingMask) Dims() (int, int) {
	return m.rows, m.cols
}

func (m *MissingMask) index(row, col int) uint {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic("dataset: mask index out of range")
	}
	return uint(row*m.cols + col)
}

// Set marks the entry as missing.
func (m *MissingMask) Set(row, col int) {
	m.bits.Set(m.index(row, col))
}

func (m *MissingMask) Clear(row, col int) {
	m.bits.Clear(m.index(row, col))
}

func (m *MissingMask) IsMissing(row, col int) bool {
	if m == nil {
		return false
	}
	return m.bits.Test(m.index(row, col))
}

// Count returns the number of missing entries.
func (m *MissingMask) Count() int {
	if m == nil {
		return 0
	}
	return int(m.bits.Count())
}

// Subset copies the rows of the mask in the given order.
func (m *MissingMask) Subset(rows []int) *MissingMask {
	if m == nil {
		return nil
	}
	subset := NewMissingMask(len(rows), m.cols)
	for i, row := range rows {
		for j := 0; j < m.cols; j++ {
			if m.IsMissing(row, j) {
				subset.Set(i, j)
			}
		}
	}
	return subset
}
