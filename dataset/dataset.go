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
	"github.com/juju/errors"
	"gonum.org/v1/gonum/mat"
)

// ResponseMatrix holds categorical responses: rows are respondents and columns are
// items. Responses to item j are codes in [0, NCats()[j]).
type ResponseMatrix struct {
	data  *mat.Dense
	nCats []int
}

// NewResponseMatrix wraps data. The matrix is not copied and must not be modified
// while it is in use.
func NewResponseMatrix(data *mat.Dense, nCats []int) (*ResponseMatrix, error) {
	if data == nil || data.IsEmpty() {
		return nil, errors.NotValidf("empty response matrix")
	}
	_, numItems := data.Dims()
	if len(nCats) != numItems {
		return nil, errors.NotValidf("number of category counts (%d) and items (%d)", len(nCats), numItems)
	}
	return &ResponseMatrix{data: data, nCats: nCats}, nil
}

func (m *ResponseMatrix) Dims() (int, int) {
	return m.data.Dims()
}

func (m *ResponseMatrix) CountRespondents() int {
	r, _ := m.data.Dims()
	return r
}

func (m *ResponseMatrix) CountItems() int {
	_, c := m.data.Dims()
	return c
}

// NCats returns the number of response categories of each item.
func (m *ResponseMatrix) NCats() []int {
	return m.nCats
}

// Raw returns the underlying matrix.
func (m *ResponseMatrix) Raw() mat.Matrix {
	return m.data
}

func (m *ResponseMatrix) At(respondent, item int) float64 {
	return m.data.At(respondent, item)
}

// Subset copies the given respondents, in order, into a new ResponseMatrix.
func (m *ResponseMatrix) Subset(rows []int) *ResponseMatrix {
	numItems := m.CountItems()
	if len(rows) == 0 {
		return &ResponseMatrix{data: &mat.Dense{}, nCats: m.nCats}
	}
	subset := mat.NewDense(len(rows), numItems, nil)
	for i, row := range rows {
		subset.SetRow(i, m.data.RawRowView(row))
	}
	return &ResponseMatrix{data: subset, nCats: m.nCats}
}
