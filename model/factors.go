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

package model

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// InvertFactors returns a copy of loadings in which every factor (column) whose
// loadings sum to a negative value has its sign flipped.
func InvertFactors(loadings mat.Matrix) *mat.Dense {
	inverted := mat.DenseCopyOf(loadings)
	rows, cols := inverted.Dims()
	column := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(column, j, inverted)
		if floats.Sum(column) < 0 {
			floats.Scale(-1, column)
			inverted.SetCol(j, column)
		}
	}
	return inverted
}
