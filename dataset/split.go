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
	"math"

	"github.com/gorse-io/irtscree/base"
	"github.com/juju/errors"
)

// SplitIndex shuffles [0, n) and splits it into train and test indices. The test
// part holds ceil(testFraction * n) indices and the train part holds the rest.
func SplitIndex(n int, testFraction float64, rng base.RandomGenerator) (train, test []int, err error) {
	if !(testFraction > 0 && testFraction < 1) {
		return nil, nil, errors.NotValidf("test fraction %v, must be in (0, 1)", testFraction)
	}
	numTest := int(math.Ceil(testFraction * float64(n)))
	numTrain := n - numTest
	if n > 0 && (numTest == 0 || numTrain == 0) {
		return nil, nil, errors.NotValidf("test fraction %v with %d samples leaves an empty split", testFraction, n)
	}
	perm := rng.Permutation(n)
	return perm[numTest:], perm[:numTest], nil
}

// Split partitions respondents into a train set and a test set.
func (m *ResponseMatrix) Split(testFraction float64, rng base.RandomGenerator) (trainSet, testSet *ResponseMatrix, err error) {
	trainIndex, testIndex, err := SplitIndex(m.CountRespondents(), testFraction, rng)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return m.Subset(trainIndex), m.Subset(testIndex), nil
}
