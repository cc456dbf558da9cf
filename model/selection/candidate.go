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

package selection

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/irtscree/base/log"
	"github.com/gorse-io/irtscree/config"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Candidate is one estimator configuration of a sweep.
type Candidate struct {
	NFactors          int
	InferenceNetSizes []int
	LearningRate      float64
}

// CandidatesFromLists zips index-aligned lists of factor counts, network sizes and
// learning rates into candidates.
func CandidatesFromLists(latentSizes []int, inferenceNetSizes [][]int, learningRates []float64) ([]Candidate, error) {
	if len(latentSizes) != len(inferenceNetSizes) || len(latentSizes) != len(learningRates) {
		return nil, errors.NotValidf("mismatched configuration lists: latent sizes (%d), inference net sizes (%d), learning rates (%d)",
			len(latentSizes), len(inferenceNetSizes), len(learningRates))
	}
	candidates := make([]Candidate, len(latentSizes))
	for i := range latentSizes {
		candidates[i] = Candidate{
			NFactors:          latentSizes[i],
			InferenceNetSizes: inferenceNetSizes[i],
			LearningRate:      learningRates[i],
		}
	}
	return candidates, nil
}

// CandidatesFromConfig converts the configured candidates in order.
func CandidatesFromConfig(cfg *config.SweepConfig) []Candidate {
	return lo.Map(cfg.Candidates, func(c config.CandidateConfig, _ int) Candidate {
		return Candidate{
			NFactors:          c.NFactors,
			InferenceNetSizes: c.InferenceNetSizes,
			LearningRate:      c.LearningRate,
		}
	})
}

// ValidateCandidates requires a non-empty set of unique, positive factor counts,
// each paired with a non-empty inference net of positive sizes and a positive
// learning rate.
// Factor counts that are not increasing are allowed but make the scree plot hard
// to read, so they are reported as a warning.
func ValidateCandidates(candidates []Candidate) error {
	if len(candidates) == 0 {
		return errors.NotValidf("empty candidate set")
	}
	seen := mapset.NewThreadUnsafeSet[int]()
	for i, candidate := range candidates {
		if candidate.NFactors <= 0 {
			return errors.NotValidf("number of factors %d of candidate %d", candidate.NFactors, i)
		}
		if !seen.Add(candidate.NFactors) {
			return errors.NotValidf("duplicate number of factors %d of candidate %d", candidate.NFactors, i)
		}
		if len(candidate.InferenceNetSizes) == 0 {
			return errors.NotValidf("empty inference net sizes of candidate %d", i)
		}
		for _, size := range candidate.InferenceNetSizes {
			if size <= 0 {
				return errors.NotValidf("inference net size %d of candidate %d", size, i)
			}
		}
		if candidate.LearningRate <= 0 {
			return errors.NotValidf("learning rate %v of candidate %d", candidate.LearningRate, i)
		}
	}
	nFactors := lo.Map(candidates, func(c Candidate, _ int) int { return c.NFactors })
	for i := 1; i < len(nFactors); i++ {
		if nFactors[i] < nFactors[i-1] {
			log.Logger().Warn("number of factors are not increasing", zap.Ints("n_factors", nFactors))
			break
		}
	}
	return nil
}
