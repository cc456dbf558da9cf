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

// Package selection chooses the number of latent factors by fitting one estimator
// per candidate and comparing held-out log-likelihoods.
package selection

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gorse-io/irtscree/base"
	"github.com/gorse-io/irtscree/base/log"
	"github.com/gorse-io/irtscree/base/progress"
	"github.com/gorse-io/irtscree/config"
	"github.com/gorse-io/irtscree/dataset"
	"github.com/gorse-io/irtscree/model"
	"github.com/gorse-io/irtscree/plots"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Result holds the held-out log-likelihood of every candidate, in candidate order.
type Result struct {
	Candidates []Candidate
	Scores     []float64
	PlotPath   string
}

// NFactors returns the number of factors of each candidate in sweep order.
func (r *Result) NFactors() []int {
	return lo.Map(r.Candidates, func(c Candidate, _ int) int { return c.NFactors })
}

// Best returns the index of the candidate with the highest log-likelihood, or -1
// if the result is empty.
func (r *Result) Best() int {
	best := -1
	for i, score := range r.Scores {
		if best < 0 || score > r.Scores[best] {
			best = i
		}
	}
	return best
}

// WriteTable renders the scores as a text table.
func (r *Result) WriteTable(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Factors", "Inference Net", "Learning Rate", "Log-Likelihood")
	for i, candidate := range r.Candidates {
		if err := table.Append(
			strconv.Itoa(i),
			strconv.Itoa(candidate.NFactors),
			fmt.Sprint(candidate.InferenceNetSizes),
			strconv.FormatFloat(candidate.LearningRate, 'g', -1, 64),
			strconv.FormatFloat(r.Scores[i], 'f', 4, 64),
		); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

// Sweep fits one estimator per candidate on a shared train/test split.
type Sweep struct {
	factory    model.EstimatorFactory
	candidates []Candidate
	sweep      *config.SweepConfig
	plot       *config.PlotConfig
}

func NewSweep(factory model.EstimatorFactory, candidates []Candidate, sweepConfig *config.SweepConfig, plotConfig *config.PlotConfig) *Sweep {
	return &Sweep{
		factory:    factory,
		candidates: candidates,
		sweep:      sweepConfig,
		plot:       plotConfig,
	}
}

// Run fits every candidate and scores it on the held-out respondents, then writes
// the scree plot. Respondents are split once so that every candidate is scored on
// the same test set. Estimators are fitted on the whole matrix unless
// FitOnTrainSplit is set. Any error aborts the sweep and no partial result is
// returned.
func (s *Sweep) Run(ctx context.Context, data *dataset.ResponseMatrix, mask *dataset.MissingMask) (*Result, error) {
	if !(s.sweep.TestFraction > 0 && s.sweep.TestFraction < 1) {
		return nil, errors.NotValidf("test fraction %v, must be in (0, 1)", s.sweep.TestFraction)
	}
	if err := ValidateCandidates(s.candidates); err != nil {
		return nil, errors.Trace(err)
	}
	if mask != nil {
		if r, c := mask.Dims(); r != data.CountRespondents() || c != data.CountItems() {
			return nil, errors.NotValidf("missing mask of shape %dx%d for responses of shape %dx%d",
				r, c, data.CountRespondents(), data.CountItems())
		}
	}

	trainIndex, testIndex, err := dataset.SplitIndex(data.CountRespondents(), s.sweep.TestFraction,
		base.NewRandomGenerator(s.sweep.RandomSeed))
	if err != nil {
		return nil, errors.Trace(err)
	}
	testSet := data.Subset(testIndex)
	fitSet, fitMask := data, mask
	if s.sweep.FitOnTrainSplit {
		fitSet, fitMask = data.Subset(trainIndex), mask.Subset(trainIndex)
	}
	log.Logger().Info("start model selection",
		zap.Int("n_respondents", data.CountRespondents()),
		zap.Int("n_items", data.CountItems()),
		zap.Int("n_train", len(trainIndex)),
		zap.Int("n_test", len(testIndex)),
		zap.Int("n_candidates", len(s.candidates)))

	fitConfig := model.NewFitConfig().
		SetBatchSize(s.sweep.BatchSize).
		SetMaxEpochs(s.sweep.MaxEpochs).
		SetIWSamples(s.sweep.IWSamplesFit)
	rng := base.NewRandomGenerator(s.sweep.RandomSeed)
	result := &Result{
		Candidates: s.candidates,
		Scores:     make([]float64, 0, len(s.candidates)),
	}
	newCtx, span := progress.Start(ctx, "ModelSelection", len(s.candidates))
	startTime := time.Now()
	for i, candidate := range s.candidates {
		if err = ctx.Err(); err != nil {
			span.Fail(err)
			return nil, errors.Trace(err)
		}
		if s.sweep.ReseedPerCandidate {
			rng = base.NewRandomGenerator(s.sweep.RandomSeed)
		}
		log.Logger().Info(fmt.Sprintf("fit candidate (%v/%v)", i+1, len(s.candidates)),
			zap.Int("n_factors", candidate.NFactors),
			zap.Ints("inference_net_sizes", candidate.InferenceNetSizes),
			zap.Float64("learning_rate", candidate.LearningRate))
		score, err := s.evaluate(newCtx, candidate, fitSet, fitMask, testSet, fitConfig, rng)
		if err != nil {
			span.Fail(err)
			return nil, errors.Annotatef(err, "candidate with %d factors", candidate.NFactors)
		}
		log.Logger().Info("score candidate",
			zap.Int("n_factors", candidate.NFactors),
			zap.Float64("log_likelihood", score))
		result.Scores = append(result.Scores, score)
		span.Add(1)
	}
	span.End()

	best := result.Best()
	log.Logger().Info("complete model selection",
		zap.Int("best_n_factors", result.Candidates[best].NFactors),
		zap.Float64("best_log_likelihood", result.Scores[best]),
		zap.String("search_time", time.Since(startTime).String()))

	result.PlotPath, err = plots.SaveScreePlot(result.NFactors(), result.Scores, s.plot)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}

func (s *Sweep) evaluate(ctx context.Context, candidate Candidate, fitSet *dataset.ResponseMatrix, fitMask *dataset.MissingMask,
	testSet *dataset.ResponseMatrix, fitConfig *model.FitConfig, rng base.RandomGenerator) (float64, error) {
	estimator, err := s.factory(model.EstimatorConfig{
		InputSize:         fitSet.CountItems(),
		InferenceNetSizes: candidate.InferenceNetSizes,
		LatentSize:        candidate.NFactors,
		NCats:             fitSet.NCats(),
		LearningRate:      candidate.LearningRate,
		Device:            s.sweep.Device,
		LogInterval:       s.sweep.LogInterval,
	})
	if err != nil {
		return 0, errors.Trace(err)
	}
	if err = estimator.Fit(ctx, fitSet, fitMask, fitConfig, rng); err != nil {
		return 0, errors.Trace(err)
	}
	score, err := estimator.LogLikelihood(ctx, testSet, s.sweep.IWSamplesLL)
	if err != nil {
		return 0, errors.Trace(err)
	}
	return score, nil
}
