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

// Package model defines the contract between the sweep and latent-factor
// item-response estimators. Fitting algorithms live outside this module.
package model

import (
	"context"

	"github.com/gorse-io/irtscree/base"
	"github.com/gorse-io/irtscree/dataset"
	"gonum.org/v1/gonum/mat"
)

// EstimatorConfig configures a single estimator of a sweep.
type EstimatorConfig struct {
	InputSize         int     // number of items
	InferenceNetSizes []int   // hidden layer widths of the inference network
	LatentSize        int     // number of latent factors
	NCats             []int   // number of categories per item
	LearningRate      float64 // optimizer learning rate
	Device            string  // compute device, e.g. "cpu"
	LogInterval       int     // fitting log cadence in iterations
}

// FitConfig holds the training options passed to Estimator.Fit.
type FitConfig struct {
	BatchSize int
	MaxEpochs int
	IWSamples int // importance-weighted samples for the fitting objective
}

// NewFitConfig creates a FitConfig with default options.
func NewFitConfig() *FitConfig {
	return &FitConfig{
		BatchSize: 32,
		MaxEpochs: 100000,
		IWSamples: 1,
	}
}

// SetBatchSize sets the number of respondents per mini-batch.
func (config *FitConfig) SetBatchSize(batchSize int) *FitConfig {
	config.BatchSize = batchSize
	return config
}

// SetMaxEpochs sets the maximum number of passes over the data.
func (config *FitConfig) SetMaxEpochs(maxEpochs int) *FitConfig {
	config.MaxEpochs = maxEpochs
	return config
}

// SetIWSamples sets the number of importance-weighted samples drawn during fitting.
func (config *FitConfig) SetIWSamples(iwSamples int) *FitConfig {
	config.IWSamples = iwSamples
	return config
}

// Estimator is a latent-factor item-response model.
type Estimator interface {
	// Fit trains the estimator. Entries marked in mask are ignored; mask may be nil.
	// All randomness must be drawn from rng.
	Fit(ctx context.Context, data *dataset.ResponseMatrix, mask *dataset.MissingMask, config *FitConfig, rng base.RandomGenerator) error
	// LogLikelihood estimates the log-likelihood of data with iwSamples importance
	// samples. It must not modify the fitted state.
	LogLikelihood(ctx context.Context, data *dataset.ResponseMatrix, iwSamples int) (float64, error)
}

// FactorModel is an estimator exposing its fitted loadings.
type FactorModel interface {
	Estimator
	// Loadings returns a matrix of shape (items x latent factors).
	Loadings() mat.Matrix
}

// EstimatorFactory creates an unfitted estimator.
type EstimatorFactory func(config EstimatorConfig) (Estimator, error)
