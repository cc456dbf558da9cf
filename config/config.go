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

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

const (
	ItemTicksFromFactors = "factors"
	ItemTicksFromItems   = "items"
)

// Config is the configuration of a model-selection sweep.
type Config struct {
	Sweep SweepConfig `mapstructure:"sweep"`
	Plot  PlotConfig  `mapstructure:"plot"`
	Log   LogConfig   `mapstructure:"log"`
}

// SweepConfig holds the settings shared by every candidate in a sweep.
type SweepConfig struct {
	TestFraction       float64           `mapstructure:"test_fraction" validate:"gt=0,lt=1"`
	MaxEpochs          int               `mapstructure:"max_epochs" validate:"gt=0"`
	BatchSize          int               `mapstructure:"batch_size" validate:"gt=0"`
	Device             string            `mapstructure:"device" validate:"required"`
	LogInterval        int               `mapstructure:"log_interval" validate:"gt=0"`
	IWSamplesFit       int               `mapstructure:"iw_samples_fit" validate:"gt=0"`
	IWSamplesLL        int               `mapstructure:"iw_samples_ll" validate:"gt=0"`
	RandomSeed         int64             `mapstructure:"random_seed"`
	ReseedPerCandidate bool              `mapstructure:"reseed_per_candidate"`
	FitOnTrainSplit    bool              `mapstructure:"fit_on_train_split"`
	Candidates         []CandidateConfig `mapstructure:"candidates" validate:"dive"`
}

// CandidateConfig describes one estimator of the sweep.
type CandidateConfig struct {
	NFactors          int     `mapstructure:"n_factors" validate:"gt=0"`
	InferenceNetSizes []int   `mapstructure:"inference_net_sizes" validate:"required,dive,gt=0"`
	LearningRate      float64 `mapstructure:"learning_rate" validate:"gt=0"`
}

type LabelConfig struct {
	XLabel string `mapstructure:"x_label"`
	YLabel string `mapstructure:"y_label"`
	Title  string `mapstructure:"title"`
}

type PlotConfig struct {
	OutputDir string      `mapstructure:"output_dir" validate:"required"`
	Show      bool        `mapstructure:"show"`
	ItemTicks string      `mapstructure:"item_ticks" validate:"oneof=factors items"`
	Scree     LabelConfig `mapstructure:"scree"`
	Loadings  LabelConfig `mapstructure:"loadings"`
}

type LogConfig struct {
	Debug      bool   `mapstructure:"debug"`
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size" validate:"gte=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Sweep: SweepConfig{
			TestFraction: 0.2,
			MaxEpochs:    100000,
			BatchSize:    32,
			Device:       "cpu",
			LogInterval:  100,
			IWSamplesFit: 1,
			IWSamplesLL:  5000,
			RandomSeed:   1,
		},
		Plot: PlotConfig{
			OutputDir: ".",
			ItemTicks: ItemTicksFromFactors,
			Scree: LabelConfig{
				XLabel: "Number of Factors",
				YLabel: "Predicted Approximate Negative Log-Likelihood",
				Title:  "Approximate Log-Likelihood Scree Plot",
			},
			Loadings: LabelConfig{
				XLabel: "Factor",
				YLabel: "Item",
				Title:  "Factor Loadings",
			},
		},
		Log: LogConfig{
			MaxSize: 100,
		},
	}
}

// Validate checks the configuration against its `validate` tags.
func (config *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	return nil
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [sweep]
	viper.SetDefault("sweep.test_fraction", defaultConfig.Sweep.TestFraction)
	viper.SetDefault("sweep.max_epochs", defaultConfig.Sweep.MaxEpochs)
	viper.SetDefault("sweep.batch_size", defaultConfig.Sweep.BatchSize)
	viper.SetDefault("sweep.device", defaultConfig.Sweep.Device)
	viper.SetDefault("sweep.log_interval", defaultConfig.Sweep.LogInterval)
	viper.SetDefault("sweep.iw_samples_fit", defaultConfig.Sweep.IWSamplesFit)
	viper.SetDefault("sweep.iw_samples_ll", defaultConfig.Sweep.IWSamplesLL)
	viper.SetDefault("sweep.random_seed", defaultConfig.Sweep.RandomSeed)
	viper.SetDefault("sweep.reseed_per_candidate", defaultConfig.Sweep.ReseedPerCandidate)
	viper.SetDefault("sweep.fit_on_train_split", defaultConfig.Sweep.FitOnTrainSplit)
	// [plot]
	viper.SetDefault("plot.output_dir", defaultConfig.Plot.OutputDir)
	viper.SetDefault("plot.show", defaultConfig.Plot.Show)
	viper.SetDefault("plot.item_ticks", defaultConfig.Plot.ItemTicks)
	viper.SetDefault("plot.scree.x_label", defaultConfig.Plot.Scree.XLabel)
	viper.SetDefault("plot.scree.y_label", defaultConfig.Plot.Scree.YLabel)
	viper.SetDefault("plot.scree.title", defaultConfig.Plot.Scree.Title)
	viper.SetDefault("plot.loadings.x_label", defaultConfig.Plot.Loadings.XLabel)
	viper.SetDefault("plot.loadings.y_label", defaultConfig.Plot.Loadings.YLabel)
	viper.SetDefault("plot.loadings.title", defaultConfig.Plot.Loadings.Title)
	// [log]
	viper.SetDefault("log.debug", defaultConfig.Log.Debug)
	viper.SetDefault("log.max_size", defaultConfig.Log.MaxSize)
}

// LoadConfig loads configuration from a TOML, YAML or JSON file. Values may be
// overridden by environment variables such as IRTSCREE_SWEEP_RANDOM_SEED.
func LoadConfig(path string) (*Config, error) {
	viper.Reset()
	setDefault()
	viper.SetEnvPrefix("irtscree")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Annotatef(err, "failed to read config file %s", path)
	}
	var config Config
	if err := viper.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &config, nil
}
