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

// Package plots renders the diagnostic figures of a model-selection sweep.
package plots

import (
	"image/color"
	"strconv"

	"github.com/gorse-io/irtscree/base/log"
	"github.com/gorse-io/irtscree/config"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	ScreePlotFile = "scree_plot.pdf"
	screePlotSize = 5 * vg.Inch
)

// ScreePoints pairs every factor count with its score, in the given order.
func ScreePoints(nFactors []int, scores []float64) plotter.XYs {
	n := min(len(nFactors), len(scores))
	xys := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		xys[i].X = float64(nFactors[i])
		xys[i].Y = scores[i]
	}
	return xys
}

// NewScreePlot draws scores against factor counts. The x axis spans one unit beyond
// the factor counts on each side with a tick at every integer.
func NewScreePlot(nFactors []int, scores []float64, labels config.LabelConfig) (*plot.Plot, error) {
	if len(nFactors) == 0 {
		return nil, errors.NotValidf("empty candidate set")
	}
	if len(nFactors) != len(scores) {
		return nil, errors.NotValidf("%d factor counts with %d scores", len(nFactors), len(scores))
	}
	p := plot.New()
	p.Title.Text = labels.Title
	p.X.Label.Text = labels.XLabel
	p.Y.Label.Text = labels.YLabel

	line, points, err := plotter.NewLinePoints(ScreePoints(nFactors, scores))
	if err != nil {
		return nil, errors.Trace(err)
	}
	line.Color = color.Black
	points.Shape = draw.CircleGlyph{}
	points.Color = color.Black
	points.Radius = vg.Points(3)
	p.Add(line, points)

	low, high := lo.Min(nFactors)-1, lo.Max(nFactors)+1
	p.X.Min, p.X.Max = float64(low), float64(high)
	p.X.Tick.Marker = plot.ConstantTicks(lo.Map(lo.RangeFrom(low, high-low+1), func(v int, _ int) plot.Tick {
		return plot.Tick{Value: float64(v), Label: strconv.Itoa(v)}
	}))
	return p, nil
}

// SaveScreePlot writes the scree plot to scree_plot.pdf in the configured output
// directory, replacing any existing file, and returns its path.
func SaveScreePlot(nFactors []int, scores []float64, cfg *config.PlotConfig) (string, error) {
	p, err := NewScreePlot(nFactors, scores, cfg.Scree)
	if err != nil {
		return "", errors.Trace(err)
	}
	path, err := savePDF(cfg.OutputDir, ScreePlotFile, screePlotSize, screePlotSize, p.Draw)
	if err != nil {
		return "", errors.Trace(err)
	}
	log.Logger().Info("save scree plot", zap.String("path", path), zap.Int("n_points", len(scores)))
	if cfg.Show {
		show(path)
	}
	return path, nil
}
