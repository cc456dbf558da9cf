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

package plots

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorse-io/irtscree/base"
	"github.com/gorse-io/irtscree/config"
	"github.com/gorse-io/irtscree/dataset"
	"github.com/gorse-io/irtscree/model"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/recorder"
)

func testPlotConfig(t *testing.T) *config.PlotConfig {
	cfg := config.GetDefaultConfig().Plot
	cfg.OutputDir = t.TempDir()
	return &cfg
}

func assertPDF(t *testing.T, path string) {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func tickLabels(ticks []plot.Tick) []string {
	return lo.FilterMap(ticks, func(tick plot.Tick, _ int) (string, bool) {
		return tick.Label, tick.Label != ""
	})
}

func TestScreePoints(t *testing.T) {
	scores := []float64{-1200.5, -1100.25, -1098.125}
	xys := ScreePoints([]int{1, 2, 3}, scores)
	assert.Len(t, xys, 3)
	for i := range xys {
		assert.Equal(t, float64(i+1), xys[i].X)
		assert.Equal(t, scores[i], xys[i].Y)
	}
}

func TestNewScreePlot(t *testing.T) {
	labels := config.GetDefaultConfig().Plot.Scree
	p, err := NewScreePlot([]int{1, 2, 3}, []float64{-3, -2, -1.5}, labels)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.X.Min)
	assert.Equal(t, 4.0, p.X.Max)
	ticks := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, tickLabels(ticks))
	assert.Equal(t, "Number of Factors", p.X.Label.Text)
	assert.Equal(t, "Approximate Log-Likelihood Scree Plot", p.Title.Text)

	_, err = NewScreePlot(nil, nil, labels)
	assert.True(t, errors.Is(err, errors.NotValid))
	_, err = NewScreePlot([]int{1, 2}, []float64{1}, labels)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestSaveScreePlot(t *testing.T) {
	cfg := testPlotConfig(t)
	path, err := SaveScreePlot([]int{1, 2, 3}, []float64{-3, -2, -1.5}, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, ScreePlotFile), path)
	assertPDF(t, path)
	// overwrite
	_, err = SaveScreePlot([]int{2, 4}, []float64{-3, -2}, cfg)
	require.NoError(t, err)
	assertPDF(t, path)
}

func TestNewLoadingsHeatmap(t *testing.T) {
	loadings := mat.NewDense(10, 2, nil)
	for i := 0; i < 10; i++ {
		loadings.Set(i, i%2, 0.1*float64(i+1))
	}
	labels := config.GetDefaultConfig().Plot.Loadings
	heat, bar, err := NewLoadingsHeatmap(loadings, labels, config.ItemTicksFromFactors)
	require.NoError(t, err)
	require.NotNil(t, bar)

	xTicks := heat.X.Tick.Marker.Ticks(heat.X.Min, heat.X.Max)
	assert.Equal(t, []string{"1", "2"}, tickLabels(xTicks))
	assert.Equal(t, []float64{0.5, 1.5}, lo.Map(xTicks, func(tick plot.Tick, _ int) float64 { return tick.Value }))
	yTicks := heat.Y.Tick.Marker.Ticks(heat.Y.Min, heat.Y.Max)
	assert.Equal(t, []string{"10", "20"}, tickLabels(yTicks))
	assert.Equal(t, []float64{9.5, 19.5}, lo.Map(yTicks, func(tick plot.Tick, _ int) float64 { return tick.Value }))
	assert.IsType(t, plot.InvertedScale{}, heat.Y.Scale)
	assert.Equal(t, 20.0, heat.Y.Max)
	assert.Equal(t, 2.0, heat.X.Max)
	assert.Equal(t, "Factor Loadings", heat.Title.Text)

	heat, _, err = NewLoadingsHeatmap(loadings, labels, config.ItemTicksFromItems)
	require.NoError(t, err)
	yTicks = heat.Y.Tick.Marker.Ticks(heat.Y.Min, heat.Y.Max)
	assert.Equal(t, []string{"10"}, tickLabels(yTicks))
}

func TestNewLoadingsHeatmapDegenerate(t *testing.T) {
	labels := config.GetDefaultConfig().Plot.Loadings
	_, _, err := NewLoadingsHeatmap(nil, labels, config.ItemTicksFromFactors)
	assert.True(t, errors.Is(err, errors.NotValid))
	_, _, err = NewLoadingsHeatmap(&mat.Dense{}, labels, config.ItemTicksFromFactors)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestItemTicks(t *testing.T) {
	assert.Equal(t, []string{"10", "20", "30"}, tickLabels(itemTicks(25, 3, config.ItemTicksFromFactors)))
	assert.Equal(t, []string{"10", "20"}, tickLabels(itemTicks(25, 3, config.ItemTicksFromItems)))
	assert.Equal(t, []string{"1", "2", "3"}, tickLabels(itemTicks(3, 1, config.ItemTicksFromItems)))
}

func TestSaveLoadingsHeatmap(t *testing.T) {
	cfg := testPlotConfig(t)
	loadings := mat.NewDense(20, 3, nil)
	for i := 0; i < 20; i++ {
		loadings.Set(i, i%3, -0.5)
	}
	path, err := SaveLoadingsHeatmap(loadings, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, LoadingsHeatmapFile), path)
	assertPDF(t, path)
}

func TestGrayScale(t *testing.T) {
	g, err := newGrayScale(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.Min())
	assert.Equal(t, 2.0, g.Max())
	assertGray := func(expected uint32, c color.Color) {
		r, gg, b, a := c.RGBA()
		assert.InDelta(t, expected, r, 0x200)
		assert.InDelta(t, expected, gg, 0x200)
		assert.InDelta(t, expected, b, 0x200)
		assert.Equal(t, uint32(0xffff), a)
	}
	c, err := g.At(0)
	require.NoError(t, err)
	assertGray(0xffff, c)
	c, err = g.At(2)
	require.NoError(t, err)
	assertGray(0, c)
	_, err = g.At(-1)
	assert.Equal(t, palette.ErrUnderflow, err)
	_, err = g.At(3)
	assert.Equal(t, palette.ErrOverflow, err)

	colors := g.Palette(3).Colors()
	assert.Len(t, colors, 3)
	assertGray(0xffff, colors[0])
	assertGray(0, colors[2])
}

// drawnLabels renders p and returns every string written to the canvas.
func drawnLabels(p *plot.Plot) []string {
	var rec recorder.Canvas
	p.Draw(draw.NewCanvas(&rec, 6*vg.Inch, 6*vg.Inch))
	var labels []string
	for _, action := range rec.Actions {
		if text, ok := action.(*recorder.FillString); ok {
			labels = append(labels, text.String)
		}
	}
	return labels
}

func TestLoadingsHeatmapDrawnTicks(t *testing.T) {
	loadings := mat.NewDense(10, 2, nil)
	for i := 0; i < 10; i++ {
		loadings.Set(i, i%2, 0.1*float64(i+1))
	}
	labels := config.GetDefaultConfig().Plot.Loadings
	heat, _, err := NewLoadingsHeatmap(loadings, labels, config.ItemTicksFromFactors)
	require.NoError(t, err)
	assert.Equal(t, 20.0, heat.Y.Max)
	drawn := drawnLabels(heat)
	assert.Subset(t, drawn, []string{"1", "2", "10", "20"})

	heat, _, err = NewLoadingsHeatmap(loadings, labels, config.ItemTicksFromItems)
	require.NoError(t, err)
	assert.Equal(t, 10.0, heat.Y.Max)
	drawn = drawnLabels(heat)
	assert.Contains(t, drawn, "10")
	assert.NotContains(t, drawn, "20")
}

type mockFactorModel struct {
	loadings mat.Matrix
}

func (m *mockFactorModel) Fit(context.Context, *dataset.ResponseMatrix, *dataset.MissingMask, *model.FitConfig, base.RandomGenerator) error {
	return nil
}

func (m *mockFactorModel) LogLikelihood(context.Context, *dataset.ResponseMatrix, int) (float64, error) {
	return 0, nil
}

func (m *mockFactorModel) Loadings() mat.Matrix {
	return m.loadings
}

func TestSaveFactorModelLoadings(t *testing.T) {
	cfg := testPlotConfig(t)
	m := &mockFactorModel{loadings: mat.NewDense(4, 2, []float64{
		0.9, 0.1,
		0.8, 0.0,
		0.1, 0.7,
		0.0, 0.6,
	})}
	path, err := SaveFactorModelLoadings(m, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, LoadingsHeatmapFile), path)
	assertPDF(t, path)

	_, err = SaveFactorModelLoadings(&mockFactorModel{loadings: &mat.Dense{}}, cfg)
	assert.True(t, errors.Is(err, errors.NotValid))
}
