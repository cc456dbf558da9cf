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
	"image/color"
	"strconv"

	"github.com/gorse-io/irtscree/base/log"
	"github.com/gorse-io/irtscree/config"
	"github.com/gorse-io/irtscree/model"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	LoadingsHeatmapFile = "loadings_heatmap.pdf"

	heatmapWidth   = 6.4 * vg.Inch
	heatmapHeight  = 4.8 * vg.Inch
	colorBarWidth  = 1.2 * vg.Inch
	paletteColors  = 255
	itemTickStride = 10
)

// newGrayScale maps low to white and high to black.
func newGrayScale(low, high float64) (palette.ColorMap, error) {
	luminance, err := moreland.NewLuminance([]color.Color{color.Black, color.White})
	if err != nil {
		return nil, err
	}
	colorMap := palette.Reverse(luminance)
	colorMap.SetMin(low)
	colorMap.SetMax(high)
	return colorMap, nil
}

// loadingsGrid lays factors out along x and items along y, one unit cell per loading.
type loadingsGrid struct {
	loadings mat.Matrix
}

func (g loadingsGrid) Dims() (c, r int) {
	r, c = g.loadings.Dims()
	return c, r
}

func (g loadingsGrid) Z(c, r int) float64 {
	return g.loadings.At(r, c)
}

func (g loadingsGrid) X(c int) float64 {
	return float64(c) + 0.5
}

func (g loadingsGrid) Y(r int) float64 {
	return float64(r) + 0.5
}

// itemTicks labels items 10, 20, ... at the centre of their rows. With the factors
// rule there is one tick per factor; with the items rule ticks run up to the item
// count (every item is labeled when there are fewer than ten).
func itemTicks(numItems, numFactors int, rule string) []plot.Tick {
	var values []int
	switch rule {
	case config.ItemTicksFromItems:
		stride := itemTickStride
		if numItems < itemTickStride {
			stride = 1
		}
		for v := stride; v <= numItems; v += stride {
			values = append(values, v)
		}
	default:
		for i := 0; i < numFactors; i++ {
			values = append(values, itemTickStride*(i+1))
		}
	}
	return lo.Map(values, func(v int, _ int) plot.Tick {
		return plot.Tick{Value: float64(v) - 0.5, Label: strconv.Itoa(v)}
	})
}

func factorTicks(numFactors int) []plot.Tick {
	return lo.Map(lo.Range(numFactors), func(i int, _ int) plot.Tick {
		return plot.Tick{Value: float64(i) + 0.5, Label: strconv.Itoa(i + 1)}
	})
}

// NewLoadingsHeatmap draws sign-normalized loadings as a reversed grayscale heatmap
// and returns it together with its color bar.
func NewLoadingsHeatmap(loadings mat.Matrix, labels config.LabelConfig, tickRule string) (heat, bar *plot.Plot, err error) {
	if loadings == nil {
		return nil, nil, errors.NotValidf("nil loadings")
	}
	numItems, numFactors := loadings.Dims()
	if numItems == 0 || numFactors == 0 {
		return nil, nil, errors.NotValidf("loadings of shape %dx%d", numItems, numFactors)
	}
	inverted := model.InvertFactors(loadings)
	high := mat.Max(inverted)
	if high <= 0 {
		high = 1
	}
	colorMap, err := newGrayScale(0, high)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	heat = plot.New()
	heat.Title.Text = labels.Title
	heat.X.Label.Text = labels.XLabel
	heat.Y.Label.Text = labels.YLabel
	heatMap := plotter.NewHeatMap(loadingsGrid{loadings: inverted}, colorMap.Palette(paletteColors))
	heatMap.Min, heatMap.Max = 0, high
	heatMap.Underflow = color.White
	heatMap.Overflow = color.Black
	heat.Add(heatMap)
	// cell borders
	for c := 0; c <= numFactors; c++ {
		if err = addGridLine(heat, float64(c), 0, float64(c), float64(numItems)); err != nil {
			return nil, nil, errors.Trace(err)
		}
	}
	for r := 0; r <= numItems; r++ {
		if err = addGridLine(heat, 0, float64(r), float64(numFactors), float64(r)); err != nil {
			return nil, nil, errors.Trace(err)
		}
	}
	heat.X.Min, heat.X.Max = 0, float64(numFactors)
	// with the factors rule ticks may lie past the last item
	heat.Y.Min, heat.Y.Max = 0, float64(numItems)
	if tickRule != config.ItemTicksFromItems {
		heat.Y.Max = float64(max(numItems, itemTickStride*numFactors))
	}
	heat.X.Tick.Marker = plot.ConstantTicks(factorTicks(numFactors))
	heat.Y.Tick.Marker = plot.ConstantTicks(itemTicks(numItems, numFactors, tickRule))
	heat.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	bar = plot.New()
	bar.HideX()
	bar.Y.Padding = heat.Y.Padding
	bar.Add(&plotter.ColorBar{ColorMap: colorMap, Vertical: true, Colors: paletteColors})
	return heat, bar, nil
}

func addGridLine(p *plot.Plot, x0, y0, x1, y1 float64) error {
	line, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return err
	}
	line.Color = color.White
	line.Width = vg.Points(1)
	p.Add(line)
	return nil
}

// SaveFactorModelLoadings renders the loadings of a fitted model with SaveLoadingsHeatmap.
func SaveFactorModelLoadings(m model.FactorModel, cfg *config.PlotConfig) (string, error) {
	path, err := SaveLoadingsHeatmap(m.Loadings(), cfg)
	if err != nil {
		return "", errors.Trace(err)
	}
	return path, nil
}

// SaveLoadingsHeatmap renders loadings to loadings_heatmap.pdf in the configured
// output directory and returns its path. The figure is opened when cfg.Show is set.
func SaveLoadingsHeatmap(loadings mat.Matrix, cfg *config.PlotConfig) (string, error) {
	heat, bar, err := NewLoadingsHeatmap(loadings, cfg.Loadings, cfg.ItemTicks)
	if err != nil {
		return "", errors.Trace(err)
	}
	path, err := savePDF(cfg.OutputDir, LoadingsHeatmapFile, heatmapWidth, heatmapHeight, func(c draw.Canvas) {
		heat.Draw(draw.Crop(c, 0, -colorBarWidth, 0, 0))
		bar.Draw(draw.Crop(c, heatmapWidth-colorBarWidth, 0, 0, 0))
	})
	if err != nil {
		return "", errors.Trace(err)
	}
	numItems, numFactors := loadings.Dims()
	log.Logger().Info("save loadings heatmap", zap.String("path", path),
		zap.Int("n_items", numItems), zap.Int("n_factors", numFactors))
	if cfg.Show {
		show(path)
	}
	return path, nil
}
