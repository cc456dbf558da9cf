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
	"os"
	"path/filepath"

	"github.com/gorse-io/irtscree/base/log"
	"github.com/juju/errors"
	"github.com/skratchdot/open-golang/open"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
)

// savePDF renders a single page of the given size into dir/name and returns the path.
func savePDF(dir, name string, width, height vg.Length, render func(c draw.Canvas)) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", errors.Trace(err)
	}
	path := filepath.Join(dir, name)
	canvas := vgpdf.New(width, height)
	render(draw.New(canvas))
	file, err := os.Create(path)
	if err != nil {
		return "", errors.Trace(err)
	}
	if _, err = canvas.WriteTo(file); err != nil {
		_ = file.Close()
		return "", errors.Annotatef(err, "failed to write %s", path)
	}
	if err = file.Close(); err != nil {
		return "", errors.Trace(err)
	}
	return path, nil
}

// show opens a rendered figure with the system viewer.
func show(path string) {
	if err := open.Start(path); err != nil {
		log.Logger().Warn("failed to open figure", zap.String("path", path), zap.Error(err))
	}
}
