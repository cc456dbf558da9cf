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

package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorse-io/irtscree/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	defer CloseLogger()
	path := filepath.Join(t.TempDir(), "irtscree.log")
	SetLogger(config.LogConfig{Path: path, MaxSize: 1})
	Logger().Info("hello from test")
	_ = Logger().Sync()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello from test"))
	// production encoder writes JSON lines
	assert.True(t, strings.HasPrefix(string(data), "{"))
}

func TestSetDebugLogger(t *testing.T) {
	defer CloseLogger()
	path := filepath.Join(t.TempDir(), "irtscree.log")
	SetLogger(config.LogConfig{Debug: true, Path: path, MaxSize: 1})
	Logger().Debug("debug record")
	_ = Logger().Sync()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debug record")
	assert.Contains(t, string(data), "DEBUG")
}

func TestCloseLogger(t *testing.T) {
	CloseLogger()
	assert.False(t, Logger().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Logger().Core().Enabled(zapcore.FatalLevel))
}

func TestReplaceLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := ReplaceLogger(zap.New(core))
	Logger().Info("observed")
	restore()
	Logger().Info("not observed")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("observed").Len())
	assert.NotNil(t, Logger())
}
