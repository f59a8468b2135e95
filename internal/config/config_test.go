// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSC714725/gifpress/internal/params"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Bind)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, params.ModeRelative, cfg.Defaults.Settings.FrameRate.Mode)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  bind: ":9000"
ffmpeg:
  path: /opt/ffmpeg/bin/ffmpeg
  input_block:
    - '^/proc/'
defaults:
  output_dir: /srv/gifs
  settings:
    frame_rate:
      mode: fixed
      fixed: 15
    diagnostics: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Bind)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, []string{"^/proc/"}, cfg.FFmpeg.InputBlock)
	assert.Equal(t, "/srv/gifs", cfg.Defaults.OutputDir)
	assert.Equal(t, params.ModeFixed, cfg.Defaults.Settings.FrameRate.Mode)
	assert.Equal(t, 15.0, cfg.Defaults.Settings.FrameRate.Fixed)
	// width left empty is backfilled
	assert.Equal(t, params.ModeRelative, cfg.Defaults.Settings.Width.Mode)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n-bad"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
