// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSC714725/gifpress/internal/params"
)

func writeStub(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts need a POSIX shell")
	}

	script := `#!/bin/sh
PATH=/bin:/usr/bin
export PATH
for a do out="$a"; done
case "$*" in
*-vf*)
echo "frame= 100 fps=25 time=00:00:04.00 speed=1x" >&2
: > "$out"
exit 0
;;
*)
echo "  Duration: 00:00:08.00, start: 0.000000" >&2
echo "  Stream #0:0: Video: h264, 1920x1080, 30 fps" >&2
exit 1
;;
esac
`
	path := filepath.Join(t.TempDir(), "ffmpeg-stub")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["convert"])
	assert.True(t, names["probe"])
}

func TestSettingFromFlags(t *testing.T) {
	ctx := newCommandContext(new(string), new(string))
	cmd := newConvertCommand(ctx)
	require.NoError(t, cmd.Flags().Set("fps", "12"))

	got := settingFromFlags(cmd, "fps", 12, "fps-scale", 0, params.Default().FrameRate)
	assert.Equal(t, params.ModeFixed, got.Mode)
	assert.Equal(t, 12.0, got.Fixed)

	// untouched axis keeps the configured default
	got = settingFromFlags(cmd, "width", 0, "width-scale", 0, params.Default().Width)
	assert.Equal(t, params.ModeRelative, got.Mode)
	assert.Equal(t, 1.0, got.Multiplier)
}

func TestConvertCommandEndToEnd(t *testing.T) {
	stub := writeStub(t)
	output := filepath.Join(t.TempDir(), "clip.gif")

	root := newRootCommand()
	root.SetArgs([]string{
		"convert", "/in/clip.mp4",
		"--ffmpeg", stub,
		"-o", output,
		"--fps", "10",
		"--quiet",
	})

	require.NoError(t, root.Execute())
	assert.FileExists(t, output)
}

func TestConvertCommandFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts need a POSIX shell")
	}

	script := `#!/bin/sh
PATH=/bin:/usr/bin
export PATH
echo "/in/clip.mp4: No such file or directory" >&2
exit 1
`
	stub := filepath.Join(t.TempDir(), "ffmpeg-stub")
	require.NoError(t, os.WriteFile(stub, []byte(script), 0o755))

	root := newRootCommand()
	root.SetArgs([]string{
		"convert", "/in/clip.mp4",
		"--ffmpeg", stub,
		"-o", filepath.Join(t.TempDir(), "clip.gif"),
		"--quiet",
	})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Input file not found")
}
