// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const versionOutput = `ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers
built with Apple clang version 15.0.0 (clang-1500.1.0.2.5)
configuration: --prefix=/opt/homebrew --enable-gpl
libavutil      58. 29.100 / 58. 29.100
libavcodec     60. 31.102 / 60. 31.102
`

const filtersOutput = ` Filters:
  T.. = Timeline support
 ... fps               V->V       Force constant framerate.
 ... scale             V->V       Scale the input video size and/or convert the image format.
 ... split             V->N       Pass on the input to N video outputs.
 .S. palettegen        V->V       Find the optimal palette for a given stream.
 .S. paletteuse        VV->V      Use a palette to downsample an input video stream.
`

const formatsOutput = `File formats:
 D. = Demuxing supported
 .E = Muxing supported
 --
 D  matroska,webm    Matroska / WebM
  E gif              CIF (Graphics Interchange Format)
 DE mov,mp4,m4a      QuickTime / MOV
 D  mpegts           MPEG-TS (MPEG-2 Transport Stream)
`

func TestParseVersion(t *testing.T) {
	info := parseVersion([]byte(versionOutput))
	assert.Equal(t, "6.1.1", info.Version)
	assert.Contains(t, info.Compiler, "clang")
	assert.Contains(t, info.Configuration, "--enable-gpl")
	assert.Len(t, info.Libraries, 2)
	assert.Equal(t, "libavutil", info.Libraries[0].Name)
}

func TestParseVersionTwoDigit(t *testing.T) {
	info := parseVersion([]byte("ffmpeg version 7.0 Copyright\n"))
	assert.Equal(t, "7.0.0", info.Version)
}

func TestParseFilters(t *testing.T) {
	filters := parseFilters([]byte(filtersOutput))
	assert.Len(t, filters, 5)

	s := Skills{Filters: filters}
	assert.True(t, s.HasFilter("palettegen"))
	assert.True(t, s.HasFilter("paletteuse"))
	assert.False(t, s.HasFilter("overlay"))
	assert.Empty(t, s.Missing([]string{"fps", "scale", "split", "palettegen", "paletteuse"}))
	assert.Equal(t, []string{"overlay"}, s.Missing([]string{"overlay", "fps"}))
}

func TestParseMuxers(t *testing.T) {
	muxers := parseMuxers([]byte(formatsOutput))

	s := Skills{Muxers: muxers}
	assert.True(t, s.HasMuxer("gif"))
	assert.True(t, s.HasMuxer("mov"))
	assert.False(t, s.HasMuxer("matroska"))
	assert.False(t, s.HasMuxer("mpegts"))
}
