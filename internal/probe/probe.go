// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package probe learns source media properties from a quick, output-less
// FFmpeg invocation. "ffmpeg -i <input>" exits non-zero by design (no
// output file given) but still writes the stream-info block to stderr.

package probe

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/ZSC714725/gifpress/internal/timecode"
)

// Fallback values used when a field can't be parsed or probing fails
// entirely. Duration 0 means unknown.
const (
	FallbackWidth     = 996
	FallbackHeight    = 712
	FallbackFrameRate = 25.0
)

// Metadata are the probed facts about a source file.
type Metadata struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frame_rate"`
	Duration  float64 `json:"duration_seconds"`
}

// Fallback returns the metadata used when probing yields nothing.
func Fallback() Metadata {
	return Metadata{
		Width:     FallbackWidth,
		Height:    FallbackHeight,
		FrameRate: FallbackFrameRate,
	}
}

var (
	reResolution = regexp.MustCompile(`([0-9]{2,5})x([0-9]{2,5})`)
	reFrameRate  = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*fps`)
)

// Run executes a probe invocation of the FFmpeg at binary, with the argv
// built by the caller. Unlike the transcode run this blocks until process
// exit and parses the captured stderr in one go. A process that can't be
// launched at all is an error; a launched process with unparsable output
// just degrades to fallback values.
func Run(ctx context.Context, binary string, args ...string) (Metadata, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = []string{}

	// The probe exits with status 1, so the error is only meaningful when
	// there is no output to parse.
	out, err := cmd.CombinedOutput()
	if len(out) == 0 {
		if err != nil {
			return Metadata{}, fmt.Errorf("probe with %s: %w", binary, err)
		}
		return Metadata{}, fmt.Errorf("probe with %s: no diagnostic output", binary)
	}

	return Parse(string(out)), nil
}

// Parse extracts resolution, frame rate and duration from the diagnostic
// text. Fields that can't be located keep their fallback values.
func Parse(text string) Metadata {
	meta := Fallback()

	if m := reResolution.FindStringSubmatch(text); m != nil {
		if w, err := strconv.Atoi(m[1]); err == nil && w > 0 {
			if h, err := strconv.Atoi(m[2]); err == nil && h > 0 {
				meta.Width = w
				meta.Height = h
			}
		}
	}

	if m := reFrameRate.FindStringSubmatch(text); m != nil {
		if fps, err := strconv.ParseFloat(m[1], 64); err == nil && fps > 0 {
			meta.FrameRate = fps
		}
	}

	if d, ok := timecode.FirstDuration(text); ok {
		meta.Duration = d
	}

	return meta
}
