// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package params turns user-chosen frame-rate/width settings plus probed
// source metadata into concrete FFmpeg filter parameters.

package params

import "math"

// Mode selects how a target value is derived.
type Mode string

const (
	// ModeFixed uses the configured value as-is.
	ModeFixed Mode = "fixed"
	// ModeRelative scales the probed source value by a multiplier.
	ModeRelative Mode = "relative"
)

// Setting is one axis (frame rate or width) of a settings snapshot.
type Setting struct {
	Mode       Mode    `json:"mode" yaml:"mode"`
	Fixed      float64 `json:"fixed" yaml:"fixed"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// Settings is the immutable per-run snapshot captured before launch.
// UI surfaces expose presets (10/15/20/25/30/60 fps, 320..1920 px,
// 0.25x-2x multipliers) but any positive value is accepted here.
type Settings struct {
	FrameRate   Setting `json:"frame_rate" yaml:"frame_rate"`
	Width       Setting `json:"width" yaml:"width"`
	Diagnostics bool    `json:"diagnostics" yaml:"diagnostics"`
}

// Default returns a relative 1:1 snapshot with diagnostics enabled.
func Default() Settings {
	return Settings{
		FrameRate:   Setting{Mode: ModeRelative, Multiplier: 1.0},
		Width:       Setting{Mode: ModeRelative, Multiplier: 1.0},
		Diagnostics: true,
	}
}

// Resolve computes the target value for one axis given the probed original.
// Fixed mode ignores the original; relative mode scales it. The result is
// rounded to the nearest integer and never below 1.
func Resolve(s Setting, original float64) int {
	var v float64
	switch s.Mode {
	case ModeFixed:
		v = s.Fixed
	default:
		v = original * s.Multiplier
	}

	n := int(math.Round(v))
	if n < 1 {
		n = 1
	}
	return n
}
