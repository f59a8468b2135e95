// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package ffmpeg fronts the external FFmpeg binary: argv construction for
// probe and convert runs, path validation and capability detection.

package ffmpeg

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/ZSC714725/gifpress/internal/ffmpeg/skills"
)

// FFmpeg manages the FFmpeg binary and its detected skills
type FFmpeg interface {
	Resolve() (string, error)
	ProbeArgs(input string) []string
	ConvertArgs(input, output string, fps, width int) []string
	ValidateInput(path string) bool
	ValidateOutput(path string) bool
	Skills() (skills.Skills, error)
	ReloadSkills() error
}

// Config for FFmpeg
type Config struct {
	Binary          string
	ValidatorInput  Validator
	ValidatorOutput Validator
}

type ffmpeg struct {
	binary       string
	validatorIn  Validator
	validatorOut Validator

	skills     skills.Skills
	skillsOK   bool
	skillsLock sync.RWMutex
}

// New creates FFmpeg. The binary is resolved per run, not here, so a
// missing installation surfaces as a run failure instead of a boot failure.
func New(config Config) (FFmpeg, error) {
	if len(config.Binary) == 0 {
		return nil, fmt.Errorf("no ffmpeg binary given")
	}

	f := &ffmpeg{
		binary: config.Binary,
	}

	if config.ValidatorInput != nil {
		f.validatorIn = config.ValidatorInput
	} else {
		f.validatorIn, _ = NewValidator(nil, nil)
	}
	if config.ValidatorOutput != nil {
		f.validatorOut = config.ValidatorOutput
	} else {
		f.validatorOut, _ = NewValidator(nil, nil)
	}

	return f, nil
}

// Resolve looks up the binary in PATH.
func (f *ffmpeg) Resolve() (string, error) {
	binary, err := exec.LookPath(f.binary)
	if err != nil {
		return "", fmt.Errorf("ffmpeg binary not found: %w", err)
	}
	return binary, nil
}

// ProbeArgs builds the inspection invocation. No output file is given, so
// FFmpeg exits non-zero by design while still emitting the stream-info
// block on stderr.
func (f *ffmpeg) ProbeArgs(input string) []string {
	return []string{"-i", input}
}

// ConvertArgs builds the transcode invocation.
func (f *ffmpeg) ConvertArgs(input, output string, fps, width int) []string {
	return []string{"-i", input, "-vf", Filter(fps, width), "-y", output}
}

// Filter builds the GIF filter expression: uniform frame-rate resampling,
// Lanczos width scaling with derived height, then a split feeding a one-pass
// global palette generator and a palette-mapped re-encode. The two-pass
// palette avoids the banding a single-pass encode produces.
func Filter(fps, width int) string {
	return fmt.Sprintf("fps=%d,scale=%d:-1:flags=lanczos,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse", fps, width)
}

// RequiredFilters must be present for the GIF pipeline to work.
var RequiredFilters = []string{"fps", "scale", "split", "palettegen", "paletteuse"}

func (f *ffmpeg) ValidateInput(path string) bool {
	return f.validatorIn.IsValid(path)
}

func (f *ffmpeg) ValidateOutput(path string) bool {
	return f.validatorOut.IsValid(path)
}

// Skills returns the detected capabilities, loading them on first use.
func (f *ffmpeg) Skills() (skills.Skills, error) {
	f.skillsLock.RLock()
	if f.skillsOK {
		defer f.skillsLock.RUnlock()
		return f.skills, nil
	}
	f.skillsLock.RUnlock()

	if err := f.ReloadSkills(); err != nil {
		return skills.Skills{}, err
	}

	f.skillsLock.RLock()
	defer f.skillsLock.RUnlock()
	return f.skills, nil
}

// ReloadSkills re-detects capabilities, e.g. after an FFmpeg upgrade.
func (f *ffmpeg) ReloadSkills() error {
	binary, err := f.Resolve()
	if err != nil {
		return err
	}

	s, err := skills.New(binary)
	if err != nil {
		return fmt.Errorf("reload skills: %w", err)
	}

	f.skillsLock.Lock()
	f.skills = s
	f.skillsOK = true
	f.skillsLock.Unlock()
	return nil
}
