// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package skills detects the capabilities of an FFmpeg installation that
// the GIF pipeline depends on: filters and muxers.

package skills

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Filter represents a supported filter
type Filter struct {
	Id   string
	Name string
}

// Muxer represents a supported output format
type Muxer struct {
	Id   string
	Name string
}

// Library represents a linked av library
type Library struct {
	Name     string
	Compiled string
	Linked   string
}

type ffmpegInfo struct {
	Version       string
	Compiler      string
	Configuration string
	Libraries     []Library
}

// Skills are the detected capabilities of FFmpeg
type Skills struct {
	FFmpeg  ffmpegInfo
	Filters []Filter
	Muxers  []Muxer
}

// New returns the skills of the FFmpeg at binary
func New(binary string) (Skills, error) {
	c := Skills{}

	ff, err := getVersion(binary)
	if ff.Version == "" || err != nil {
		if err != nil {
			return Skills{}, fmt.Errorf("can't parse ffmpeg version: %w", err)
		}
		return Skills{}, fmt.Errorf("can't parse ffmpeg version")
	}
	c.FFmpeg = ff

	c.Filters = getFilters(binary)
	c.Muxers = getMuxers(binary)

	return c, nil
}

// HasFilter reports whether a filter is available.
func (s Skills) HasFilter(id string) bool {
	for _, f := range s.Filters {
		if f.Id == id {
			return true
		}
	}
	return false
}

// HasMuxer reports whether an output format is available.
func (s Skills) HasMuxer(id string) bool {
	for _, m := range s.Muxers {
		if m.Id == id {
			return true
		}
	}
	return false
}

// Missing returns the subset of filters not provided by this FFmpeg.
func (s Skills) Missing(filters []string) []string {
	var missing []string
	for _, id := range filters {
		if !s.HasFilter(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

func getVersion(binary string) (ffmpegInfo, error) {
	cmd := exec.Command(binary, "-version")
	cmd.Env = []string{}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return ffmpegInfo{}, err
	}
	return parseVersion(out), nil
}

func parseVersion(data []byte) ffmpegInfo {
	f := ffmpegInfo{}
	reVersion := regexp.MustCompile(`^ffmpeg version ([0-9]+\.[0-9]+(\.[0-9]+)?)`)
	reCompiler := regexp.MustCompile(`(?m)^\s*built with (.*)$`)
	reConfiguration := regexp.MustCompile(`(?m)^\s*configuration: (.*)$`)
	reLibrary := regexp.MustCompile(`(?m)^\s*(lib(?:[a-z]+))\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+) /\s+([0-9]+\.\s*[0-9]+\.\s*[0-9]+)`)

	if m := reVersion.FindSubmatch(data); m != nil {
		f.Version = string(m[1])
		if len(m[2]) == 0 {
			f.Version += ".0"
		}
	}
	if m := reCompiler.FindSubmatch(data); m != nil {
		f.Compiler = string(m[1])
	}
	if m := reConfiguration.FindSubmatch(data); m != nil {
		f.Configuration = string(m[1])
	}
	for _, m := range reLibrary.FindAllSubmatch(data, -1) {
		f.Libraries = append(f.Libraries, Library{
			Name:     string(m[1]),
			Compiled: string(m[2]),
			Linked:   string(m[3]),
		})
	}
	return f
}

func getFilters(binary string) []Filter {
	cmd := exec.Command(binary, "-filters")
	cmd.Env = []string{}
	stdout, _ := cmd.Output()
	return parseFilters(stdout)
}

func parseFilters(data []byte) []Filter {
	var filters []Filter
	re := regexp.MustCompile(`^\s[TSC.]{3} ([0-9A-Za-z_]+)\s+(?:.*?)\s+(.*)?$`)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if m := re.FindStringSubmatch(line); m != nil {
			filters = append(filters, Filter{Id: m[1], Name: m[2]})
		}
	}
	return filters
}

func getMuxers(binary string) []Muxer {
	cmd := exec.Command(binary, "-formats")
	cmd.Env = []string{}
	stdout, _ := cmd.Output()
	return parseMuxers(stdout)
}

// parseMuxers keeps only the muxer side ("E") of -formats output.
func parseMuxers(data []byte) []Muxer {
	var muxers []Muxer
	re := regexp.MustCompile(`^\s([D ])([E ]) ([0-9A-Za-z_,]+)\s+(.*?)$`)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		m := re.FindStringSubmatch(line)
		if m == nil || m[2] != "E" {
			continue
		}
		id := strings.Split(m[3], ",")[0]
		muxers = append(muxers, Muxer{Id: id, Name: m[4]})
	}
	return muxers
}
