// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package timecode extracts HH:MM:SS.ff timecodes from FFmpeg stderr text.

package timecode

import (
	"regexp"
	"strconv"
)

var (
	reDuration = regexp.MustCompile(`Duration:\s*([0-9]+):([0-9]{2}):([0-9]{2})\.([0-9]+)`)
	reTime     = regexp.MustCompile(`time=\s*([0-9]+):([0-9]{2}):([0-9]{2})\.([0-9]+)`)
)

// seconds converts submatches [h mm ss frac] to seconds
func seconds(m []string) float64 {
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])

	frac := 0.0
	if len(m) > 4 && len(m[4]) > 0 {
		if x, err := strconv.ParseUint(m[4], 10, 64); err == nil {
			div := 1.0
			for range m[4] {
				div *= 10
			}
			frac = float64(x) / div
		}
	}
	return float64(h*3600+mm*60+s) + frac
}

// FirstDuration returns the first "Duration: HH:MM:SS.ff" found in text.
// FFmpeg emits it once near process start, so the cumulative blob is fine.
func FirstDuration(text string) (float64, bool) {
	m := reDuration.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return seconds(m), true
}

// LastTime returns the last "time=HH:MM:SS.ff" token in text. Later chunks
// carry later timestamps, only the most recent one matters. No assumption is
// made about line boundaries.
func LastTime(text string) (float64, bool) {
	all := reTime.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return 0, false
	}
	return seconds(all[len(all)-1]), true
}
