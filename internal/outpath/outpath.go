// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package outpath resolves collision-free .gif output paths.

package outpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxAttempts = 1000

// Unique returns an output path "<stem>.gif" next to inputPath, or inside
// targetDir when given. On collision " (n)" is appended before the
// extension, n counting up from 1. Past 1000 attempts a timestamp suffix
// guarantees termination.
func Unique(inputPath, targetDir string) string {
	dir := targetDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}

	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	candidate := filepath.Join(dir, stem+".gif")
	if !exists(candidate) {
		return candidate
	}

	for n := 1; n <= maxAttempts; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d).gif", stem, n))
		if !exists(candidate) {
			return candidate
		}
	}

	return filepath.Join(dir, fmt.Sprintf("%s-%d.gif", stem, time.Now().UnixNano()))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
