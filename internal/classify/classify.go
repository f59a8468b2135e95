// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package classify maps raw FFmpeg stderr text to a short user-facing
// failure message. This is a best-effort heuristic over unstructured text,
// not a structured error protocol; false positives and negatives happen.

package classify

import "strings"

// FallbackMessage is returned when no pattern matches.
const FallbackMessage = "Conversion failed. Check the details for more information."

type rule struct {
	substr  string
	message string
}

// 规则有序，先命中先返回
var rules = []rule{
	{"No such file or directory", "Input file not found."},
	{"Invalid data found", "The input file appears to be corrupted or in an unsupported format."},
	{"Permission denied", "Permission denied. Cannot access the file."},
	{"already exists. Overwrite?", "Output file already exists."},
}

// Classify returns a user-facing message for the given diagnostic text.
func Classify(text string) string {
	for _, r := range rules {
		if strings.Contains(text, r.substr) {
			return r.message
		}
	}

	// Fall back to the last line mentioning an error, scanned backwards.
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(lines[i]), "error") {
			if line := strings.TrimSpace(lines[i]); line != "" {
				return line
			}
		}
	}

	return FallbackMessage
}
