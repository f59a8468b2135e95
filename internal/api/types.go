// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package api

// SettingRequest is one conversion axis in API format
type SettingRequest struct {
	Mode       string  `json:"mode" binding:"required,oneof=fixed relative"`
	Fixed      float64 `json:"fixed"`
	Multiplier float64 `json:"multiplier"`
}

// ConvertRequest for POST /convert. Omitted settings fall back to the
// server defaults.
type ConvertRequest struct {
	Input       string          `json:"input" binding:"required"`
	OutputDir   string          `json:"output_dir"`
	FrameRate   *SettingRequest `json:"frame_rate"`
	Width       *SettingRequest `json:"width"`
	Diagnostics *bool           `json:"diagnostics"`
}

// JobReport carries the diagnostic transcript of a run
type JobReport struct {
	JobID string      `json:"job_id"`
	Log   [][2]string `json:"log"`
}

// SkillsResponse describes the detected FFmpeg capabilities
type SkillsResponse struct {
	Version        string   `json:"version"`
	Filters        []string `json:"filters"`
	Muxers         []string `json:"muxers"`
	MissingFilters []string `json:"missing_filters,omitempty"`
}

// ErrorResponse for API errors
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
