// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package job

import "errors"

var (
	ErrNotFound      = errors.New("job not found")
	ErrJobActive     = errors.New("job is still active")
	ErrNoInput       = errors.New("no input path given")
	ErrInvalidInput  = errors.New("input path not allowed")
	ErrInvalidOutput = errors.New("output path not allowed")
)
