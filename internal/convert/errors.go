// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package convert

import "errors"

// ErrConversionActive is returned when Convert is called while a run is in
// flight. A second run is rejected, never queued or cancel-and-replaced.
var ErrConversionActive = errors.New("a conversion is already active")

var errNoFFmpeg = errors.New("no ffmpeg given")
