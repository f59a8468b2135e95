// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "missing input",
			text: "header\n/tmp/in.mp4: No such file or directory\ntrailer",
			want: "Input file not found.",
		},
		{
			name: "missing input wins over other content",
			text: "some error line\nNo such file or directory\nPermission denied",
			want: "Input file not found.",
		},
		{
			name: "corrupt input",
			text: "[mov] Invalid data found when processing input",
			want: "The input file appears to be corrupted or in an unsupported format.",
		},
		{
			name: "permission",
			text: "/out/clip.gif: Permission denied",
			want: "Permission denied. Cannot access the file.",
		},
		{
			name: "overwrite prompt",
			text: "File '/out/clip.gif' already exists. Overwrite? [y/N] Not overwriting - exiting",
			want: "Output file already exists.",
		},
		{
			name: "last error line",
			text: "Error parsing options\nframe=1\nConversion error: something broke  \nframe=2",
			want: "Conversion error: something broke",
		},
		{
			name: "error match is case-insensitive",
			text: "frame=1\nERROR while decoding stream\nframe=2",
			want: "ERROR while decoding stream",
		},
		{
			name: "fallback",
			text: "frame=  100 fps=25 time=00:00:04.00\nframe=  200",
			want: FallbackMessage,
		},
		{
			name: "empty input",
			text: "",
			want: FallbackMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}
