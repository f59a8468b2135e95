// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZSC714725/gifpress/internal/ffmpeg"
	"github.com/ZSC714725/gifpress/internal/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <input>",
		Short: "Show the source metadata FFmpeg reports for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			ff, err := ffmpeg.New(ffmpeg.Config{Binary: cfg.FFmpeg.Path})
			if err != nil {
				return err
			}
			binary, err := ff.Resolve()
			if err != nil {
				return err
			}

			meta, err := probe.Run(cmd.Context(), binary, ff.ProbeArgs(args[0])...)
			if err != nil {
				return err
			}

			fmt.Printf("resolution: %dx%d\n", meta.Width, meta.Height)
			fmt.Printf("frame rate: %g fps\n", meta.FrameRate)
			fmt.Printf("duration:   %.2f s\n", meta.Duration)
			return nil
		},
	}
	return cmd
}
