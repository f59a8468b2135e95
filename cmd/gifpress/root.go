// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package main

import (
	"github.com/spf13/cobra"

	"github.com/ZSC714725/gifpress/internal/config"
)

// commandContext carries the flags shared by every subcommand and loads the
// configuration at most once.
type commandContext struct {
	configFlag *string
	ffmpegFlag *string

	cfg *config.Config
}

func newCommandContext(configFlag, ffmpegFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, ffmpegFlag: ffmpegFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	cfg := config.Default()
	if *c.configFlag != "" {
		var err error
		cfg, err = config.Load(*c.configFlag)
		if err != nil {
			return nil, err
		}
	}
	if *c.ffmpegFlag != "" {
		cfg.FFmpeg.Path = *c.ffmpegFlag
	}

	c.cfg = cfg
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var ffmpegFlag string

	ctx := newCommandContext(&configFlag, &ffmpegFlag)

	rootCmd := &cobra.Command{
		Use:           "gifpress",
		Short:         "Convert video files to GIF with FFmpeg",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&ffmpegFlag, "ffmpeg", "", "FFmpeg binary path")

	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newProbeCommand(ctx))

	return rootCmd
}
