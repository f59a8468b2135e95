// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ZSC714725/gifpress/internal/convert"
	"github.com/ZSC714725/gifpress/internal/ffmpeg"
	"github.com/ZSC714725/gifpress/internal/logger"
	"github.com/ZSC714725/gifpress/internal/outpath"
	"github.com/ZSC714725/gifpress/internal/params"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var output string
	var outputDir string
	var fps float64
	var fpsScale float64
	var width float64
	var widthScale float64
	var quiet bool

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a video file to an animated GIF",
		Long: `Convert a video file to an animated GIF using a two-pass palette.

By default frame rate and width follow the source. Use --fps / --width for
fixed values or --fps-scale / --width-scale for values relative to the source.

Examples:
  gifpress convert clip.mp4
  gifpress convert clip.mp4 -o clip-small.gif --fps 10 --width 480
  gifpress convert clip.mp4 --fps-scale 0.5 --width-scale 0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			input := args[0]

			settings := cfg.Defaults.Settings
			settings.FrameRate = settingFromFlags(cmd, "fps", fps, "fps-scale", fpsScale, settings.FrameRate)
			settings.Width = settingFromFlags(cmd, "width", width, "width-scale", widthScale, settings.Width)
			settings.Diagnostics = !quiet

			if output == "" {
				if outputDir == "" {
					outputDir = cfg.Defaults.OutputDir
				}
				output = outpath.Unique(input, outputDir)
			}

			ff, err := ffmpeg.New(ffmpeg.Config{Binary: cfg.FFmpeg.Path})
			if err != nil {
				return err
			}
			driver, err := convert.New(convert.Config{
				FFmpeg: ff,
				Logger: logger.Nop(),
			})
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			onProgress := func(p float64) {
				if !quiet {
					fmt.Fprintf(os.Stderr, "\rconverting... %3.0f%%", p*100)
				}
			}

			outcome, err := driver.Convert(runCtx, convert.Request{
				Input:    input,
				Output:   output,
				Settings: settings,
			}, onProgress)
			if !quiet {
				fmt.Fprintln(os.Stderr)
			}
			if err != nil {
				return err
			}

			switch outcome.State {
			case convert.StateSucceeded:
				fmt.Println(outcome.OutputPath)
				return nil
			case convert.StateCancelled:
				return fmt.Errorf("conversion cancelled")
			default:
				if !quiet && outcome.Detail != "" {
					fmt.Fprintln(os.Stderr, outcome.Detail)
				}
				return fmt.Errorf("%s", outcome.Message)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output GIF path")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the generated GIF")
	cmd.Flags().Float64Var(&fps, "fps", 0, "Fixed output frame rate")
	cmd.Flags().Float64Var(&fpsScale, "fps-scale", 0, "Frame rate as a multiple of the source")
	cmd.Flags().Float64Var(&width, "width", 0, "Fixed output width in pixels")
	cmd.Flags().Float64Var(&widthScale, "width-scale", 0, "Width as a multiple of the source")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress and diagnostics")
	cmd.MarkFlagsMutuallyExclusive("fps", "fps-scale")
	cmd.MarkFlagsMutuallyExclusive("width", "width-scale")
	cmd.MarkFlagsMutuallyExclusive("output", "output-dir")

	return cmd
}

// settingFromFlags maps the fixed/relative flag pair onto one axis. A flag
// that was not set on the command line leaves the configured default alone.
func settingFromFlags(cmd *cobra.Command, fixedName string, fixed float64, scaleName string, scale float64, fallback params.Setting) params.Setting {
	if cmd.Flags().Changed(fixedName) {
		return params.Setting{Mode: params.ModeFixed, Fixed: fixed}
	}
	if cmd.Flags().Changed(scaleName) {
		return params.Setting{Mode: params.ModeRelative, Multiplier: scale}
	}
	return fallback
}
