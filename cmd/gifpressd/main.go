// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package main

import (
	"flag"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ZSC714725/gifpress/internal/api"
	"github.com/ZSC714725/gifpress/internal/config"
	"github.com/ZSC714725/gifpress/internal/ffmpeg"
	"github.com/ZSC714725/gifpress/internal/job"
	"github.com/ZSC714725/gifpress/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	bind := flag.String("bind", "", "Bind address (overrides config)")
	ffmpegBin := flag.String("ffmpeg", "", "FFmpeg binary path (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Load config: %v", err)
		}
	}

	bindAddr := cfg.Server.Bind
	if *bind != "" {
		bindAddr = *bind
	}
	ffmpegPath := cfg.FFmpeg.Path
	if *ffmpegBin != "" {
		ffmpegPath = *ffmpegBin
	}

	logger := logger.New("gifpressd")

	validatorIn, err := ffmpeg.NewValidator(cfg.FFmpeg.InputAllow, cfg.FFmpeg.InputBlock)
	if err != nil {
		log.Fatalf("Input validator: %v", err)
	}
	validatorOut, err := ffmpeg.NewValidator(cfg.FFmpeg.OutputAllow, cfg.FFmpeg.OutputBlock)
	if err != nil {
		log.Fatalf("Output validator: %v", err)
	}

	ff, err := ffmpeg.New(ffmpeg.Config{
		Binary:          ffmpegPath,
		ValidatorInput:  validatorIn,
		ValidatorOutput: validatorOut,
	})
	if err != nil {
		log.Fatalf("FFmpeg init: %v", err)
	}

	// capability check is advisory, a missing binary surfaces per run
	if sk, err := ff.Skills(); err != nil {
		logger.Error("ffmpeg not available: %v", err)
	} else {
		if missing := sk.Missing(ffmpeg.RequiredFilters); len(missing) > 0 {
			logger.Error("ffmpeg is missing filters needed for GIF encoding: %v", missing)
		}
		if !sk.HasMuxer("gif") {
			logger.Error("ffmpeg has no gif muxer, conversions will fail")
		}
		logger.Info("ffmpeg %s ready", sk.FFmpeg.Version)
	}

	store, err := job.NewStore(job.StoreConfig{
		FFmpeg:    ff,
		Logger:    logger,
		OutputDir: cfg.Defaults.OutputDir,
	})
	if err != nil {
		log.Fatalf("Job store: %v", err)
	}

	handler := api.NewHandler(store, ff, cfg.Defaults.Settings)

	r := gin.Default()
	r.Use(gin.Recovery(), cors.Default())
	handler.Register(r.Group("/api/v1"))

	log.Printf("GIFPress listening on %s", bindAddr)
	if err := r.Run(bindAddr); err != nil {
		log.Fatalf("Server: %v", err)
	}
}
