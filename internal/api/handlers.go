// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZSC714725/gifpress/internal/convert"
	"github.com/ZSC714725/gifpress/internal/ffmpeg"
	"github.com/ZSC714725/gifpress/internal/ffmpeg/skills"
	"github.com/ZSC714725/gifpress/internal/job"
	"github.com/ZSC714725/gifpress/internal/params"
)

// Handler holds dependencies
type Handler struct {
	store    job.Store
	ffmpeg   ffmpeg.FFmpeg
	defaults params.Settings
}

// NewHandler creates API handler
func NewHandler(store job.Store, ff ffmpeg.FFmpeg, defaults params.Settings) *Handler {
	return &Handler{store: store, ffmpeg: ff, defaults: defaults}
}

// Register mounts all routes under group
func (h *Handler) Register(group *gin.RouterGroup) {
	group.POST("/convert", h.AddJob)
	group.GET("/jobs", h.ListJobs)
	group.GET("/jobs/:id", h.GetJob)
	group.GET("/jobs/:id/report", h.GetReport)
	group.POST("/jobs/:id/cancel", h.CancelJob)
	group.DELETE("/jobs/:id", h.DeleteJob)
	group.GET("/skills", h.Skills)
	group.POST("/skills/reload", h.ReloadSkills)
}

func errResp(c *gin.Context, code int, msg, detail string) {
	c.JSON(code, ErrorResponse{Code: code, Message: msg, Detail: detail})
}

// AddJob POST /api/v1/convert
func (h *Handler) AddJob(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	settings := h.defaults
	if req.FrameRate != nil {
		settings.FrameRate = toSetting(*req.FrameRate)
	}
	if req.Width != nil {
		settings.Width = toSetting(*req.Width)
	}
	if req.Diagnostics != nil {
		settings.Diagnostics = *req.Diagnostics
	}

	snap, err := h.store.Add(job.Request{
		Input:     req.Input,
		OutputDir: req.OutputDir,
		Settings:  settings,
	})
	if err != nil {
		switch {
		case errors.Is(err, convert.ErrConversionActive):
			errResp(c, http.StatusConflict, "A conversion is already active", err.Error())
		case errors.Is(err, job.ErrNoInput), errors.Is(err, job.ErrInvalidInput), errors.Is(err, job.ErrInvalidOutput):
			errResp(c, http.StatusBadRequest, "Invalid path", err.Error())
		default:
			errResp(c, http.StatusBadRequest, "Invalid request", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, snap)
}

// ListJobs GET /api/v1/jobs
func (h *Handler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// GetJob GET /api/v1/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	snap, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetReport GET /api/v1/jobs/:id/report
func (h *Handler) GetReport(c *gin.Context) {
	id := c.Param("id")
	entries, err := h.store.Report(id)
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}

	report := JobReport{JobID: id, Log: make([][2]string, len(entries))}
	for i, e := range entries {
		report.Log[i] = [2]string{
			e.Timestamp.Format("2006-01-02 15:04:05.000"),
			e.Data,
		}
	}
	c.JSON(http.StatusOK, report)
}

// CancelJob POST /api/v1/jobs/:id/cancel
func (h *Handler) CancelJob(c *gin.Context) {
	if err := h.store.Cancel(c.Param("id")); err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.JSON(http.StatusOK, "OK")
}

// DeleteJob DELETE /api/v1/jobs/:id
func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		if errors.Is(err, job.ErrJobActive) {
			errResp(c, http.StatusConflict, "Job is still active", err.Error())
			return
		}
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.JSON(http.StatusOK, "OK")
}

// Skills GET /api/v1/skills
func (h *Handler) Skills(c *gin.Context) {
	sk, err := h.ffmpeg.Skills()
	if err != nil {
		errResp(c, http.StatusServiceUnavailable, "FFmpeg unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, skillsToAPI(sk))
}

// ReloadSkills POST /api/v1/skills/reload
func (h *Handler) ReloadSkills(c *gin.Context) {
	if err := h.ffmpeg.ReloadSkills(); err != nil {
		errResp(c, http.StatusServiceUnavailable, "Reload failed", err.Error())
		return
	}
	sk, err := h.ffmpeg.Skills()
	if err != nil {
		errResp(c, http.StatusServiceUnavailable, "FFmpeg unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, skillsToAPI(sk))
}

func toSetting(req SettingRequest) params.Setting {
	return params.Setting{
		Mode:       params.Mode(req.Mode),
		Fixed:      req.Fixed,
		Multiplier: req.Multiplier,
	}
}

func skillsToAPI(sk skills.Skills) SkillsResponse {
	resp := SkillsResponse{
		Version:        sk.FFmpeg.Version,
		Filters:        make([]string, 0, len(sk.Filters)),
		Muxers:         make([]string, 0, len(sk.Muxers)),
		MissingFilters: sk.Missing(ffmpeg.RequiredFilters),
	}
	for _, f := range sk.Filters {
		resp.Filters = append(resp.Filters, f.Id)
	}
	for _, m := range sk.Muxers {
		resp.Muxers = append(resp.Muxers, m.Id)
	}
	return resp
}
