// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package convert

import (
	"time"

	"github.com/ZSC714725/gifpress/internal/params"
)

// Request is the immutable per-run input.
type Request struct {
	Input    string          `json:"input"`
	Output   string          `json:"output"`
	Settings params.Settings `json:"settings"`
}

// State of the driver
type State string

const (
	StateIdle      State = "idle"
	StateProbing   State = "probing"
	StateLaunching State = "launching"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

func (s State) String() string { return string(s) }

// IsActive reports whether a run is in flight.
func (s State) IsActive() bool {
	return s == StateProbing || s == StateLaunching || s == StateRunning
}

// IsTerminal reports whether the state resolves a run.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// Outcome is the terminal result of one run, produced exactly once. Detail
// always carries the full accumulated stderr transcript so a failure can be
// diagnosed without re-running.
type Outcome struct {
	State      State  `json:"state"`
	OutputPath string `json:"output_path,omitempty"`
	Message    string `json:"message,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Status is a point-in-time view of the driver.
type Status struct {
	State    State         `json:"state"`
	Progress float64       `json:"progress"`
	Runtime  time.Duration `json:"-"`
	CPU      float64       `json:"cpu_usage"`
	Memory   uint64        `json:"memory_bytes"`
}
