// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package job manages conversion jobs in memory. The store owns a single
// transcode driver, so jobs run strictly one at a time; submitting a job
// while one is active is rejected, not queued.

package job

import (
	"context"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/ZSC714725/gifpress/internal/convert"
	"github.com/ZSC714725/gifpress/internal/ffmpeg"
	"github.com/ZSC714725/gifpress/internal/joblog"
	"github.com/ZSC714725/gifpress/internal/logger"
	"github.com/ZSC714725/gifpress/internal/outpath"
	"github.com/ZSC714725/gifpress/internal/params"
)

// Request to create a job. Output is resolved to a collision-free path in
// OutputDir (falling back to the store default, then the input's own
// directory).
type Request struct {
	Input     string          `json:"input"`
	OutputDir string          `json:"output_dir"`
	Settings  params.Settings `json:"settings"`
}

// Job is one conversion run, kept in memory until deleted.
type Job struct {
	ID        string          `json:"id"`
	Input     string          `json:"input"`
	Output    string          `json:"output"`
	Settings  params.Settings `json:"settings"`
	CreatedAt int64           `json:"created_at"`

	mu         sync.RWMutex
	state      convert.State
	progress   float64
	outcome    *convert.Outcome
	report     []joblog.Entry
	resolvedAt int64
}

func (j *Job) setState(state convert.State) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.outcome == nil {
		j.state = state
	}
}

func (j *Job) setProgress(p float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress = p
}

func (j *Job) resolveWith(outcome convert.Outcome, report []joblog.Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = outcome.State
	j.outcome = &outcome
	j.report = report
	j.resolvedAt = time.Now().Unix()
}

func (j *Job) resolved() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.outcome != nil
}

// Snapshot is a point-in-time view of a job for API consumers.
type Snapshot struct {
	ID         string           `json:"id"`
	Input      string           `json:"input"`
	Output     string           `json:"output"`
	Settings   params.Settings  `json:"settings"`
	CreatedAt  int64            `json:"created_at"`
	ResolvedAt int64            `json:"resolved_at,omitempty"`
	State      convert.State    `json:"state"`
	Progress   float64          `json:"progress"`
	CPU        float64          `json:"cpu_usage"`
	Memory     uint64           `json:"memory_bytes"`
	Outcome    *convert.Outcome `json:"outcome,omitempty"`
}

// Store manages jobs
type Store interface {
	Add(req Request) (Snapshot, error)
	Get(id string) (Snapshot, error)
	List() []Snapshot
	Report(id string) ([]joblog.Entry, error)
	Cancel(id string) error
	Delete(id string) error
}

// StoreConfig for NewStore
type StoreConfig struct {
	FFmpeg    ffmpeg.FFmpeg
	Logger    logger.Logger
	OutputDir string
}

type store struct {
	driver    *convert.Driver
	ffmpeg    ffmpeg.FFmpeg
	logger    logger.Logger
	outputDir string

	mu     sync.RWMutex
	jobs   map[string]*Job
	order  []string
	active string
}

// NewStore creates a Store with its own driver.
func NewStore(config StoreConfig) (Store, error) {
	s := &store{
		ffmpeg:    config.FFmpeg,
		logger:    config.Logger,
		outputDir: config.OutputDir,
		jobs:      make(map[string]*Job),
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}

	driver, err := convert.New(convert.Config{
		FFmpeg:        config.FFmpeg,
		Logger:        s.logger,
		Sink:          joblog.New(true),
		OnStateChange: s.onStateChange,
	})
	if err != nil {
		return nil, err
	}
	s.driver = driver

	return s, nil
}

func (s *store) onStateChange(from, to convert.State) {
	s.mu.RLock()
	j := s.jobs[s.active]
	s.mu.RUnlock()
	if j == nil {
		return
	}
	s.logger.Info("job %s state %s -> %s", j.ID, from, to)
	// terminal states are set by resolveWith together with the outcome
	if !to.IsTerminal() {
		j.setState(to)
	}
}

func (s *store) Add(req Request) (Snapshot, error) {
	if req.Input == "" {
		return Snapshot{}, ErrNoInput
	}
	if !s.ffmpeg.ValidateInput(req.Input) {
		return Snapshot{}, ErrInvalidInput
	}

	outDir := req.OutputDir
	if outDir == "" {
		outDir = s.outputDir
	}
	output := outpath.Unique(req.Input, outDir)
	if !s.ffmpeg.ValidateOutput(output) {
		return Snapshot{}, ErrInvalidOutput
	}

	s.mu.Lock()
	if s.active != "" {
		s.mu.Unlock()
		return Snapshot{}, convert.ErrConversionActive
	}

	// reserve before returning so a Cancel issued right after Add always
	// lands on this run rather than racing the run goroutine's startup
	if err := s.driver.Reserve(); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}

	j := &Job{
		ID:        shortuuid.New(),
		Input:     req.Input,
		Output:    output,
		Settings:  req.Settings,
		CreatedAt: time.Now().Unix(),
		state:     convert.StateIdle,
	}
	s.jobs[j.ID] = j
	s.order = append(s.order, j.ID)
	s.active = j.ID
	s.mu.Unlock()

	go s.run(j)

	return s.snapshot(j, true), nil
}

func (s *store) run(j *Job) {
	outcome, err := s.driver.Convert(context.Background(), convert.Request{
		Input:    j.Input,
		Output:   j.Output,
		Settings: j.Settings,
	}, j.setProgress)
	if err != nil {
		// the store serializes submissions, so this is unreachable unless
		// the driver is shared
		s.logger.Error("job %s rejected by driver: %v", j.ID, err)
		outcome = convert.Outcome{State: convert.StateFailed, Message: err.Error()}
	}

	j.resolveWith(outcome, s.driver.Sink().Snapshot())

	s.mu.Lock()
	if s.active == j.ID {
		s.active = ""
	}
	s.mu.Unlock()
}

func (s *store) Get(id string) (Snapshot, error) {
	s.mu.RLock()
	j, ok := s.jobs[id]
	active := s.active == id
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return s.snapshot(j, active), nil
}

func (s *store) List() []Snapshot {
	s.mu.RLock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	active := s.active
	s.mu.RUnlock()

	out := make([]Snapshot, 0, len(ids))
	for _, id := range ids {
		s.mu.RLock()
		j := s.jobs[id]
		s.mu.RUnlock()
		if j == nil {
			continue
		}
		out = append(out, s.snapshot(j, id == active))
	}
	return out
}

// Report returns the diagnostic transcript: the live sink while the job is
// running, the captured copy afterwards.
func (s *store) Report(id string) ([]joblog.Entry, error) {
	s.mu.RLock()
	j, ok := s.jobs[id]
	active := s.active == id
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if active {
		return s.driver.Sink().Snapshot(), nil
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]joblog.Entry, len(j.report))
	copy(out, j.report)
	return out, nil
}

// Cancel requests cancellation of an active job; calling it on a resolved
// job is a no-op.
func (s *store) Cancel(id string) error {
	s.mu.RLock()
	j, ok := s.jobs[id]
	active := s.active == id
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if !active || j.resolved() {
		return nil
	}
	s.driver.Cancel()
	return nil
}

func (s *store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return ErrNotFound
	}
	if s.active == id {
		return ErrJobActive
	}

	delete(s.jobs, id)
	for i, jid := range s.order {
		if jid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *store) snapshot(j *Job, active bool) Snapshot {
	j.mu.RLock()
	snap := Snapshot{
		ID:         j.ID,
		Input:      j.Input,
		Output:     j.Output,
		Settings:   j.Settings,
		CreatedAt:  j.CreatedAt,
		ResolvedAt: j.resolvedAt,
		State:      j.state,
		Progress:   j.progress,
		Outcome:    j.outcome,
	}
	j.mu.RUnlock()

	if active {
		status := s.driver.Status()
		snap.State = status.State
		snap.Progress = status.Progress
		snap.CPU = status.CPU
		snap.Memory = status.Memory
	}
	return snap
}
