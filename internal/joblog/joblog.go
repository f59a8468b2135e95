// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package joblog is the live diagnostic log of a conversion run: an
// append-only, timestamped record of every stderr line, readable while the
// run is still in progress.

package joblog

import (
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// Entry is one timestamped stderr line.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Data      string    `json:"data"`
}

// Sink collects entries in arrival order. The driver is the only writer;
// any number of readers may snapshot concurrently.
type Sink struct {
	mu      sync.RWMutex
	enabled bool
	entries []Entry
}

// New creates a Sink. When enabled is false nothing is recorded.
func New(enabled bool) *Sink {
	return &Sink{enabled: enabled}
}

// SetEnabled switches recording on or off for subsequent appends.
func (s *Sink) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// Enabled reports whether appends are recorded.
func (s *Sink) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// Append records one line. Empty lines and appends while disabled are
// dropped.
func (s *Sink) Append(line string) {
	if line == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.entries = append(s.entries, Entry{
		ID:        shortuuid.New(),
		Timestamp: time.Now(),
		Data:      line,
	})
}

// Snapshot returns a stable copy of all entries in arrival order.
func (s *Sink) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Count returns the number of recorded entries.
func (s *Sink) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear drops all entries. Called at the start of the next run or by
// explicit operator action.
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
