// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package joblog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendOrderAndIdentity(t *testing.T) {
	s := New(true)
	s.Append("first")
	s.Append("")
	s.Append("second")

	entries := s.Snapshot()
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, "first", entries[0].Data)
	assert.Equal(t, "second", entries[1].Data)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.False(t, entries[0].Timestamp.After(entries[1].Timestamp))
}

func TestDisabledRecordsNothing(t *testing.T) {
	s := New(false)
	s.Append("dropped")
	assert.Equal(t, 0, s.Count())

	s.SetEnabled(true)
	s.Append("kept")
	assert.Equal(t, 1, s.Count())
}

func TestClear(t *testing.T) {
	s := New(true)
	s.Append("a")
	s.Append("b")
	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Snapshot())
}

func TestSnapshotStableDuringAppends(t *testing.T) {
	s := New(true)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			s.Append(fmt.Sprintf("line %d", i))
		}
	}()

	for i := 0; i < 100; i++ {
		snap := s.Snapshot()
		// arrival order, no gaps or duplicates
		for j, e := range snap {
			assert.Equal(t, fmt.Sprintf("line %d", j), e.Data)
		}
	}
	wg.Wait()

	assert.Equal(t, 500, s.Count())
}
