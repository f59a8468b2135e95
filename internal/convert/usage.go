// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package convert

import (
	"sync"

	gopsutilprocess "github.com/shirou/gopsutil/v3/process"
)

// usage 使用 gopsutil 采集转码进程的 CPU 和内存
type usage struct {
	mu   sync.RWMutex
	proc *gopsutilprocess.Process
}

func (u *usage) Start(pid int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	proc, err := gopsutilprocess.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	u.proc = proc
	return nil
}

func (u *usage) Stop() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.proc = nil
}

func (u *usage) Current() (cpu float64, memory uint64) {
	u.mu.RLock()
	proc := u.proc
	u.mu.RUnlock()
	if proc == nil {
		return 0, 0
	}
	if cpuPct, err := proc.CPUPercent(); err == nil {
		cpu = cpuPct
	}
	if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
		memory = memInfo.RSS
	}
	return cpu, memory
}
