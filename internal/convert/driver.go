// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务
//
// Package convert drives one FFmpeg transcode run at a time through the
// probe -> parameters -> transcode -> classify pipeline, streaming stderr
// incrementally for live progress and diagnostics.

package convert

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ZSC714725/gifpress/internal/classify"
	"github.com/ZSC714725/gifpress/internal/ffmpeg"
	"github.com/ZSC714725/gifpress/internal/joblog"
	"github.com/ZSC714725/gifpress/internal/logger"
	"github.com/ZSC714725/gifpress/internal/params"
	"github.com/ZSC714725/gifpress/internal/probe"
	"github.com/ZSC714725/gifpress/internal/timecode"
)

const (
	binaryMissingMessage = "FFmpeg binary not found."
	startFailureMessage  = "Failed to start FFmpeg."
)

// Config for a Driver
type Config struct {
	FFmpeg        ffmpeg.FFmpeg
	Logger        logger.Logger
	Sink          *joblog.Sink
	OnStateChange func(from, to State)
}

// Driver owns exactly one FFmpeg child process at a time. A second Convert
// while one is active is rejected with ErrConversionActive.
type Driver struct {
	ffmpeg        ffmpeg.FFmpeg
	logger        logger.Logger
	sink          *joblog.Sink
	onStateChange func(from, to State)
	limits        usage

	state struct {
		state    State
		time     time.Time
		reserved bool
		lock     sync.Mutex
	}

	run struct {
		cmd             *exec.Cmd
		cancelRequested bool
		accumulated     strings.Builder
		totalDuration   float64
		progress        float64
		lock            sync.Mutex
	}

	killTimer     *time.Timer
	killTimerLock sync.Mutex
}

// New creates a Driver
func New(config Config) (*Driver, error) {
	if config.FFmpeg == nil {
		return nil, errNoFFmpeg
	}

	d := &Driver{
		ffmpeg:        config.FFmpeg,
		logger:        config.Logger,
		sink:          config.Sink,
		onStateChange: config.OnStateChange,
	}

	if d.logger == nil {
		d.logger = logger.Nop()
	}
	if d.sink == nil {
		d.sink = joblog.New(false)
	}

	d.state.state = StateIdle
	d.state.time = time.Now()

	return d, nil
}

// Sink returns the live diagnostic log of the current run.
func (d *Driver) Sink() *joblog.Sink {
	return d.sink
}

// Reserve claims the driver for an upcoming Convert call, performing the
// same per-run reset Convert would. A Cancel issued after Reserve lands on
// the reserved run instead of being wiped by Convert's own reset, so callers
// that start the run on another goroutine can expose Cancel immediately.
func (d *Driver) Reserve() error {
	if err := d.begin(); err != nil {
		return err
	}
	d.state.lock.Lock()
	d.state.reserved = true
	d.state.lock.Unlock()
	return nil
}

// Convert runs the whole pipeline and blocks until the run resolves.
// Progress is delivered incrementally through onProgress; no callback fires
// after the Outcome is returned. The returned error is non-nil only for a
// rejected concurrent call, every run failure resolves into the Outcome.
func (d *Driver) Convert(ctx context.Context, req Request, onProgress func(float64)) (Outcome, error) {
	d.state.lock.Lock()
	reserved := d.state.reserved
	d.state.reserved = false
	d.state.lock.Unlock()

	if !reserved {
		if err := d.begin(); err != nil {
			return Outcome{}, err
		}
	}

	d.sink.Clear()
	d.sink.SetEnabled(req.Settings.Diagnostics)

	binary, err := d.ffmpeg.Resolve()
	if err != nil {
		return d.resolve(Outcome{State: StateFailed, Message: binaryMissingMessage, Detail: err.Error()}), nil
	}

	// Probing is advisory. A failed probe degrades to fallback metadata
	// instead of failing the run.
	meta, err := probe.Run(ctx, binary, d.ffmpeg.ProbeArgs(req.Input)...)
	if err != nil {
		d.logger.Error("probe of %s failed, using fallback metadata: %v", req.Input, err)
		meta = probe.Fallback()
	}

	if meta.Duration > 0 {
		d.run.lock.Lock()
		d.run.totalDuration = meta.Duration
		d.run.lock.Unlock()
	}

	fps := params.Resolve(req.Settings.FrameRate, meta.FrameRate)
	width := params.Resolve(req.Settings.Width, float64(meta.Width))

	// a Cancel received before this point has no process to signal; it must
	// win here, before anything is spawned
	d.run.lock.Lock()
	cancelRequested := d.run.cancelRequested
	d.run.lock.Unlock()
	if cancelRequested {
		return d.resolve(Outcome{State: StateCancelled}), nil
	}

	d.setState(StateLaunching)
	d.logger.Info("converting %s -> %s (fps=%d width=%d)", req.Input, req.Output, fps, width)

	cmd := exec.Command(binary, d.ffmpeg.ConvertArgs(req.Input, req.Output, fps, width)...)
	cmd.Env = []string{}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return d.resolve(Outcome{State: StateFailed, Message: startFailureMessage, Detail: err.Error()}), nil
	}

	if err := cmd.Start(); err != nil {
		return d.resolve(Outcome{State: StateFailed, Message: startFailureMessage, Detail: err.Error()}), nil
	}

	d.run.lock.Lock()
	d.run.cmd = cmd
	cancelRequested = d.run.cancelRequested
	d.run.lock.Unlock()
	if cancelRequested {
		// a Cancel that raced the launch saw cmd == nil; signal now
		d.Cancel()
	}

	d.limits.Start(cmd.Process.Pid)
	d.setState(StateRunning)

	// a cancelled context behaves like an explicit Cancel
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			d.Cancel()
		case <-watchDone:
		}
	}()

	// Chunks are processed as they arrive, in order, on this goroutine.
	buf := make([]byte, 4096)
	for {
		n, rerr := stderr.Read(buf)
		if n > 0 {
			d.consume(string(buf[:n]), onProgress)
		}
		if rerr != nil {
			break
		}
	}

	werr := cmd.Wait()
	close(watchDone)
	d.limits.Stop()
	d.stopKillTimer()

	d.run.lock.Lock()
	cancelled := d.run.cancelRequested
	detail := d.run.accumulated.String()
	d.run.cmd = nil
	d.run.lock.Unlock()

	switch {
	case cancelled:
		return d.resolve(Outcome{State: StateCancelled, Detail: detail}), nil
	case werr == nil:
		return d.resolve(Outcome{State: StateSucceeded, OutputPath: req.Output}), nil
	default:
		return d.resolve(Outcome{State: StateFailed, Message: classify.Classify(detail), Detail: detail}), nil
	}
}

// Cancel requests termination of the active run. Idempotent, a no-op when
// nothing is running. The run reaches its Cancelled state only after the
// process has actually exited.
func (d *Driver) Cancel() {
	d.run.lock.Lock()
	d.run.cancelRequested = true
	cmd := d.run.cmd
	d.run.lock.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}

	if runtime.GOOS == "windows" {
		cmd.Process.Kill()
		return
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
		return
	}

	// escalate if the interrupt is ignored
	d.killTimerLock.Lock()
	if d.killTimer == nil {
		d.killTimer = time.AfterFunc(5*time.Second, func() {
			cmd.Process.Kill()
		})
	}
	d.killTimerLock.Unlock()
}

// Status returns the current state, progress and child resource usage.
func (d *Driver) Status() Status {
	cpu, memory := d.limits.Current()

	d.state.lock.Lock()
	state := d.state.state
	stateTime := d.state.time
	d.state.lock.Unlock()

	d.run.lock.Lock()
	progress := d.run.progress
	d.run.lock.Unlock()

	return Status{
		State:    state,
		Progress: progress,
		Runtime:  time.Since(stateTime),
		CPU:      cpu,
		Memory:   memory,
	}
}

// begin transitions into a fresh run or rejects a concurrent one.
func (d *Driver) begin() error {
	d.state.lock.Lock()
	if d.state.state.IsActive() {
		d.state.lock.Unlock()
		return ErrConversionActive
	}
	prev := d.state.state
	d.state.state = StateProbing
	d.state.time = time.Now()
	d.state.lock.Unlock()

	if d.onStateChange != nil {
		go d.onStateChange(prev, StateProbing)
	}

	d.run.lock.Lock()
	d.run.cancelRequested = false
	d.run.accumulated.Reset()
	d.run.totalDuration = 0
	d.run.progress = 0
	d.run.lock.Unlock()

	return nil
}

func (d *Driver) setState(next State) {
	d.state.lock.Lock()
	prev := d.state.state
	d.state.state = next
	d.state.time = time.Now()
	d.state.lock.Unlock()

	if d.onStateChange != nil {
		go d.onStateChange(prev, next)
	}
}

// resolve enters a terminal state. Process resources are already released
// by the time this runs.
func (d *Driver) resolve(outcome Outcome) Outcome {
	d.setState(outcome.State)

	switch outcome.State {
	case StateSucceeded:
		d.logger.Info("conversion finished: %s", outcome.OutputPath)
	case StateCancelled:
		d.logger.Info("conversion cancelled")
	default:
		d.logger.Error("conversion failed: %s", outcome.Message)
	}

	return outcome
}

// consume processes one stderr chunk: accumulate, lazily fill the total
// duration from the cumulative text, derive progress from this chunk and
// record the log lines.
func (d *Driver) consume(chunk string, onProgress func(float64)) {
	d.run.lock.Lock()

	d.run.accumulated.WriteString(chunk)
	if d.run.totalDuration == 0 {
		if total, ok := timecode.FirstDuration(d.run.accumulated.String()); ok {
			d.run.totalDuration = total
		}
	}

	publish := -1.0
	if cur, ok := timecode.LastTime(chunk); ok && d.run.totalDuration > 0 {
		p := cur / d.run.totalDuration
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}
		// progress never regresses within a run
		if p > d.run.progress {
			d.run.progress = p
			publish = p
		}
	}
	d.run.lock.Unlock()

	if publish >= 0 && onProgress != nil {
		onProgress(publish)
	}

	for _, line := range splitLines(chunk) {
		d.sink.Append(line)
	}
}

func (d *Driver) stopKillTimer() {
	d.killTimerLock.Lock()
	if d.killTimer != nil {
		d.killTimer.Stop()
		d.killTimer = nil
	}
	d.killTimerLock.Unlock()
}

func splitLines(chunk string) []string {
	return strings.FieldsFunc(chunk, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
}
