// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// GIFPress - FFmpeg GIF 转换服务

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSC714725/gifpress/internal/convert"
	"github.com/ZSC714725/gifpress/internal/ffmpeg"
	"github.com/ZSC714725/gifpress/internal/job"
	"github.com/ZSC714725/gifpress/internal/params"
)

func writeStub(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts need a POSIX shell")
	}

	script := `#!/bin/sh
PATH=/bin:/usr/bin
export PATH
for a do out="$a"; done
case "$*" in
*-vf*)
echo "frame= 125 fps=25 time=00:00:05.00 speed=1x" >&2
: > "$out"
exit 0
;;
*)
echo "  Duration: 00:00:10.00, start: 0.000000" >&2
echo "  Stream #0:0: Video: h264, 1280x720, 25 fps" >&2
exit 1
;;
esac
`
	path := filepath.Join(t.TempDir(), "ffmpeg-stub")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newTestRouter(t *testing.T, binary string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ff, err := ffmpeg.New(ffmpeg.Config{Binary: binary})
	require.NoError(t, err)
	store, err := job.NewStore(job.StoreConfig{FFmpeg: ff})
	require.NoError(t, err)

	handler := NewHandler(store, ff, params.Default())
	r := gin.New()
	handler.Register(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddJobValidation(t *testing.T) {
	r := newTestRouter(t, "ffmpeg")

	w := do(r, http.MethodPost, "/api/v1/convert", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/convert", `{"input": "/in.mp4", "frame_rate": {"mode": "bogus"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownJobRoutes(t *testing.T) {
	r := newTestRouter(t, "ffmpeg")

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/jobs/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/jobs/nope/report", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/v1/jobs/nope/cancel", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/v1/jobs/nope", "").Code)
}

func TestConvertLifecycle(t *testing.T) {
	r := newTestRouter(t, writeStub(t))
	outDir := t.TempDir()

	body := `{"input": "/in/clip.mp4", "output_dir": "` + outDir + `", "frame_rate": {"mode": "fixed", "fixed": 15}}`
	w := do(r, http.MethodPost, "/api/v1/convert", body)
	require.Equal(t, http.StatusOK, w.Code)

	var snap job.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.NotEmpty(t, snap.ID)
	assert.Equal(t, filepath.Join(outDir, "clip.gif"), snap.Output)

	deadline := time.Now().Add(10 * time.Second)
	for {
		w = do(r, http.MethodGet, "/api/v1/jobs/"+snap.ID, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
		if snap.State.IsTerminal() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("job never resolved")
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, convert.StateSucceeded, snap.State)
	require.NotNil(t, snap.Outcome)
	assert.FileExists(t, snap.Outcome.OutputPath)

	w = do(r, http.MethodGet, "/api/v1/jobs/"+snap.ID+"/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	var report JobReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.NotEmpty(t, report.Log)

	w = do(r, http.MethodGet, "/api/v1/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []job.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/v1/jobs/"+snap.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/jobs/"+snap.ID, "").Code)
}
