package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nvr-ai/go-pest/config"
	"github.com/nvr-ai/go-pest/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runJSON(t *testing.T, args ...string) map[string]interface{} {
	t.Helper()
	var stdout, stderr bytes.Buffer
	run(append([]string{"go-pest"}, args...), &stdout, &stderr)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out), "stdout: %s", stdout.String())
	return out
}

func TestRunMissingArgument(t *testing.T) {
	out := runJSON(t)
	assert.Equal(t, errMissingImage.Error(), out["error"])
}

func TestRunNonexistentPath(t *testing.T) {
	dir := t.TempDir()
	out := runJSON(t,
		"-m", filepath.Join(dir, "best.onnx"),
		filepath.Join(dir, "missing.jpg"),
	)
	assert.Contains(t, out, "error")
	assert.NotEmpty(t, out["error"])
}

func TestRunBadConfig(t *testing.T) {
	out := runJSON(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "leaf.jpg")
	assert.Contains(t, out["error"], "failed to read config")
}

func TestRunBadFlag(t *testing.T) {
	out := runJSON(t, "--confidence", "high", "leaf.jpg")
	assert.Contains(t, out, "error")
}

func TestRunInvalidThreshold(t *testing.T) {
	out := runJSON(t, "--iou", "2", "leaf.jpg")
	assert.Contains(t, out["error"], "iou_threshold")
}

func TestCaptureRecoversPanic(t *testing.T) {
	counts, err := capture(func() ([]detector.PestCount, error) {
		panic("runtime exploded")
	})
	assert.Nil(t, counts)
	require.Error(t, err)
	assert.Equal(t, "runtime exploded", err.Error())

	_, err = capture(func() ([]detector.PestCount, error) {
		return nil, errors.New("plain")
	})
	assert.EqualError(t, err, "plain")
}

func TestApplyFlags(t *testing.T) {
	model := "/srv/best.onnx"
	confidence := 0.5
	iou := 0.0
	level := "debug"
	empty := ""

	cfg := config.Default()
	applyFlags(&cfg, &flags{
		image:      &empty,
		config:     &empty,
		model:      &model,
		confidence: &confidence,
		iou:        &iou,
		logLevel:   &level,
	})

	assert.Equal(t, model, cfg.Detector.ModelPath)
	assert.InDelta(t, 0.5, cfg.Detector.ConfidenceThreshold, 1e-6)
	assert.InDelta(t, 0.7, cfg.Detector.IoUThreshold, 1e-6)
	assert.Equal(t, "debug", cfg.Log.Level)
}
