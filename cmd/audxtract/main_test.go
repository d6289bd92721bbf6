// SPDX-License-Identifier: EPL-2.0

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/require"

	"github.com/ik5/audxtract"
	"github.com/ik5/audxtract/extract"
	"github.com/ik5/audxtract/internal/audiotest"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "in.wav")
	require.NoError(t, audiotest.WriteWAVFile(src, 8000, 16, 2, make([]int, 1600)))

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o600))

	badCfg := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badCfg, []byte("extract:\n  input_slots: -3\n"), 0o600))

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no arguments", args: nil, want: exitUsage},
		{name: "one argument", args: []string{src}, want: exitUsage},
		{name: "unknown flag", args: []string{"-nope", src, "out.wav"}, want: exitUsage},
		{name: "invalid config", args: []string{"-config", badCfg, src, filepath.Join(dir, "bad.wav")}, want: exitFailure},
		{name: "missing source", args: []string{"-config", cfgPath, filepath.Join(dir, "missing.wav"), filepath.Join(dir, "missing-out.wav")}, want: exitFailure},
		{name: "converts", args: []string{"-config", cfgPath, src, filepath.Join(dir, "out.wav")}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, run(tt.args))
		})
	}

	info, err := os.Stat(filepath.Join(dir, "out.wav"))
	require.NoError(t, err)
	// 800 frames at 8 kHz become 1600 samples at 16 kHz
	require.InDelta(t, 44+3200, info.Size(), 8)
}

func TestRun_LeavesPackageLoggerAlone(t *testing.T) {
	var lines []string
	extract.SetLogger(funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{}))
	t.Cleanup(func() { extract.SetLogger(logr.Logger{}) })

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o600))

	missing := filepath.Join(dir, "missing.wav")
	require.Equal(t, exitFailure, run([]string{"-config", cfgPath, missing, filepath.Join(dir, "out.wav")}))
	require.Empty(t, lines, "run logs through its own logger")

	require.False(t, audxtract.ExtractAudioToWav(missing, filepath.Join(dir, "lib.wav")))
	require.NotEmpty(t, lines)
	require.Contains(t, lines[len(lines)-1], "extraction failed")
}

func TestRun_MetricsTextfile(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "in.wav")
	require.NoError(t, audiotest.WriteWAVFile(src, 16000, 16, 1, make([]int, 160)))

	prom := filepath.Join(dir, "audxtract.prom")
	require.Equal(t, 0, run([]string{"-metrics-textfile", prom, src, filepath.Join(dir, "out.wav")}))

	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	require.Contains(t, string(b), `audxtract_extractions_total{result="success"} 1`)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, parseLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLevel("warn"))
	require.Equal(t, slog.LevelError, parseLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLevel("info"))
	require.Equal(t, slog.LevelInfo, parseLevel(""))
}
