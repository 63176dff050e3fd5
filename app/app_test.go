package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roitrack/config"
	"roitrack/source"
	"roitrack/tracking"
	"roitrack/tracklog"
	"roitrack/types"
)

func TestResolveKind(t *testing.T) {
	tests := []struct {
		mode    types.Mode
		tracker string
		want    tracking.Kind
	}{
		{types.ModeSingle, "2", tracking.KCF},
		{types.ModeMulti, "csrt", tracking.CSRT},
		{types.ModeGoturn, "ignored", tracking.GOTURN},
	}
	for _, tt := range tests {
		cfg := config.Default(tt.mode)
		cfg.Tracker = tt.tracker
		got, err := ResolveKind(cfg)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRun_FailsBeforeOpeningWindow(t *testing.T) {
	dir := t.TempDir()

	unknown := config.Default(types.ModeMulti)
	unknown.Tracker = "nope"

	legacy := config.Default(types.ModeSingle)
	legacy.Tracker = "0"

	noModels := config.Default(types.ModeGoturn)
	noModels.ModelDir = dir

	noVideo := config.Default(types.ModeSingle)
	noVideo.VideoPath = filepath.Join(dir, "missing.mp4")

	tests := []struct {
		name string
		cfg  *config.Config
		want error
	}{
		{"unknown tracker", unknown, tracking.ErrUnknownTracker},
		{"legacy tracker", legacy, tracking.ErrUnavailable},
		{"goturn without models", noModels, tracking.ErrModelMissing},
		{"missing video", noVideo, source.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRun_TrackLogOpensBeforeVideo(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0o644))

	cfg := config.Default(types.ModeSingle)
	cfg.VideoPath = filepath.Join(dir, "missing.mp4")
	cfg.TrackLog = filepath.Join(notADir, "tracks.db")

	err := Run(context.Background(), cfg)
	require.Error(t, err)
	assert.False(t, errors.Is(err, source.ErrNotFound), "track log is checked first, got %v", err)
	assert.Contains(t, err.Error(), "opening track log")
}

func TestRun_FailedRunIsFinishedInTrackLog(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(types.ModeMulti)
	cfg.VideoPath = filepath.Join(dir, "missing.mp4")
	cfg.TrackLog = filepath.Join(dir, "tracks.db")

	err := Run(context.Background(), cfg)
	require.True(t, errors.Is(err, source.ErrNotFound), "got %v", err)

	store, err := tracklog.Open(cfg.TrackLog)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "CSRT", runs[0].Tracker)
	assert.Equal(t, 0, runs[0].Frames)
	assert.True(t, strings.HasPrefix(runs[0].StopReason, "failed: "), runs[0].StopReason)
}

func TestMainExitCodes(t *testing.T) {
	assert.Equal(t, 2, Main(types.ModeSingle, []string{"roitrack", "-nope"}))
	assert.Equal(t, 2, Main(types.ModeSingle, []string{"roitrack", "extra"}))
	assert.Equal(t, 0, Main(types.ModeSingle, []string{"roitrack", "-h"}))
}
