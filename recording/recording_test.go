package recording

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roitrack/types"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 5, 7, 0, time.UTC)
	got := FileName("recording", "object_track.mp4", ts)
	assert.Equal(t, filepath.Join("recording", "261018_090507_object_track.mp4"), got)
}

func TestStart_InvalidSize(t *testing.T) {
	r, err := Start(t.TempDir(), 0, 480, 25, types.DefaultVideoConfig())
	assert.Nil(t, r)
	assert.Error(t, err)
}

func TestStart_NoCodecs(t *testing.T) {
	cfg := types.DefaultVideoConfig()
	cfg.Codecs = nil
	r, err := Start(t.TempDir(), 640, 480, 25, cfg)
	assert.Nil(t, r)
	assert.ErrorContains(t, err, "no codecs configured")
}

func TestOpenWriter_ReportsEachCodec(t *testing.T) {
	// a regular file where the output directory should be
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	vw, codec, err := openWriter(filepath.Join(parent, "out.mp4"), 25, 64, 48, []string{"mp4v", "avc1"})
	assert.Nil(t, vw)
	assert.Empty(t, codec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mp4v: ")
	assert.Contains(t, err.Error(), "avc1: ")
	assert.NotContains(t, err.Error(), "<nil>")
}
