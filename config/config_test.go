package config

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roitrack/types"
)

func TestParse_Defaults(t *testing.T) {
	single, err := Parse(types.ModeSingle, "single", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, DefaultVideo, single.VideoPath)
	assert.Equal(t, "2", single.Tracker)
	assert.Equal(t, 1, single.KeyDelay)
	assert.False(t, single.Record)

	multi, err := Parse(types.ModeMulti, "multi", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "csrt", multi.Tracker)

	goturn, err := Parse(types.ModeGoturn, "goturn", nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "goturn", goturn.Tracker)
	assert.Equal(t, ".", goturn.ModelDir)
}

func TestParse_ShortAndLongFlags(t *testing.T) {
	c, err := Parse(types.ModeSingle, "single", []string{"-v", "a.mp4", "-t", "5"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "a.mp4", c.VideoPath)
	assert.Equal(t, "5", c.Tracker)

	c, err = Parse(types.ModeMulti, "multi", []string{"--video", "b.mp4", "--tracker", "kcf", "-record", "-tracklog", "t.db"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "b.mp4", c.VideoPath)
	assert.Equal(t, "kcf", c.Tracker)
	assert.True(t, c.Record)
	assert.Equal(t, "t.db", c.TrackLog)
}

func TestParse_GoturnHasNoTrackerFlag(t *testing.T) {
	_, err := Parse(types.ModeGoturn, "goturn", []string{"-t", "kcf"}, io.Discard)
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string][]string{
		"empty video":    {"-v", ""},
		"zero delay":     {"-delay", "0"},
		"extra argument": {"clip.mp4"},
		"unknown flag":   {"-x"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(types.ModeSingle, "single", args, io.Discard)
			assert.Error(t, err)
		})
	}
}
