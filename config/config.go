package config

import (
	"flag"
	"io"
	"strings"

	"github.com/pkg/errors"

	"roitrack/types"
)

// DefaultVideo is used when -v/--video is not given
const DefaultVideo = "resources/group_of_people_01.mp4"

// Config holds everything a tracking run needs from the command line
type Config struct {
	Mode        types.Mode
	VideoPath   string
	Tracker     string
	ModelDir    string
	Record      bool
	RecordDir   string
	TrackLog    string
	MetricsAddr string
	Debug       bool
	KeyDelay    int

	Video types.VideoConfig
	UI    types.UIConfig
}

// Default returns the configuration for mode before flags are applied
func Default(mode types.Mode) *Config {
	c := &Config{
		Mode:      mode,
		VideoPath: DefaultVideo,
		ModelDir:  ".",
		RecordDir: "recording",
		KeyDelay:  1,
		Video:     types.DefaultVideoConfig(),
		UI:        types.DefaultUIConfig(),
	}
	switch mode {
	case types.ModeSingle:
		c.Tracker = "2"
	case types.ModeMulti:
		c.Tracker = "csrt"
	case types.ModeGoturn:
		c.Tracker = "goturn"
	}
	return c
}

// Parse reads args (without the program name) for the given mode
func Parse(mode types.Mode, name string, args []string, output io.Writer) (*Config, error) {
	c := Default(mode)
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	fs.StringVar(&c.VideoPath, "v", c.VideoPath, "path to input video file")
	fs.StringVar(&c.VideoPath, "video", c.VideoPath, "path to input video file")
	if mode != types.ModeGoturn {
		usage := "tracker name or index [0-6]: boosting, mil, kcf, tld, medianflow, mosse, csrt"
		fs.StringVar(&c.Tracker, "t", c.Tracker, usage)
		fs.StringVar(&c.Tracker, "tracker", c.Tracker, usage)
	}
	fs.StringVar(&c.ModelDir, "model-dir", c.ModelDir, "directory holding goturn.prototxt and goturn.caffemodel")
	fs.BoolVar(&c.Record, "record", c.Record, "write annotated frames to a timestamped video file")
	fs.StringVar(&c.RecordDir, "record-dir", c.RecordDir, "directory for recordings")
	fs.StringVar(&c.TrackLog, "tracklog", c.TrackLog, "sqlite file that receives every tracked box (disabled when empty)")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "address to serve prometheus metrics on (disabled when empty)")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "show the latest log lines on the video window")
	fs.IntVar(&c.KeyDelay, "delay", c.KeyDelay, "milliseconds to wait for a key after each frame")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values that flag parsing alone cannot
func (c *Config) Validate() error {
	if strings.TrimSpace(c.VideoPath) == "" {
		return errors.New("video path must not be empty")
	}
	if strings.TrimSpace(c.Tracker) == "" {
		return errors.New("tracker must not be empty")
	}
	if c.KeyDelay <= 0 {
		return errors.Errorf("delay must be positive, got %d", c.KeyDelay)
	}
	if c.Record && c.RecordDir == "" {
		return errors.New("record-dir must not be empty when recording")
	}
	return nil
}
