package recording

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitrack/logging"
	"roitrack/types"
)

// TimestampLayout prefixes recording file names
const TimestampLayout = "060102_150405"

// Recorder writes annotated frames to a video file
type Recorder struct {
	writer    *gocv.VideoWriter
	filename  string
	codec     string
	startedAt time.Time
	frames    int
}

// FileName builds "<dir>/<yyMMdd_HHmmss>_<base>" for t
func FileName(dir string, base string, t time.Time) string {
	return filepath.Join(dir, t.Format(TimestampLayout)+"_"+base)
}

// Start creates the output file, trying each configured codec in turn
func Start(dir string, width, height int, fps float64, config types.VideoConfig) (*Recorder, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid frame size %dx%d", width, height)
	}
	if fps <= 0 {
		fps = config.FPS
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}

	now := time.Now()
	filename := FileName(dir, config.BaseName, now)

	vw, usedCodec, err := openWriter(filename, fps, width, height, config.Codecs)
	if err != nil {
		return nil, err
	}

	logging.Infof("recording to %s (codec: %s)", filename, usedCodec)
	return &Recorder{
		writer:    vw,
		filename:  filename,
		codec:     usedCodec,
		startedAt: now,
	}, nil
}

func openWriter(filename string, fps float64, width, height int, codecs []string) (*gocv.VideoWriter, string, error) {
	if len(codecs) == 0 {
		return nil, "", errors.New("no codecs configured")
	}
	var failures []string
	for _, fourcc := range codecs {
		vw, err := gocv.VideoWriterFile(filename, fourcc, fps, width, height, true)
		if err == nil && vw.IsOpened() {
			return vw, fourcc, nil
		}
		if err != nil {
			failures = append(failures, fourcc+": "+err.Error())
		} else {
			failures = append(failures, fourcc+": writer did not open")
		}
		if vw != nil {
			vw.Close()
		}
	}
	return nil, "", errors.Errorf("could not create video writer with any codec (%s)", strings.Join(failures, "; "))
}

// Write appends a frame
func (r *Recorder) Write(frame gocv.Mat) error {
	if err := r.writer.Write(frame); err != nil {
		return errors.Wrap(err, "writing frame")
	}
	r.frames++
	return nil
}

// Elapsed returns how long the recording has been running
func (r *Recorder) Elapsed() time.Duration {
	return time.Since(r.startedAt)
}

// Filename returns the output path
func (r *Recorder) Filename() string {
	return r.filename
}

// Stop closes the file
func (r *Recorder) Stop() error {
	if r.writer == nil {
		return nil
	}
	if err := r.writer.Close(); err != nil {
		return errors.Wrap(err, "closing video writer")
	}
	r.writer = nil
	logging.Infof("recording stopped after %d frames: %s", r.frames, r.filename)
	return nil
}
