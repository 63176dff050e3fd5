package source

import (
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var (
	ErrNotFound = errors.New("video file not found")
	ErrOpen     = errors.New("video file not loaded")
	ErrNoFrame  = errors.New("no frame captured")
)

// Props describes the stream as reported by the decoder
type Props struct {
	Width  int
	Height int
	FPS    float64
}

// Video is a sequential frame source backed by a video file
type Video struct {
	path    string
	capture *gocv.VideoCapture
}

// Open checks that path is a regular file and opens it for decoding
func Open(path string) (*Video, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "%s: %v", path, err)
	}
	if info.IsDir() {
		return nil, errors.Wrapf(ErrNotFound, "%s is a directory", path)
	}

	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrOpen, "%s: %v", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.Wrapf(ErrOpen, "%s", path)
	}

	return &Video{path: path, capture: capture}, nil
}

// Path returns the file the source was opened from
func (v *Video) Path() string {
	return v.path
}

// Read decodes the next frame into dst. It returns false at end of stream.
func (v *Video) Read(dst *gocv.Mat) bool {
	if ok := v.capture.Read(dst); !ok || dst.Empty() {
		return false
	}
	return true
}

// First reads the frame used for ROI selection
func (v *Video) First(dst *gocv.Mat) error {
	if !v.Read(dst) {
		return errors.Wrapf(ErrNoFrame, "%s", v.path)
	}
	return nil
}

// Props returns frame size and rate; fps falls back to fallbackFPS when the
// container does not report one.
func (v *Video) Props(fallbackFPS float64) Props {
	p := Props{
		Width:  int(v.capture.Get(gocv.VideoCaptureFrameWidth)),
		Height: int(v.capture.Get(gocv.VideoCaptureFrameHeight)),
		FPS:    v.capture.Get(gocv.VideoCaptureFPS),
	}
	if p.FPS <= 0 {
		p.FPS = fallbackFPS
	}
	return p
}

// Close releases the decoder
func (v *Video) Close() error {
	return v.capture.Close()
}
