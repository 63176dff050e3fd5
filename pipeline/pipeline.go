package pipeline

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"roitrack/input"
	"roitrack/logging"
	"roitrack/types"
	"roitrack/ui"
)

// Source yields frames in order until the stream ends
type Source interface {
	Read(dst *gocv.Mat) bool
}

// Display shows annotated frames and reports key presses
type Display interface {
	Show(frame gocv.Mat)
	WaitKey(delay int) int
}

// Updater advances the trackers on a new frame
type Updater interface {
	Update(frame gocv.Mat) ([]types.Track, bool)
}

// Recorder receives annotated frames
type Recorder interface {
	Write(frame gocv.Mat) error
	Elapsed() time.Duration
}

// FrameLog persists the tracks of each frame
type FrameLog interface {
	RecordFrame(frame int, tracks []types.Track, ok bool) error
}

// Observer is told about every tracker update
type Observer interface {
	ObserveUpdate(elapsed time.Duration, ok bool, targets int)
}

// StopReason says why Run returned
type StopReason int

const (
	EndOfStream StopReason = iota
	QuitKey
	Cancelled
)

func (r StopReason) String() string {
	switch r {
	case EndOfStream:
		return "end of stream"
	case QuitKey:
		return "quit key"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Options tunes the loop. Recorder, FrameLog, Observer and Debug are optional.
type Options struct {
	Mode     types.Mode
	Label    string
	KeyDelay int
	UI       types.UIConfig
	Recorder Recorder
	FrameLog FrameLog
	Observer Observer
	Debug    *types.DebugLogger
}

// Result summarises a finished run
type Result struct {
	Frames int
	Lost   int
	Reason StopReason
}

// Pipeline is the read, update, draw, show loop
type Pipeline struct {
	src     Source
	display Display
	updater Updater
	opts    Options
}

// New wires a pipeline
func New(src Source, display Display, updater Updater, opts Options) *Pipeline {
	if opts.KeyDelay <= 0 {
		opts.KeyDelay = 1
	}
	return &Pipeline{
		src:     src,
		display: display,
		updater: updater,
		opts:    opts,
	}
}

// Run processes frames until the stream ends, the quit key is pressed or ctx
// is cancelled. Tracking loss never stops the loop.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	frame := gocv.NewMat()
	defer frame.Close()

	var res Result
	for {
		select {
		case <-ctx.Done():
			logging.Infof("interrupted")
			res.Reason = Cancelled
			return res, nil
		default:
		}

		if !p.src.Read(&frame) {
			logging.Infof("end of video file reached")
			res.Reason = EndOfStream
			return res, nil
		}
		res.Frames++

		start := time.Now()
		tracks, ok := p.updater.Update(frame)
		elapsed := time.Since(start)
		if !ok {
			res.Lost++
		}
		if p.opts.Observer != nil {
			p.opts.Observer.ObserveUpdate(elapsed, ok, len(tracks))
		}

		ui.Apply(&frame, ui.Plan(p.opts.Mode, p.opts.Label, tracks, ok, p.opts.UI))
		p.record(frame)
		p.log(res.Frames, tracks, ok)
		p.overlay(&frame)

		p.display.Show(frame)
		key := p.display.WaitKey(p.opts.KeyDelay)
		if input.IsQuit(key) {
			res.Reason = QuitKey
			return res, nil
		}
		if key >= 0 && input.MaskKey(key) == input.KeyDebug && p.opts.Debug != nil {
			logging.Infof("debug overlay enabled: %v", p.opts.Debug.Toggle())
		}
	}
}

func (p *Pipeline) record(frame gocv.Mat) {
	if p.opts.Recorder == nil {
		return
	}
	if err := p.opts.Recorder.Write(frame); err != nil {
		logging.Errorf("recording disabled: %v", err)
		p.opts.Recorder = nil
	}
}

func (p *Pipeline) log(n int, tracks []types.Track, ok bool) {
	if p.opts.FrameLog == nil {
		return
	}
	if err := p.opts.FrameLog.RecordFrame(n, tracks, ok); err != nil {
		logging.Errorf("track log disabled: %v", err)
		p.opts.FrameLog = nil
	}
}

// overlay draws indicators that are shown but never recorded
func (p *Pipeline) overlay(frame *gocv.Mat) {
	if p.opts.Recorder != nil {
		ui.DrawRecordingStatus(frame, p.opts.Recorder.Elapsed(), p.opts.UI)
	}
	if p.opts.Debug != nil && p.opts.Debug.Enabled() {
		ui.DrawDebugLogs(frame, p.opts.Debug.GetLogs(), p.opts.UI)
	}
}
