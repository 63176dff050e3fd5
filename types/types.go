package types

import (
	"image"
	"image/color"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Mode selects which program flow is running
type Mode int

const (
	// ModeSingle tracks one ROI with a selectable tracker
	ModeSingle Mode = iota
	// ModeMulti tracks several ROIs, one tracker each
	ModeMulti
	// ModeGoturn tracks one ROI with the GOTURN network
	ModeGoturn
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	case ModeGoturn:
		return "goturn"
	}
	return "unknown"
}

// WindowTitle returns the display window name used by the mode
func (m Mode) WindowTitle() string {
	if m == ModeMulti {
		return "MultiTracker"
	}
	return "Single Track"
}

// Track is the latest state of one tracked object
type Track struct {
	ID    uuid.UUID
	Color color.RGBA
	Box   image.Rectangle
	Lost  bool
}

// VideoConfig holds video recording configuration
type VideoConfig struct {
	FPS      float64
	Codecs   []string
	BaseName string
}

// DefaultVideoConfig returns the default video configuration
func DefaultVideoConfig() VideoConfig {
	return VideoConfig{
		FPS:      30.0,
		Codecs:   []string{"mp4v", "avc1", "H264", "x264"},
		BaseName: "object_track.mp4",
	}
}

// UIConfig holds UI configuration constants
type UIConfig struct {
	LabelFontScale float64
	BoxThickness   int
	StatusFontSize float64
	MaxDebugLogs   int
	DebugFontSize  float64
}

// DefaultUIConfig returns the default UI configuration
func DefaultUIConfig() UIConfig {
	return UIConfig{
		LabelFontScale: 1.0,
		BoxThickness:   3,
		StatusFontSize: 1.5,
		MaxDebugLogs:   10,
		DebugFontSize:  0.8,
	}
}

// DebugLogger keeps the last log lines so they can be drawn on screen
type DebugLogger struct {
	mu             sync.Mutex
	enabled        bool
	logs           []string
	maxLogs        int
	originalOutput io.Writer
}

// NewDebugLogger creates a new debug logger
func NewDebugLogger(enabled bool, maxLogs int) *DebugLogger {
	return &DebugLogger{
		enabled:        enabled,
		maxLogs:        maxLogs,
		originalOutput: log.Default().Writer(),
	}
}

// Enabled reports whether lines are being captured
func (d *DebugLogger) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// Toggle flips capturing on or off and returns the new state
func (d *DebugLogger) Toggle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enabled = !d.enabled
	return d.enabled
}

// Log adds a debug message to the log buffer
func (d *DebugLogger) Log(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.enabled {
		return
	}

	d.logs = append(d.logs, message)
	if len(d.logs) > d.maxLogs {
		d.logs = d.logs[len(d.logs)-d.maxLogs:]
	}
}

// GetLogs returns a copy of the current debug logs
func (d *DebugLogger) GetLogs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	logs := make([]string, len(d.logs))
	copy(logs, d.logs)
	return logs
}

// Write implements io.Writer interface to capture log output
func (d *DebugLogger) Write(p []byte) (n int, err error) {
	if d.originalOutput != nil {
		_, _ = d.originalOutput.Write(p)
	}

	message := strings.TrimSpace(string(p))
	// Format: "2006/01/02 15:04:05 message"
	if len(message) > 19 && message[4] == '/' && message[7] == '/' && message[10] == ' ' {
		if spaceIndex := strings.Index(message[11:], " "); spaceIndex != -1 {
			message = message[11+spaceIndex+1:]
		}
	}
	if message != "" {
		d.Log(message)
	}

	return len(p), nil
}

// SetAsLogOutput configures this debug logger to capture standard log output
func (d *DebugLogger) SetAsLogOutput() {
	log.SetOutput(d)
}

// RestoreOriginalLogOutput restores the original log output
func (d *DebugLogger) RestoreOriginalLogOutput() {
	if d.originalOutput != nil {
		log.SetOutput(d.originalOutput)
	}
}
