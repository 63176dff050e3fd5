package tracking

import (
	"image"
	"image/color"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitrack/types"
	"roitrack/utils"
)

type target struct {
	tracker gocv.Tracker
	track   types.Track
}

// MultiTracker updates one independent tracker per target
type MultiTracker struct {
	mu      sync.Mutex
	kind    Kind
	factory Factory
	targets []*target
}

// NewMultiTracker creates an empty aggregate that builds trackers of kind
func NewMultiTracker(kind Kind, factory Factory) *MultiTracker {
	return &MultiTracker{
		kind:    kind,
		factory: factory,
	}
}

// Kind returns the tracker kind used for every target
func (m *MultiTracker) Kind() Kind {
	return m.kind
}

// Len returns the number of targets
func (m *MultiTracker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.targets)
}

// Add creates a tracker for roi and initializes it on frame. The roi is
// clipped to the frame first.
func (m *MultiTracker) Add(frame gocv.Mat, roi image.Rectangle, c color.RGBA) (types.Track, error) {
	if !frame.Empty() {
		roi = utils.ClampToFrame(roi, frame.Cols(), frame.Rows())
		if !utils.IsSelected(roi) {
			return types.Track{}, errors.Wrapf(ErrInitFailed, "%s: roi outside the frame", m.kind)
		}
	}

	tr, err := m.factory(m.kind)
	if err != nil {
		return types.Track{}, errors.Wrapf(err, "creating %s tracker", m.kind)
	}
	if !tr.Init(frame, roi) {
		_ = tr.Close()
		return types.Track{}, errors.Wrapf(ErrInitFailed, "%s on %v", m.kind, roi)
	}

	t := &target{
		tracker: tr,
		track: types.Track{
			ID:    uuid.New(),
			Color: c,
			Box:   roi,
		},
	}

	m.mu.Lock()
	m.targets = append(m.targets, t)
	m.mu.Unlock()

	return t.track, nil
}

// Update advances every tracker on frame. It returns one track per target in
// insertion order; ok is true only if every tracker found its object. A lost
// target keeps its last box.
func (m *MultiTracker) Update(frame gocv.Mat) ([]types.Track, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ok := len(m.targets) > 0
	tracks := make([]types.Track, 0, len(m.targets))
	for _, t := range m.targets {
		rect, found := t.tracker.Update(frame)
		if found {
			t.track.Box = rect
			t.track.Lost = false
		} else {
			t.track.Lost = true
			ok = false
		}
		tracks = append(tracks, t.track)
	}
	return tracks, ok
}

// Close releases every tracker
func (m *MultiTracker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, t := range m.targets {
		if err := t.tracker.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "closing tracker")
		}
	}
	m.targets = nil
	return firstErr
}
