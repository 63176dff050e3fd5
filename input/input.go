package input

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitrack/logging"
	"roitrack/ui"
	"roitrack/utils"
)

const (
	KeyEscape = 27
	KeyQuit   = 'q'
	KeyDebug  = 'd'
)

// ErrNoSelection is returned when the user confirmed no region
var ErrNoSelection = errors.New("no region of interest selected")

// Selector is the interactive surface used to pick regions
type Selector interface {
	SelectROI(img gocv.Mat) image.Rectangle
	WaitKey(delay int) int
}

// Selection is a confirmed region and the colour assigned to it
type Selection struct {
	Box   image.Rectangle
	Color color.RGBA
}

// MaskKey keeps the low byte of a WaitKey result
func MaskKey(key int) int {
	return key & 0xFF
}

// IsQuit reports whether key ends playback
func IsQuit(key int) bool {
	if key < 0 {
		return false
	}
	k := MaskKey(key)
	return k == KeyQuit || k == KeyEscape
}

// SelectTargets asks the user for the regions to track on frame.
//
// With multi unset it runs a single selection. Otherwise it keeps asking
// until the user presses q after a selection; cancelled selections are
// skipped and the boxes confirmed so far are drawn on the selection image.
func SelectTargets(sel Selector, frame gocv.Mat, multi bool, palette func() color.RGBA) ([]Selection, error) {
	if !multi {
		logging.Infof("select ROI and press ENTER or SPACE")
		logging.Infof("cancel selection by pressing C")
		box := sel.SelectROI(frame)
		if !utils.IsSelected(box) {
			return nil, ErrNoSelection
		}
		return []Selection{{Box: box, Color: palette()}}, nil
	}

	var selections []Selection
	for {
		logging.Infof("select ROI")
		logging.Infof("press SPACE or ENTER to confirm selection")
		logging.Infof("press q to exit selection or any other key to continue")

		canvas := selectionCanvas(frame, selections)
		box := sel.SelectROI(canvas)
		canvas.Close()

		if utils.IsSelected(box) {
			selections = append(selections, Selection{Box: box, Color: palette()})
			logging.Infof("ROI %d confirmed at %v", len(selections), box)
		} else {
			logging.Infof("selection cancelled")
		}

		if MaskKey(sel.WaitKey(0)) == KeyQuit {
			break
		}
	}

	if len(selections) == 0 {
		return nil, ErrNoSelection
	}
	return selections, nil
}

func selectionCanvas(frame gocv.Mat, selections []Selection) gocv.Mat {
	canvas := frame.Clone()
	if len(selections) == 0 {
		return canvas
	}
	rects := make([]image.Rectangle, len(selections))
	colors := make([]color.RGBA, len(selections))
	for i, s := range selections {
		rects[i] = s.Box
		colors[i] = s.Color
	}
	ui.DrawSelections(&canvas, rects, colors)
	return canvas
}
