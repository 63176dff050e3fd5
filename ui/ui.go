package ui

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"gocv.io/x/gocv"

	"roitrack/types"
)

var (
	Blue   = color.RGBA{B: 255}
	Red    = color.RGBA{R: 255}
	Green  = color.RGBA{G: 255}
	Yellow = color.RGBA{R: 255, G: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255}
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 120}
)

const (
	NoTrackText   = "No Track"
	TrackLossText = "Track Loss"
)

// AnnotationKind says how an Annotation is drawn
type AnnotationKind int

const (
	KindBox AnnotationKind = iota
	KindText
)

// Annotation is one draw call planned for a frame
type Annotation struct {
	Kind      AnnotationKind
	Rect      image.Rectangle
	Text      string
	Origin    image.Point
	Color     color.RGBA
	Thickness int
	Scale     float64
}

// RandomColor picks a colour for a new target
func RandomColor(r *rand.Rand) color.RGBA {
	return color.RGBA{
		R: uint8(r.IntN(256)),
		G: uint8(r.IntN(256)),
		B: uint8(r.IntN(256)),
		A: 255,
	}
}

// Plan decides what to draw for one frame.
//
// Single-target modes draw the box and the tracker label only when the update
// succeeded and a red "No Track" otherwise. Multi mode always draws every
// box, adds a red "Track Loss" line when any tracker failed and always shows
// the tracker label.
func Plan(mode types.Mode, label string, tracks []types.Track, ok bool, config types.UIConfig) []Annotation {
	var out []Annotation

	text := func(s string, org image.Point, c color.RGBA) Annotation {
		return Annotation{Kind: KindText, Text: s, Origin: org, Color: c, Thickness: 1, Scale: config.LabelFontScale}
	}
	box := func(tr types.Track) Annotation {
		return Annotation{Kind: KindBox, Rect: tr.Box, Color: tr.Color, Thickness: config.BoxThickness}
	}

	if mode == types.ModeMulti {
		if !ok {
			out = append(out, text(TrackLossText, image.Pt(10, 50), Red))
		}
		for _, tr := range tracks {
			out = append(out, box(tr))
		}
		out = append(out, text(label, image.Pt(10, 30), White))
		return out
	}

	if !ok || len(tracks) == 0 {
		return append(out, text(NoTrackText, image.Pt(10, 30), Red))
	}
	for _, tr := range tracks {
		out = append(out, box(tr))
	}
	return append(out, text(label, image.Pt(10, 30), White))
}

// Apply draws the planned annotations on frame
func Apply(frame *gocv.Mat, annotations []Annotation) {
	for _, a := range annotations {
		switch a.Kind {
		case KindBox:
			if err := gocv.Rectangle(frame, a.Rect, a.Color, a.Thickness); err != nil {
				log.Printf("Error drawing box: %v", err)
			}
		case KindText:
			if err := gocv.PutText(frame, a.Text, a.Origin, gocv.FontHersheySimplex, a.Scale, a.Color, a.Thickness); err != nil {
				log.Printf("Error adding text %q: %v", a.Text, err)
			}
		}
	}
}

// DrawRecordingStatus draws the recording indicator and timer
func DrawRecordingStatus(frame *gocv.Mat, elapsed time.Duration, config types.UIConfig) {
	recordingText := fmt.Sprintf("REC %02d:%02d", int(elapsed.Minutes()), int(elapsed.Seconds())%60)
	org := image.Pt(10, frame.Rows()-20)

	if err := gocv.PutText(frame, recordingText, org, gocv.FontHersheyPlain, config.StatusFontSize, Red, 2); err != nil {
		log.Printf("Error adding recording text: %v", err)
	}
}

// DrawDebugLogs draws the captured log lines on the right side of the frame
func DrawDebugLogs(frame *gocv.Mat, logs []string, config types.UIConfig) {
	if len(logs) == 0 {
		return
	}

	frameWidth := frame.Cols()
	startY := 100
	lineHeight := 20
	maxWidth := 400
	padding := 10

	debugHeight := len(logs)*lineHeight + padding*2
	debugRect := image.Rect(frameWidth-maxWidth-padding, startY-padding, frameWidth-padding, startY+debugHeight-padding)

	if err := gocv.Rectangle(frame, debugRect, Black, -1); err != nil {
		log.Printf("Error drawing debug background: %v", err)
	}

	headerText := fmt.Sprintf("Debug Logs (%d):", len(logs))
	if err := gocv.PutText(frame, headerText, image.Pt(frameWidth-maxWidth, startY), gocv.FontHersheyPlain, config.DebugFontSize, Yellow, 1); err != nil {
		log.Printf("Error adding debug header: %v", err)
	}

	for i, logMsg := range logs {
		y := startY + (i+1)*lineHeight
		logMsg = truncate(logMsg, 50)
		if err := gocv.PutText(frame, logMsg, image.Pt(frameWidth-maxWidth, y), gocv.FontHersheyPlain, config.DebugFontSize, White, 1); err != nil {
			log.Printf("Error adding debug text: %v", err)
		}
	}
}

// DrawSelections outlines already confirmed ROIs while the user picks more
func DrawSelections(frame *gocv.Mat, rects []image.Rectangle, colors []color.RGBA) {
	for i, r := range rects {
		if err := gocv.Rectangle(frame, r, colors[i], 2); err != nil {
			log.Printf("Error drawing selection: %v", err)
		}
	}
}

// truncate shortens s to at most max runes, ending with "..." when cut
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

// Window is the display surface: frame output, key polling and ROI selection
type Window struct {
	w *gocv.Window
}

// NewWindow opens a named window
func NewWindow(name string) *Window {
	return &Window{w: gocv.NewWindow(name)}
}

// Show displays frame
func (w *Window) Show(frame gocv.Mat) {
	w.w.IMShow(frame)
}

// WaitKey waits up to delay ms for a key; 0 waits forever
func (w *Window) WaitKey(delay int) int {
	return w.w.WaitKey(delay)
}

// SelectROI lets the user drag a rectangle. Enter or Space confirms, C
// cancels and yields the zero rectangle.
func (w *Window) SelectROI(img gocv.Mat) image.Rectangle {
	return w.w.SelectROI(img)
}

// Close destroys the window
func (w *Window) Close() error {
	return w.w.Close()
}

// PrintStartupInstructions prints the playback controls
func PrintStartupInstructions(mode types.Mode) {
	fmt.Println("Controls:")
	if mode == types.ModeMulti {
		fmt.Println("- Drag a box, press SPACE or ENTER to confirm it")
		fmt.Println("- Then press q to start tracking or any other key to add another box")
	} else {
		fmt.Println("- Drag a box, press SPACE or ENTER to confirm it, C to cancel")
	}
	fmt.Println("- During playback press 'q' or ESC to quit")
	fmt.Println("- With -debug, press 'd' to toggle the log overlay")
}
