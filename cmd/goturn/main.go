package main

import (
	"os"

	"roitrack/app"
	"roitrack/types"
)

// GOTURN tracking. goturn.prototxt and goturn.caffemodel must be present
// in -model-dir (the working directory by default).
func main() {
	os.Exit(app.Main(types.ModeGoturn, os.Args))
}
