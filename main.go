package main

import (
	"os"

	"roitrack/app"
	"roitrack/types"
)

// Single object tracking over a video file.
//
//	roitrack -v resources/group_of_people_01.mp4 -t 2
func main() {
	os.Exit(app.Main(types.ModeSingle, os.Args))
}
