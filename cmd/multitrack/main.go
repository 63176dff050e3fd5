package main

import (
	"os"

	"roitrack/app"
	"roitrack/types"
)

// Tracks several user-selected regions with one tracker each.
//
//	multitrack -v resources/group_of_people_01.mp4 -t csrt
func main() {
	os.Exit(app.Main(types.ModeMulti, os.Args))
}
