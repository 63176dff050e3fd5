package logging

import "log"

// Logf is the package-level sink. It defaults to log.Printf but may be
// replaced by SetLogger; tests use that to capture or mute output.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the sink. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Infof logs a progress line
func Infof(format string, v ...interface{}) {
	Logf("[INFO] "+format, v...)
}

// Errorf logs a failure line
func Errorf(format string, v ...interface{}) {
	Logf("[ERROR] "+format, v...)
}
