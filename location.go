package tinytest

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Location identifies the call site of a failed check. It is captured
// best-effort and used only for reporting, never for control flow.
//
// The Go runtime reports file and line but no column. File holds the base
// name of the source file.
type Location struct {
	File string
	Line int
}

// String renders the location as "<file>, line <line>".
func (l Location) String() string {
	return fmt.Sprintf("%s, line %d", l.File, l.Line)
}

// callerLocation captures the call site skip frames above the caller.
// skip = 0 reports the caller itself. ok is false when the runtime cannot
// resolve the frame.
func callerLocation(skip int) (Location, bool) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{}, false
	}
	return Location{File: filepath.Base(file), Line: line}, true
}
