package export

import (
	"errors"
	"fmt"
)

// ErrExportInProgress is returned by Trigger.Fire while a previous export has not finished.
var ErrExportInProgress = errors.New("an export is already in progress")

// Stage names the step of the pipeline that failed
type Stage string

const (
	StageCapture Stage = "capture"
	StageLayout  Stage = "layout"
	StagePackage Stage = "package"
)

// Error reports a failed export. Form state is never touched by a failed export.
type Error struct {
	Stage Stage
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed during %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("export failed during %s", e.Stage)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
