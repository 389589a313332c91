package cmd

import "fmt"

// Positive exit codes up to app.MaxViolationExit are violation counts.
const (
	ExitOK          = 0
	ExitRootMissing = -1
	ExitIO          = -2
	ExitArg         = -3
)

type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Msg
}
