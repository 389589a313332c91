package app

import "fmt"

// ConfigErr means the run could not start, e.g. the root path is missing.
type ConfigErr struct {
	Msg string
	Err error
}

func (e *ConfigErr) Error() string { return e.Msg }

func (e *ConfigErr) Unwrap() error { return e.Err }

type ArgErr struct{ Msg string }

func (e *ArgErr) Error() string { return e.Msg }

// FileErr aborts a run: a file could not be opened, read or decoded.
type FileErr struct {
	Path string
	Err  error
}

func (e *FileErr) Error() string {
	return fmt.Sprintf("failed to count %s: %v", e.Path, e.Err)
}

func (e *FileErr) Unwrap() error { return e.Err }
