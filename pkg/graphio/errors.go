package graphio

import "errors"

var (
	// ErrModality is returned for a modality tag other than "dwi" or "func",
	// or one that does not match the graph being saved.
	ErrModality = errors.New("graphio: unsupported modality")

	// ErrFormat indicates a graph file that cannot be parsed.
	ErrFormat = errors.New("graphio: malformed graph file")
)

// IOError reports a failed read or write of a graph file. Failed writes are
// not retried.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return "graphio: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }
