package scanner

import (
	"errors"
	"io/fs"
	"os"
)

// ReadStatus tells callers which failure path a read took
type ReadStatus int

const (
	ReadOK     ReadStatus = iota
	ReadAbsent            // File does not exist - callers fall back silently
	ReadFailed            // Permission or I/O error - callers decide whether to propagate
)

// String returns a short description of the status
func (s ReadStatus) String() string {
	switch s {
	case ReadOK:
		return "ok"
	case ReadAbsent:
		return "absent"
	case ReadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ReadResult is the outcome of reading one file
type ReadResult struct {
	Status ReadStatus
	Data   []byte
	Err    error // Set for ReadAbsent and ReadFailed
}

// readFile reads path and classifies the outcome
func readFile(path string) ReadResult {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return ReadResult{Status: ReadOK, Data: data}
	case errors.Is(err, fs.ErrNotExist):
		return ReadResult{Status: ReadAbsent, Err: err}
	default:
		return ReadResult{Status: ReadFailed, Err: err}
	}
}
