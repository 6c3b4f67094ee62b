package appicon

import (
	"io/fs"

	"github.com/pkg/errors"
)

// Error kinds. Every error returned by the pipeline matches exactly one of
// them with errors.Is, except cancellation, which matches the context error.
var (
	// ErrInvalidArgument reports a missing path or an unusable size.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports a missing input file.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied reports an input file that cannot be read.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrIO reports a failure to create the output directory or write a file.
	ErrIO = errors.New("i/o error")
	// ErrProcessing reports a decode, mask, composite or encode failure.
	ErrProcessing = errors.New("processing error")
)

// Error is a classified pipeline failure.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind error
	// Op names the step that failed.
	Op string
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func invalidArgument(format string, args ...any) *Error {
	return newError(ErrInvalidArgument, "", errors.Errorf(format, args...))
}

// classifyFSError maps a filesystem error on the input path to its kind.
func classifyFSError(op string, err error) *Error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return newError(ErrNotFound, op, err)
	case errors.Is(err, fs.ErrPermission):
		return newError(ErrPermissionDenied, op, err)
	default:
		return newError(ErrIO, op, err)
	}
}
