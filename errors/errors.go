// Package errors defines the error kinds returned by drivepathfs.
//
// Every error returned by the file system can be classified with errors.Is
// against one of the sentinel values below.
package errors

import (
	"errors"
)

var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrFolderNotFound        = errors.New("folder not found")
	ErrFileNotFound          = errors.New("file not found")
	ErrRemoteOperationFailed = errors.New("remote operation failed")
	ErrIOError               = errors.New("io error")
	ErrAlreadyExists         = errors.New("already exists")
	ErrNotReadable           = errors.New("not readable")
	ErrParentCycle           = errors.New("parent cycle")
)

type wrapError struct {
	underlying error
	msg        string
	cause      error
}

var _ error = (*wrapError)(nil)

// NewRemoteError classifies cause as a failure of the remote object store.
func NewRemoteError(msg string, cause error) error {
	return &wrapError{
		underlying: ErrRemoteOperationFailed,
		msg:        msg,
		cause:      cause,
	}
}

// NewIOError classifies cause as a local I/O failure.
func NewIOError(msg string, cause error) error {
	return &wrapError{
		underlying: ErrIOError,
		msg:        msg,
		cause:      cause,
	}
}

func (err *wrapError) Error() string {
	if err == nil {
		return "(*wrapError)(nil)"
	}
	message := err.underlying.Error() + ": " + err.msg
	if err.cause != nil {
		message += ": " + err.cause.Error()
	}
	return message
}

func (err *wrapError) Unwrap() []error {
	if err.cause == nil {
		return []error{err.underlying}
	}
	return []error{err.underlying, err.cause}
}
