package drivepathfs

import (
	fserrors "github.com/Jumpaku/go-drivepathfs/errors"
)

// Error kinds re-exported from the errors package for convenience.
var (
	ErrInvalidPath           = fserrors.ErrInvalidPath
	ErrFolderNotFound        = fserrors.ErrFolderNotFound
	ErrFileNotFound          = fserrors.ErrFileNotFound
	ErrRemoteOperationFailed = fserrors.ErrRemoteOperationFailed
	ErrIOError               = fserrors.ErrIOError
	ErrAlreadyExists         = fserrors.ErrAlreadyExists
	ErrNotReadable           = fserrors.ErrNotReadable
	ErrParentCycle           = fserrors.ErrParentCycle
)

func newRemoteError(msg string, cause error) error {
	return fserrors.NewRemoteError(msg, cause)
}

func newIOError(msg string, cause error) error {
	return fserrors.NewIOError(msg, cause)
}
