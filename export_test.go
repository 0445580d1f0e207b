package drivepathfs

// This file is part of the package tests (package drivepathfs) and provides
// helpers that allow tests in the external package to access internal
// package constructs. Helpers are exported so `drivepathfs_test` can call them
// via the module import path.

import "io"

// NewRemoteError constructs a remote-wrapped error using package-internal constructor.
func NewRemoteError(msg string, cause error) error {
	return newRemoteError(msg, cause)
}

// NewIOError constructs an io-wrapped error using package-internal constructor.
func NewIOError(msg string, cause error) error {
	return newIOError(msg, cause)
}

// NewTempFile exposes newTempFile.
func NewTempFile(dir, name string, content io.Reader) (*File, error) {
	return newTempFile(dir, name, content)
}
