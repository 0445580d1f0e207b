package drivepathfs

import (
	"errors"
	"io"
	"os"
)

// File is a downloaded remote file backed by a local temporary copy.
// The caller owns the File and must Close it to release the temporary copy.
type File struct {
	name string
	temp *os.File
}

// Verify interface implementation at compile time.
var _ io.ReadSeekCloser = (*File)(nil)

// newTempFile copies content into a new temporary file in dir and rewinds it.
func newTempFile(dir, name string, content io.Reader) (file *File, err error) {
	temp, err := os.CreateTemp(dir, "drivepathfs-*")
	if err != nil {
		return nil, newIOError("failed to create temporary file", err)
	}
	f := &File{name: name, temp: temp}
	defer func() {
		if err != nil {
			err = errors.Join(err, f.Close())
		}
	}()

	if _, err := io.Copy(temp, content); err != nil {
		return nil, newIOError("failed to write temporary file", err)
	}
	if _, err := temp.Seek(0, io.SeekStart); err != nil {
		return nil, newIOError("failed to rewind temporary file", err)
	}
	return f, nil
}

// Name returns the remote name of the file.
func (f *File) Name() string {
	return f.name
}

// Read reads from the local copy.
func (f *File) Read(b []byte) (int, error) {
	return f.temp.Read(b)
}

// Seek sets the offset for the next Read.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.temp.Seek(offset, whence)
}

// Close closes and removes the local copy.
func (f *File) Close() (err error) {
	if closeErr := f.temp.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		err = newIOError("failed to close temporary file", closeErr)
	}
	if removeErr := os.Remove(f.temp.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		err = errors.Join(err, newIOError("failed to remove temporary file", removeErr))
	}
	return err
}
