// Package drivepathfsmust wraps the drivepathfs package with panic-based error handling.
//
// It provides the same path-based operations as the root-level drivepathfs
// package, but instead of returning errors, all exported methods panic on failure.
package drivepathfsmust

import (
	"context"
	"io"

	"github.com/Jumpaku/go-drivepathfs"
)

// FileSystem provides path-based operations on a remote object store.
//
// All methods of FileSystem panic on error instead of returning an error value.
type FileSystem struct {
	fsys *drivepathfs.FileSystem
}

// New creates a FileSystem on store, building the folder index from a full listing of the store's folders.
//
// It panics if the folder index cannot be built.
func New(ctx context.Context, store drivepathfs.Store, opts ...drivepathfs.Option) *FileSystem {
	return &FileSystem{fsys: must1(drivepathfs.New(ctx, store, opts...))}
}

// Wrap returns a FileSystem that panics where fsys returns errors.
func Wrap(fsys *drivepathfs.FileSystem) *FileSystem {
	return &FileSystem{fsys: fsys}
}

// ListFiles returns the names of the files directly in the folder at path.
// All pages of the listing are fetched before returning.
//
// It panics if the folder is not indexed (the underlying error would be ErrFolderNotFound)
// or if the listing fails.
func (s *FileSystem) ListFiles(ctx context.Context, path string) (names []string) {
	return must1(drivepathfs.CollectNames(must1(s.fsys.ListFiles(ctx, path))))
}

// ListFolders returns the names of the folders directly in the folder at path.
//
// It panics if the folder is not indexed (the underlying error would be ErrFolderNotFound).
func (s *FileSystem) ListFolders(path string) (names []string) {
	return must1(s.fsys.ListFolders(path))
}

// CreateFolder creates the folder at path, creating missing ancestors first.
//
// It panics if the path is invalid, if the folder already exists
// (the underlying error would be ErrAlreadyExists), or if a remote call fails.
func (s *FileSystem) CreateFolder(ctx context.Context, path string) {
	must0(s.fsys.CreateFolder(ctx, path))
}

// DeleteFolder deletes the folder at path.
//
// It panics if the folder is not indexed or if the remote call fails.
func (s *FileSystem) DeleteFolder(ctx context.Context, path string) {
	must0(s.fsys.DeleteFolder(ctx, path))
}

// SaveFile uploads content as a new file at path, creating missing ancestor folders first.
//
// It panics if the path is invalid or if a remote call fails.
func (s *FileSystem) SaveFile(ctx context.Context, path string, content io.Reader, mimeType string) {
	must0(s.fsys.SaveFile(ctx, path, content, mimeType))
}

// DeleteFile deletes the file at path.
//
// It panics if the file does not exist (the underlying error would be ErrFileNotFound)
// or if the remote call fails.
func (s *FileSystem) DeleteFile(ctx context.Context, path string) {
	must0(s.fsys.DeleteFile(ctx, path))
}

// ReadFile reads the entire contents of the file at path.
//
// It panics if the file does not exist or cannot be downloaded, including for
// Google Apps documents (the underlying error would be ErrNotReadable).
func (s *FileSystem) ReadFile(ctx context.Context, path string) (data []byte) {
	file := must1(s.fsys.ReadFile(ctx, path))
	data, err := io.ReadAll(file)
	must0(err)
	must0(file.Close())
	return data
}

// SearchFiles returns the names of all files whose name contains pattern.
//
// It panics if the listing fails.
func (s *FileSystem) SearchFiles(ctx context.Context, pattern string) (names []string) {
	return must1(drivepathfs.CollectNames(s.fsys.SearchFiles(ctx, pattern)))
}

// SearchFolders returns the names of all folders whose name contains pattern.
//
// It panics if the listing fails.
func (s *FileSystem) SearchFolders(ctx context.Context, pattern string) (names []string) {
	return must1(drivepathfs.CollectNames(s.fsys.SearchFolders(ctx, pattern)))
}

// FileExists reports whether a file exists at path.
//
// It panics if the remote query fails.
func (s *FileSystem) FileExists(ctx context.Context, path string) bool {
	return must1(s.fsys.FileExists(ctx, path))
}

// FolderExists reports whether the folder index holds a folder at path.
func (s *FileSystem) FolderExists(path string) bool {
	return s.fsys.FolderExists(path)
}
