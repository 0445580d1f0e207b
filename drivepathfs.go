// Package drivepathfs provides a path-addressed file system over a remote object store
// that links objects by parent identifiers, such as Google Drive.
//
// Folder paths are resolved through an Index built once from a full listing of the store's
// folders and kept up to date as folders are created and deleted through the FileSystem.
// Files are not indexed; file operations query the store.
package drivepathfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/Jumpaku/go-drivepathfs/cache"
	"go.uber.org/zap"
)

// FileSystem provides path-based file and folder operations on a Store.
//
// The FileSystem assumes it is the only client changing the folder structure of the store.
// Calls block until the store responds and are not retried.
// FileSystem is not safe for concurrent use.
type FileSystem struct {
	store   Store
	index   *Index
	cache   cache.Cache[*Folder]
	logger  *zap.Logger
	tempDir string
}

// Option configures a FileSystem.
type Option func(*FileSystem)

// WithLogger sets the logger that failures of remote operations are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(s *FileSystem) { s.logger = logger }
}

// WithCache sets the cache the folder index is held in.
func WithCache(c cache.Cache[*Folder]) Option {
	return func(s *FileSystem) { s.cache = c }
}

// WithTempDir sets the directory ReadFile stores downloaded files in. The default is os.TempDir.
func WithTempDir(dir string) Option {
	return func(s *FileSystem) { s.tempDir = dir }
}

// New creates a FileSystem on store, building its folder index from a full listing of the store's folders.
func New(ctx context.Context, store Store, opts ...Option) (fsys *FileSystem, err error) {
	s := &FileSystem{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.NewMemory[*Folder]()
	}
	s.index = NewIndex(s.cache)
	if err := s.index.Reload(ctx, store); err != nil {
		s.logger.Error("failed to load folder index", zap.Error(err))
		return nil, err
	}
	s.logger.Info("folder index loaded", zap.Int("folders", s.index.Len()))
	return s, nil
}

// NewWithIndex creates a FileSystem on store using an index that has already been built.
func NewWithIndex(store Store, index *Index, opts ...Option) *FileSystem {
	s := &FileSystem{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.index = index
	return s
}

// Index returns the folder index of s.
func (s *FileSystem) Index() *Index {
	return s.index
}

// ListFiles lists the names of the files directly in the folder at path.
// The names are fetched lazily page by page while the sequence is consumed.
func (s *FileSystem) ListFiles(ctx context.Context, path string) (names iter.Seq2[string, error], err error) {
	folder, err := s.resolveFolder(path)
	if err != nil {
		return nil, err
	}
	l := NewLister(ctx, s.store, Query{Kind: KindFile, ParentID: folder.ID})
	return s.logFailures("failed to list files", path, l.Names()), nil
}

// ListFolders lists the names of the folders directly in the folder at path.
func (s *FileSystem) ListFolders(path string) (names []string, err error) {
	folder, err := s.resolveFolder(path)
	if err != nil {
		return nil, err
	}
	names = []string{}
	for _, child := range s.index.Children(folder) {
		names = append(names, child.Name)
	}
	return names, nil
}

// CreateFolder creates the folder at path, creating missing ancestors first.
// Ancestors created before a failure are kept.
func (s *FileSystem) CreateFolder(ctx context.Context, path string) (err error) {
	parent, name, err := ParsePath(path)
	if err != nil {
		return err
	}
	if _, found := s.index.Resolve(path); found {
		return fmt.Errorf("folder '%s': %w", path, ErrAlreadyExists)
	}
	var parentFolder *Folder
	if parent != "" {
		segments, err := splitPath(parent)
		if err != nil {
			return err
		}
		if parentFolder, err = s.ensureFolder(ctx, segments); err != nil {
			s.logger.Error("failed to create folder", zap.String("path", path), zap.Error(err))
			return err
		}
	}
	if _, err := s.createFolderIn(ctx, parentFolder, name); err != nil {
		s.logger.Error("failed to create folder", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

// DeleteFolder deletes the folder at path.
// Indexed subfolders of the deleted folder are not removed from the index.
func (s *FileSystem) DeleteFolder(ctx context.Context, path string) (err error) {
	folder, err := s.resolveFolder(path)
	if err != nil {
		return err
	}
	if err := s.store.DeleteObject(ctx, folder.ID); err != nil {
		s.logger.Error("failed to delete folder", zap.String("path", path), zap.Error(err))
		return err
	}
	s.index.Unregister(folder)
	return nil
}

// SaveFile uploads content as a new file at path, creating missing ancestor folders first.
func (s *FileSystem) SaveFile(ctx context.Context, path string, content io.Reader, mimeType string) (err error) {
	parent, name, err := ParsePath(path)
	if err != nil {
		return err
	}
	var parentID string
	if parent != "" {
		segments, err := splitPath(parent)
		if err != nil {
			return err
		}
		folder, err := s.ensureFolder(ctx, segments)
		if err != nil {
			s.logger.Error("failed to save file", zap.String("path", path), zap.Error(err))
			return err
		}
		parentID = folder.ID
	}
	if _, err := s.store.CreateFile(ctx, name, parentID, content, mimeType); err != nil {
		s.logger.Error("failed to save file", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

// DeleteFile deletes the file at path.
func (s *FileSystem) DeleteFile(ctx context.Context, path string) (err error) {
	fileID, err := s.resolveFile(ctx, path)
	if err != nil {
		return err
	}
	if err := s.store.DeleteObject(ctx, fileID); err != nil {
		s.logger.Error("failed to delete file", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

// ReadFile downloads the file at path into a local temporary file.
// The caller must Close the returned File to remove the temporary file.
func (s *FileSystem) ReadFile(ctx context.Context, path string) (file *File, err error) {
	fileID, err := s.resolveFile(ctx, path)
	if err != nil {
		return nil, err
	}
	body, err := s.store.DownloadObject(ctx, fileID)
	if err != nil {
		s.logger.Error("failed to read file", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	_, name, _ := ParsePath(path)
	file, err = newTempFile(s.tempDir, name, body)
	if closeErr := body.Close(); closeErr != nil {
		err = errors.Join(err, newIOError("failed to close file body", closeErr))
	}
	if err != nil {
		if file != nil {
			err = errors.Join(err, file.Close())
		}
		s.logger.Error("failed to read file", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return file, nil
}

// SearchFiles lists the names of all files whose name contains pattern, anywhere in the store.
func (s *FileSystem) SearchFiles(ctx context.Context, pattern string) (names iter.Seq2[string, error]) {
	l := NewLister(ctx, s.store, Query{Kind: KindFile, NameContains: pattern})
	return s.logFailures("failed to search files", pattern, l.Names())
}

// SearchFolders lists the names of all folders whose name contains pattern, anywhere in the store.
func (s *FileSystem) SearchFolders(ctx context.Context, pattern string) (names iter.Seq2[string, error]) {
	l := NewLister(ctx, s.store, Query{Kind: KindFolder, NameContains: pattern})
	return s.logFailures("failed to search folders", pattern, l.Names())
}

// FileExists reports whether a file exists at path. It queries the store, except when the
// parent folder of path is not indexed: then it reports false without a remote call.
func (s *FileSystem) FileExists(ctx context.Context, path string) (exists bool, err error) {
	_, err = s.resolveFile(ctx, path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrFolderNotFound):
		return false, nil
	default:
		return false, err
	}
}

// FolderExists reports whether the index holds a folder at path. The store is not queried.
func (s *FileSystem) FolderExists(path string) bool {
	_, found := s.index.Resolve(path)
	return found
}

func (s *FileSystem) resolveFolder(path string) (folder *Folder, err error) {
	folder, found := s.index.Resolve(path)
	if !found {
		return nil, fmt.Errorf("folder '%s': %w", path, ErrFolderNotFound)
	}
	return folder, nil
}

// resolveFile finds the identifier of the file at path by querying the store.
// If several files match, the first one returned by the store is used.
func (s *FileSystem) resolveFile(ctx context.Context, path string) (fileID string, err error) {
	parent, name, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	query := Query{Kind: KindFile, NameEquals: name}
	if parent != "" {
		folder, err := s.resolveFolder(parent)
		if err != nil {
			return "", err
		}
		query.ParentID = folder.ID
	}
	file, err := NewLister(ctx, s.store, query).Next()
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("file '%s': %w", path, ErrFileNotFound)
	}
	if err != nil {
		s.logger.Error("failed to find file", zap.String("path", path), zap.Error(err))
		return "", err
	}
	return file.ID, nil
}

// ensureFolder returns the folder at segments, creating it and its missing ancestors top-down.
func (s *FileSystem) ensureFolder(ctx context.Context, segments []string) (folder *Folder, err error) {
	for i, name := range segments {
		if existing, found := s.index.Resolve(joinSegments(segments[:i+1])); found {
			folder = existing
			continue
		}
		s.logger.Debug("creating missing folder", zap.String("path", joinSegments(segments[:i+1])))
		if folder, err = s.createFolderIn(ctx, folder, name); err != nil {
			return nil, err
		}
	}
	return folder, nil
}

// createFolderIn creates a folder in the store under parent, or at the top level if parent is nil, and indexes it.
func (s *FileSystem) createFolderIn(ctx context.Context, parent *Folder, name string) (folder *Folder, err error) {
	var parentID string
	if parent != nil {
		parentID = parent.ID
	}
	id, err := s.store.CreateFolder(ctx, name, parentID)
	if err != nil {
		return nil, err
	}
	return s.index.Register(id, name, parent), nil
}

func (s *FileSystem) logFailures(msg, path string, names iter.Seq2[string, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for name, err := range names {
			if err != nil {
				s.logger.Error(msg, zap.String("path", path), zap.Error(err))
			}
			if !yield(name, err) {
				return
			}
		}
	}
}
