// Package memstore implements drivepathfs.Store in memory.
//
// Objects are flat and linked by parent identifiers as in Google Drive, so a single object
// may have several parents and names need not be unique within a folder.
// Listings are paginated with opaque continuation tokens.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"

	"github.com/Jumpaku/go-drivepathfs"
	fserrors "github.com/Jumpaku/go-drivepathfs/errors"
	"github.com/google/uuid"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 100

// Store is an in-memory drivepathfs.Store. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	objects  map[string]*entry
	order    []string
	pageSize int
}

type entry struct {
	object  drivepathfs.Object
	content []byte
}

var _ drivepathfs.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPageSize sets the maximum number of objects per listing page.
func WithPageSize(pageSize int) Option {
	return func(s *Store) { s.pageSize = pageSize }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{objects: map[string]*entry{}, pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(s)
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	return s
}

// Seed adds objects with caller-chosen identifiers, replacing existing objects with the same identifier.
// Parent references are stored as given and are not checked.
func (s *Store) Seed(objects ...drivepathfs.Object) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range objects {
		o.ParentIDs = slices.Clone(o.ParentIDs)
		if _, found := s.objects[o.ID]; !found {
			s.order = append(s.order, o.ID)
		}
		s.objects[o.ID] = &entry{object: o}
	}
}

// Len returns the number of objects held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *Store) ListObjects(ctx context.Context, query drivepathfs.Query, pageToken string) (page drivepathfs.Page, err error) {
	if err := ctx.Err(); err != nil {
		return drivepathfs.Page{}, fserrors.NewRemoteError("failed to list objects", err)
	}
	offset := 0
	if pageToken != "" {
		offset, err = strconv.Atoi(pageToken)
		if err != nil || offset < 0 {
			return drivepathfs.Page{}, fserrors.NewRemoteError("failed to list objects", fmt.Errorf("invalid page token %q", pageToken))
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := 0
	for _, id := range s.order {
		o := s.objects[id].object
		if !query.Match(o) {
			continue
		}
		if matched >= offset {
			if len(page.Objects) == s.pageSize {
				page.NextPageToken = strconv.Itoa(matched)
				break
			}
			o.ParentIDs = slices.Clone(o.ParentIDs)
			page.Objects = append(page.Objects, o)
		}
		matched++
	}
	return page, nil
}

func (s *Store) CreateFolder(ctx context.Context, name string, parentID string) (id string, err error) {
	return s.create(ctx, name, parentID, drivepathfs.MimeTypeFolder, nil)
}

func (s *Store) CreateFile(ctx context.Context, name string, parentID string, content io.Reader, mimeType string) (id string, err error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", fserrors.NewIOError("failed to read content", err)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return s.create(ctx, name, parentID, mimeType, data)
}

func (s *Store) create(ctx context.Context, name, parentID, mimeType string, content []byte) (id string, err error) {
	if err := ctx.Err(); err != nil {
		return "", fserrors.NewRemoteError("failed to create object", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o := drivepathfs.Object{ID: uuid.NewString(), Name: name, Mime: mimeType}
	if parentID != "" {
		parent, found := s.objects[parentID]
		if !found || !parent.object.IsFolder() {
			return "", fserrors.NewRemoteError("failed to create object", fmt.Errorf("parent folder '%s' not found", parentID))
		}
		o.ParentIDs = []string{parentID}
	}
	s.objects[o.ID] = &entry{object: o, content: content}
	s.order = append(s.order, o.ID)
	return o.ID, nil
}

// DeleteObject deletes the object with the given id.
// Deleting a folder also deletes every descendant left without a parent.
func (s *Store) DeleteObject(ctx context.Context, id string) (err error) {
	if err := ctx.Err(); err != nil {
		return fserrors.NewRemoteError("failed to delete object", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.objects[id]; !found {
		return fserrors.NewRemoteError("failed to delete object", fmt.Errorf("object '%s' not found", id))
	}
	deleted := map[string]bool{}
	pending := []string{id}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		deleted[current] = true
		delete(s.objects, current)
		for childID, child := range s.objects {
			if !slices.Contains(child.object.ParentIDs, current) {
				continue
			}
			child.object.ParentIDs = slices.DeleteFunc(child.object.ParentIDs, func(p string) bool { return p == current })
			if len(child.object.ParentIDs) == 0 {
				pending = append(pending, childID)
			}
		}
	}
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return deleted[id] })
	return nil
}

func (s *Store) DownloadObject(ctx context.Context, id string) (content io.ReadCloser, err error) {
	if err := ctx.Err(); err != nil {
		return nil, fserrors.NewRemoteError("failed to download object", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, found := s.objects[id]
	if !found {
		return nil, fmt.Errorf("object '%s' not found: %w", id, fserrors.ErrFileNotFound)
	}
	if e.object.IsAppFile() {
		return nil, fmt.Errorf("cannot download '%s': %w", id, fserrors.ErrNotReadable)
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(e.content))), nil
}
