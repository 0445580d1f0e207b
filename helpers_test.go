package drivepathfs_test

import (
	"context"
	"errors"
	"io"

	"github.com/Jumpaku/go-drivepathfs"
	fserrors "github.com/Jumpaku/go-drivepathfs/errors"
)

// pagedStore serves a fixed sequence of listing pages and fails every other call.
type pagedStore struct {
	pages    []drivepathfs.Page
	tokens   []string
	requests int
}

func (s *pagedStore) ListObjects(ctx context.Context, query drivepathfs.Query, pageToken string) (drivepathfs.Page, error) {
	s.tokens = append(s.tokens, pageToken)
	if s.requests >= len(s.pages) {
		return drivepathfs.Page{}, fserrors.NewRemoteError("no more pages", nil)
	}
	page := s.pages[s.requests]
	s.requests++
	return page, nil
}

func (s *pagedStore) CreateFolder(ctx context.Context, name string, parentID string) (string, error) {
	return "", errors.New("not supported")
}

func (s *pagedStore) CreateFile(ctx context.Context, name string, parentID string, content io.Reader, mimeType string) (string, error) {
	return "", errors.New("not supported")
}

func (s *pagedStore) DeleteObject(ctx context.Context, id string) error {
	return errors.New("not supported")
}

func (s *pagedStore) DownloadObject(ctx context.Context, id string) (io.ReadCloser, error) {
	return nil, errors.New("not supported")
}

type createCall struct {
	name     string
	parentID string
	id       string
}

// recordingStore records the calls made to the wrapped store.
// A call fails when its fail hook returns true.
type recordingStore struct {
	drivepathfs.Store
	lists         int
	createFolders []createCall
	createFiles   []createCall
	deletes       []string
	failCreate    func(name string) bool
}

func (s *recordingStore) ListObjects(ctx context.Context, query drivepathfs.Query, pageToken string) (drivepathfs.Page, error) {
	s.lists++
	return s.Store.ListObjects(ctx, query, pageToken)
}

func (s *recordingStore) CreateFolder(ctx context.Context, name string, parentID string) (string, error) {
	if s.failCreate != nil && s.failCreate(name) {
		return "", fserrors.NewRemoteError("failed to create folder", errors.New("quota exceeded"))
	}
	id, err := s.Store.CreateFolder(ctx, name, parentID)
	if err == nil {
		s.createFolders = append(s.createFolders, createCall{name: name, parentID: parentID, id: id})
	}
	return id, err
}

func (s *recordingStore) CreateFile(ctx context.Context, name string, parentID string, content io.Reader, mimeType string) (string, error) {
	id, err := s.Store.CreateFile(ctx, name, parentID, content, mimeType)
	if err == nil {
		s.createFiles = append(s.createFiles, createCall{name: name, parentID: parentID, id: id})
	}
	return id, err
}

func (s *recordingStore) DeleteObject(ctx context.Context, id string) error {
	s.deletes = append(s.deletes, id)
	return s.Store.DeleteObject(ctx, id)
}

func (s *recordingStore) calls() int {
	return s.lists + len(s.createFolders) + len(s.createFiles) + len(s.deletes)
}

func folder(id, name string, parentIDs ...string) drivepathfs.Object {
	return drivepathfs.Object{ID: id, Name: name, ParentIDs: parentIDs, Mime: drivepathfs.MimeTypeFolder}
}

func file(id, name string, parentIDs ...string) drivepathfs.Object {
	return drivepathfs.Object{ID: id, Name: name, ParentIDs: parentIDs, Mime: "text/plain"}
}

// closeFailingStore returns download bodies whose Close fails.
type closeFailingStore struct {
	drivepathfs.Store
}

type failingCloser struct {
	io.Reader
}

func (failingCloser) Close() error {
	return errors.New("close failed")
}

func (s *closeFailingStore) DownloadObject(ctx context.Context, id string) (io.ReadCloser, error) {
	body, err := s.Store.DownloadObject(ctx, id)
	if err != nil {
		return nil, err
	}
	return failingCloser{Reader: body}, nil
}
