package drivepathfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// DriveStore is a Store backed by the Google Drive API v3.
type DriveStore struct {
	service     *drive.Service
	corpora     string
	pageSize    int64
	moveToTrash bool
}

var _ Store = (*DriveStore)(nil)

// DriveOption configures a DriveStore.
type DriveOption func(*DriveStore)

// WithCorpora sets the corpora searched by listings ("user", "domain", "allDrives").
func WithCorpora(corpora string) DriveOption {
	return func(s *DriveStore) { s.corpora = corpora }
}

// WithPageSize sets the maximum number of objects per listing page.
func WithPageSize(pageSize int64) DriveOption {
	return func(s *DriveStore) { s.pageSize = pageSize }
}

// WithMoveToTrash makes DeleteObject move objects to the trash instead of deleting them permanently.
func WithMoveToTrash(moveToTrash bool) DriveOption {
	return func(s *DriveStore) { s.moveToTrash = moveToTrash }
}

// NewDriveStore creates a DriveStore with the given drive.Service.
// The service should be authenticated before being passed to this function.
func NewDriveStore(service *drive.Service, opts ...DriveOption) *DriveStore {
	s := &DriveStore{service: service}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const (
	driveFileFields  = "id,name,parents,mimeType"
	driveFilesFields = "nextPageToken,files(id,name,parents,mimeType)"
)

func (s *DriveStore) ListObjects(ctx context.Context, query Query, pageToken string) (page Page, err error) {
	call := s.service.Files.List().
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Q(compileQuery(query)).
		Fields(driveFilesFields).
		Context(ctx)
	if s.corpora != "" {
		call = call.Corpora(s.corpora)
	}
	if s.pageSize > 0 {
		call = call.PageSize(s.pageSize)
	}
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	list, err := call.Do()
	if err != nil {
		return Page{}, newRemoteError("failed to list files", err)
	}
	page.NextPageToken = list.NextPageToken
	for _, f := range list.Files {
		page.Objects = append(page.Objects, newObject(f))
	}
	return page, nil
}

func (s *DriveStore) CreateFolder(ctx context.Context, name string, parentID string) (id string, err error) {
	file := &drive.File{
		Name:     name,
		MimeType: MimeTypeFolder,
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}
	created, err := s.service.Files.Create(file).
		SupportsAllDrives(true).
		Fields(driveFileFields).
		Context(ctx).
		Do()
	if err != nil {
		return "", newRemoteError("failed to create folder", err)
	}
	return created.Id, nil
}

func (s *DriveStore) CreateFile(ctx context.Context, name string, parentID string, content io.Reader, mimeType string) (id string, err error) {
	file := &drive.File{
		Name:     name,
		MimeType: mimeType,
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}
	var mediaOptions []googleapi.MediaOption
	if mimeType != "" {
		mediaOptions = append(mediaOptions, googleapi.ContentType(mimeType))
	}
	created, err := s.service.Files.Create(file).
		SupportsAllDrives(true).
		Media(content, mediaOptions...).
		Fields(driveFileFields).
		Context(ctx).
		Do()
	if err != nil {
		return "", newRemoteError("failed to upload file", err)
	}
	return created.Id, nil
}

func (s *DriveStore) DeleteObject(ctx context.Context, id string) (err error) {
	if s.moveToTrash {
		_, err := s.service.Files.Update(id, &drive.File{Trashed: true}).
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return newRemoteError("failed to move file to trash", err)
		}
		return nil
	}
	err = s.service.Files.Delete(id).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return newRemoteError("failed to delete file", err)
	}
	return nil
}

func (s *DriveStore) DownloadObject(ctx context.Context, id string) (content io.ReadCloser, err error) {
	file, err := s.service.Files.Get(id).
		SupportsAllDrives(true).
		Fields(driveFileFields).
		Context(ctx).
		Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) && gErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("file '%s' not found: %w", id, ErrFileNotFound)
		}
		return nil, newRemoteError("failed to get file", err)
	}
	if newObject(file).IsAppFile() {
		return nil, fmt.Errorf("cannot download google-apps file '%s': %w", id, ErrNotReadable)
	}

	resp, err := s.service.Files.Get(id).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, newRemoteError("failed to download file", err)
	}
	return resp.Body, nil
}

func newObject(f *drive.File) Object {
	return Object{
		ID:        f.Id,
		Name:      f.Name,
		ParentIDs: f.Parents,
		Mime:      f.MimeType,
	}
}

// compileQuery renders q in the Drive search query language.
// Trashed objects are always excluded.
func compileQuery(q Query) string {
	var terms []string
	switch q.Kind {
	case KindFolder:
		terms = append(terms, fmt.Sprintf("mimeType = '%s'", MimeTypeFolder))
	case KindFile:
		terms = append(terms, fmt.Sprintf("mimeType != '%s'", MimeTypeFolder))
	}
	if q.NameEquals != "" {
		terms = append(terms, fmt.Sprintf("name = '%s'", escapeQuery(q.NameEquals)))
	}
	if q.NameContains != "" {
		terms = append(terms, fmt.Sprintf("name contains '%s'", escapeQuery(q.NameContains)))
	}
	if q.ParentID != "" {
		terms = append(terms, fmt.Sprintf("'%s' in parents", escapeQuery(q.ParentID)))
	}
	terms = append(terms, "trashed = false")
	return strings.Join(terms, " and ")
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return s
}
