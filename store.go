package drivepathfs

import (
	"context"
	"io"
	"slices"
	"strings"
)

// Kind restricts a Query to folders, non-folders, or both.
type Kind int

const (
	KindAny Kind = iota
	KindFolder
	KindFile
)

// Query is a filter over remote objects. Zero-valued fields do not filter.
type Query struct {
	Kind         Kind
	ParentID     string
	NameEquals   string
	NameContains string
}

// Match reports whether o satisfies q.
func (q Query) Match(o Object) bool {
	switch q.Kind {
	case KindFolder:
		if !o.IsFolder() {
			return false
		}
	case KindFile:
		if o.IsFolder() {
			return false
		}
	}
	if q.ParentID != "" && !slices.Contains(o.ParentIDs, q.ParentID) {
		return false
	}
	if q.NameEquals != "" && o.Name != q.NameEquals {
		return false
	}
	if q.NameContains != "" && !strings.Contains(o.Name, q.NameContains) {
		return false
	}
	return true
}

// Page is one page of a remote listing.
// An empty NextPageToken marks the last page.
type Page struct {
	Objects       []Object
	NextPageToken string
}

// Store is a remote object store holding files and folders as flat objects
// linked by parent identifiers.
//
// An empty parentID designates the top level of the store.
// Implementations report failures as errors matching ErrRemoteOperationFailed.
type Store interface {
	ListObjects(ctx context.Context, query Query, pageToken string) (page Page, err error)
	CreateFolder(ctx context.Context, name string, parentID string) (id string, err error)
	CreateFile(ctx context.Context, name string, parentID string, content io.Reader, mimeType string) (id string, err error)
	DeleteObject(ctx context.Context, id string) (err error)
	DownloadObject(ctx context.Context, id string) (content io.ReadCloser, err error)
}
