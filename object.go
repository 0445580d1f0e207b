package drivepathfs

import (
	"strings"
)

const (
	// MimeTypeFolder is the MIME type the remote store assigns to folders.
	MimeTypeFolder = "application/vnd.google-apps.folder"

	mimeTypePrefixGoogleApp = "application/vnd.google-apps."
)

// Object is one entry of a remote listing.
type Object struct {
	ID        string
	Name      string
	ParentIDs []string
	Mime      string
}

func (o Object) IsFolder() bool {
	return o.Mime == MimeTypeFolder
}

// IsAppFile reports whether o is a Google Apps document, which cannot be downloaded as-is.
func (o Object) IsAppFile() bool {
	return strings.HasPrefix(o.Mime, mimeTypePrefixGoogleApp)
}
