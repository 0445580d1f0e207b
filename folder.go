package drivepathfs

// Folder is one remote folder known to the Index.
//
// Relations to other folders are held as identifiers and resolved through the Index,
// which owns every Folder value.
type Folder struct {
	ID   string
	Name string

	// RemoteParentID is the parent reference reported by the store, empty for top-level folders.
	// Only the first reference is kept when the store reports several.
	RemoteParentID string

	// ParentID is the indexed parent. It is empty for top-level folders and for folders
	// whose remote parent is not indexed; such folders are treated as top-level.
	ParentID string

	// FullName is the '/'-joined path of names from the top level down to this folder.
	FullName string

	ChildIDs []string
}
