package drivepathfs

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Jumpaku/go-drivepathfs/cache"
)

// Index is the in-memory folder tree of a Store.
//
// It is built once by Reload from a full listing of the store's folders and afterwards
// kept up to date only through Register and Unregister. It is never refreshed on its own:
// changes made to the store by other clients stay invisible until the next Reload.
// Lookups never reach the store; a miss means the folder is unknown.
//
// Every folder is held in the cache under two keys, one for its identifier and one
// for its full name. Index is not safe for concurrent use.
type Index struct {
	cache   cache.Cache[*Folder]
	members map[string]struct{}
}

// NewIndex creates an empty Index holding its folders in c.
func NewIndex(c cache.Cache[*Folder]) *Index {
	return &Index{cache: c, members: map[string]struct{}{}}
}

func idKey(id string) string {
	return "id:" + id
}

func pathKey(fullName string) string {
	return "path:" + fullName
}

// Reload replaces the contents of the index with a full listing of the folders in store.
//
// A folder whose parent is not listed is treated as top-level. Of several parent references,
// only the first is kept. Reload fails with ErrParentCycle if the parent links form a cycle.
func (idx *Index) Reload(ctx context.Context, store Store) (err error) {
	folders := map[string]*Folder{}
	var order []string
	for o, err := range NewLister(ctx, store, Query{Kind: KindFolder}).Objects() {
		if err != nil {
			return fmt.Errorf("failed to list folders: %w", err)
		}
		if _, found := folders[o.ID]; found {
			continue
		}
		f := &Folder{ID: o.ID, Name: o.Name}
		if len(o.ParentIDs) > 0 {
			f.RemoteParentID = o.ParentIDs[0]
		}
		folders[o.ID] = f
		order = append(order, o.ID)
	}

	for _, id := range order {
		f := folders[id]
		if f.RemoteParentID == "" {
			continue
		}
		parent, found := folders[f.RemoteParentID]
		if !found {
			continue
		}
		f.ParentID = parent.ID
		parent.ChildIDs = append(parent.ChildIDs, f.ID)
	}

	for _, id := range order {
		f := folders[id]
		if f.FullName, err = fullNameOf(folders, f); err != nil {
			return err
		}
	}

	idx.clear()
	for _, id := range order {
		idx.put(folders[id])
	}
	return nil
}

// fullNameOf walks the parent links of f up to the top level.
func fullNameOf(folders map[string]*Folder, f *Folder) (string, error) {
	names := []string{f.Name}
	for parentID := f.ParentID; parentID != ""; parentID = folders[parentID].ParentID {
		if len(names) > len(folders) {
			return "", fmt.Errorf("folder '%s' is its own ancestor: %w", f.ID, ErrParentCycle)
		}
		names = append(names, folders[parentID].Name)
	}
	slices.Reverse(names)
	return strings.Join(names, "/"), nil
}

// Register adds the folder just created in the store under parent, or at the top level if parent is nil.
func (idx *Index) Register(id, name string, parent *Folder) *Folder {
	f := &Folder{ID: id, Name: name, FullName: name}
	if parent != nil {
		f.RemoteParentID = parent.ID
		f.ParentID = parent.ID
		f.FullName = parent.FullName + "/" + name
		parent.ChildIDs = append(parent.ChildIDs, id)
		idx.put(parent)
	}
	idx.put(f)
	return f
}

// Unregister removes the folder just deleted from the store.
// Descendants of f are left in the index.
func (idx *Index) Unregister(f *Folder) {
	if f.ParentID != "" {
		if parent, found := idx.ByID(f.ParentID); found {
			parent.ChildIDs = slices.DeleteFunc(parent.ChildIDs, func(id string) bool { return id == f.ID })
			idx.put(parent)
		}
	}
	idx.cache.Remove(idKey(f.ID))
	if current, found := idx.Resolve(f.FullName); found && current.ID == f.ID {
		idx.cache.Remove(pathKey(f.FullName))
	}
	delete(idx.members, f.ID)
}

// Resolve looks up a folder by path. Both '/' and '\' are accepted as separators.
func (idx *Index) Resolve(path string) (folder *Folder, found bool) {
	return idx.cache.Get(pathKey(normalizePath(path)))
}

// ByID looks up a folder by its remote identifier.
func (idx *Index) ByID(id string) (folder *Folder, found bool) {
	return idx.cache.Get(idKey(id))
}

// Children returns the indexed subfolders of f.
func (idx *Index) Children(f *Folder) (children []*Folder) {
	for _, id := range f.ChildIDs {
		if child, found := idx.ByID(id); found {
			children = append(children, child)
		}
	}
	return children
}

// Len returns the number of indexed folders.
func (idx *Index) Len() int {
	return len(idx.members)
}

func (idx *Index) put(f *Folder) {
	idx.cache.Set(idKey(f.ID), f)
	idx.cache.Set(pathKey(f.FullName), f)
	idx.members[f.ID] = struct{}{}
}

func (idx *Index) clear() {
	for id := range idx.members {
		if f, found := idx.ByID(id); found {
			idx.cache.Remove(pathKey(f.FullName))
		}
		idx.cache.Remove(idKey(id))
	}
	idx.members = map[string]struct{}{}
}
