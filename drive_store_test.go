package drivepathfs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func TestCompileQuery(t *testing.T) {
	cases := []struct {
		name  string
		query Query
		want  string
	}{
		{"zero", Query{}, "trashed = false"},
		{"folders", Query{Kind: KindFolder}, "mimeType = 'application/vnd.google-apps.folder' and trashed = false"},
		{
			"files in parent",
			Query{Kind: KindFile, ParentID: "p1", NameEquals: "a.txt"},
			"mimeType != 'application/vnd.google-apps.folder' and name = 'a.txt' and 'p1' in parents and trashed = false",
		},
		{"search", Query{Kind: KindFile, NameContains: "inv"}, "mimeType != 'application/vnd.google-apps.folder' and name contains 'inv' and trashed = false"},
		{"quoted name", Query{NameEquals: "it's"}, `name = 'it\'s' and trashed = false`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := compileQuery(c.query); got != c.want {
				t.Fatalf("compileQuery() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestEscapeQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"it's", `it\'s`},
		{`a\b`, `a\\b`},
		{`\'`, `\\\'`},
		{"", ""},
	}

	for _, c := range cases {
		if got := escapeQuery(c.in); got != c.want {
			t.Errorf("escapeQuery(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// fakeDrive serves the subset of the Drive v3 REST API used by DriveStore.
type fakeDrive struct {
	listQueries []string
	pageTokens  []string
	corpora     []string
	pageSizes   []string
	pages       map[string]*drive.FileList
	created     []*drive.File
	uploaded    []string
	deleted     []string
	trashed     []string
	files       map[string]*drive.File
	content     map[string]string
	failStatus  int
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		pages:   map[string]*drive.FileList{},
		files:   map[string]*drive.File{},
		content: map[string]string{},
	}
}

func (d *fakeDrive) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /files", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		d.listQueries = append(d.listQueries, q.Get("q"))
		d.pageTokens = append(d.pageTokens, q.Get("pageToken"))
		d.corpora = append(d.corpora, q.Get("corpora"))
		d.pageSizes = append(d.pageSizes, q.Get("pageSize"))
		if d.failStatus != 0 {
			writeError(w, d.failStatus)
			return
		}
		page, found := d.pages[q.Get("pageToken")]
		if !found {
			page = &drive.FileList{}
		}
		writeJSON(w, page)
	})
	mux.HandleFunc("POST /files", func(w http.ResponseWriter, r *http.Request) {
		var f drive.File
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		d.created = append(d.created, &f)
		f.Id = "folder-" + f.Name
		writeJSON(w, &f)
	})
	mux.HandleFunc("POST /upload/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		meta, err := mr.NextPart()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var f drive.File
		if err := json.NewDecoder(meta).Decode(&f); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		media, err := mr.NextPart()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(media)
		d.created = append(d.created, &f)
		d.uploaded = append(d.uploaded, string(data))
		f.Id = "file-" + f.Name
		writeJSON(w, &f)
	})
	mux.HandleFunc("GET /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		f, found := d.files[r.PathValue("id")]
		if !found {
			writeError(w, http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("alt") == "media" {
			io.WriteString(w, d.content[f.Id])
			return
		}
		writeJSON(w, f)
	})
	mux.HandleFunc("DELETE /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		d.deleted = append(d.deleted, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PATCH /files/{id}", func(w http.ResponseWriter, r *http.Request) {
		var f drive.File
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if f.Trashed {
			d.trashed = append(d.trashed, r.PathValue("id"))
		}
		f.Id = r.PathValue("id")
		writeJSON(w, &f)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "message": http.StatusText(status)},
	})
}

func newTestDriveStore(t *testing.T, d *fakeDrive, opts ...DriveOption) *DriveStore {
	t.Helper()
	srv := httptest.NewServer(d.handler())
	t.Cleanup(srv.Close)
	service, err := drive.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("drive.NewService() error = %v", err)
	}
	return NewDriveStore(service, opts...)
}

func TestDriveStore_ListObjects(t *testing.T) {
	d := newFakeDrive()
	d.pages[""] = &drive.FileList{
		NextPageToken: "t2",
		Files: []*drive.File{
			{Id: "1", Name: "docs", Parents: []string{"root"}, MimeType: MimeTypeFolder},
			{Id: "2", Name: "a.txt", Parents: []string{"1"}, MimeType: "text/plain"},
		},
	}
	d.pages["t2"] = &drive.FileList{
		Files: []*drive.File{{Id: "3", Name: "b.txt", Parents: []string{"1"}, MimeType: "text/plain"}},
	}
	s := newTestDriveStore(t, d, WithCorpora("allDrives"), WithPageSize(2))
	ctx := context.Background()

	names, err := CollectNames(NewLister(ctx, s, Query{ParentID: "1"}).Names())
	if err != nil {
		t.Fatalf("CollectNames() error = %v", err)
	}
	if want := []string{"docs", "a.txt", "b.txt"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	if want := []string{"", "t2"}; !reflect.DeepEqual(d.pageTokens, want) {
		t.Errorf("page tokens = %v, want %v", d.pageTokens, want)
	}
	if d.listQueries[0] != "'1' in parents and trashed = false" {
		t.Errorf("q = %q", d.listQueries[0])
	}
	if d.corpora[0] != "allDrives" || d.pageSizes[0] != "2" {
		t.Errorf("corpora, pageSize = %q, %q, want allDrives, 2", d.corpora[0], d.pageSizes[0])
	}

	page, err := s.ListObjects(ctx, Query{}, "")
	if err != nil {
		t.Fatalf("ListObjects() error = %v", err)
	}
	if got := page.Objects[0]; got.ID != "1" || !got.IsFolder() || !reflect.DeepEqual(got.ParentIDs, []string{"root"}) {
		t.Errorf("Objects[0] = %+v", got)
	}
}

func TestDriveStore_ListObjectsFailure(t *testing.T) {
	d := newFakeDrive()
	d.failStatus = http.StatusForbidden
	s := newTestDriveStore(t, d)

	if _, err := s.ListObjects(context.Background(), Query{}, ""); !errors.Is(err, ErrRemoteOperationFailed) {
		t.Fatalf("ListObjects() error = %v, want ErrRemoteOperationFailed", err)
	}
}

func TestDriveStore_CreateFolder(t *testing.T) {
	d := newFakeDrive()
	s := newTestDriveStore(t, d)

	id, err := s.CreateFolder(context.Background(), "reports", "p1")
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if id != "folder-reports" {
		t.Errorf("CreateFolder() = %q, want %q", id, "folder-reports")
	}
	got := d.created[0]
	if got.MimeType != MimeTypeFolder || !reflect.DeepEqual(got.Parents, []string{"p1"}) {
		t.Errorf("created = %+v", got)
	}

	if _, err := s.CreateFolder(context.Background(), "top", ""); err != nil {
		t.Fatalf("CreateFolder(top) error = %v", err)
	}
	if len(d.created[1].Parents) != 0 {
		t.Errorf("top-level folder parents = %v, want none", d.created[1].Parents)
	}
}

func TestDriveStore_CreateFile(t *testing.T) {
	d := newFakeDrive()
	s := newTestDriveStore(t, d)

	id, err := s.CreateFile(context.Background(), "a.csv", "p1", strings.NewReader("x,y"), "text/csv")
	if err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}
	if id != "file-a.csv" {
		t.Errorf("CreateFile() = %q, want %q", id, "file-a.csv")
	}
	if got := d.created[0]; got.Name != "a.csv" || !reflect.DeepEqual(got.Parents, []string{"p1"}) {
		t.Errorf("created = %+v", got)
	}
	if d.uploaded[0] != "x,y" {
		t.Errorf("uploaded = %q, want %q", d.uploaded[0], "x,y")
	}
}

func TestDriveStore_DeleteObject(t *testing.T) {
	t.Run("permanent", func(t *testing.T) {
		d := newFakeDrive()
		s := newTestDriveStore(t, d)
		if err := s.DeleteObject(context.Background(), "42"); err != nil {
			t.Fatalf("DeleteObject() error = %v", err)
		}
		if !reflect.DeepEqual(d.deleted, []string{"42"}) || len(d.trashed) != 0 {
			t.Errorf("deleted, trashed = %v, %v", d.deleted, d.trashed)
		}
	})
	t.Run("trash", func(t *testing.T) {
		d := newFakeDrive()
		s := newTestDriveStore(t, d, WithMoveToTrash(true))
		if err := s.DeleteObject(context.Background(), "42"); err != nil {
			t.Fatalf("DeleteObject() error = %v", err)
		}
		if !reflect.DeepEqual(d.trashed, []string{"42"}) || len(d.deleted) != 0 {
			t.Errorf("deleted, trashed = %v, %v", d.deleted, d.trashed)
		}
	})
}

func TestDriveStore_DownloadObject(t *testing.T) {
	d := newFakeDrive()
	d.files["1"] = &drive.File{Id: "1", Name: "a.txt", MimeType: "text/plain"}
	d.content["1"] = "hello"
	d.files["2"] = &drive.File{Id: "2", Name: "plan", MimeType: "application/vnd.google-apps.document"}
	s := newTestDriveStore(t, d)
	ctx := context.Background()

	body, err := s.DownloadObject(ctx, "1")
	if err != nil {
		t.Fatalf("DownloadObject(1) error = %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "hello" {
		t.Errorf("content = %q, want %q", string(data), "hello")
	}

	if _, err := s.DownloadObject(ctx, "2"); !errors.Is(err, ErrNotReadable) {
		t.Errorf("DownloadObject(2) error = %v, want ErrNotReadable", err)
	}
	if _, err := s.DownloadObject(ctx, "3"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("DownloadObject(3) error = %v, want ErrFileNotFound", err)
	}
}
