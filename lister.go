package drivepathfs

import (
	"context"
	"errors"
	"io"
	"iter"
)

// Lister pulls the results of a Query from a Store one page at a time.
//
// Each page is requested only when the previous one has been consumed,
// using the continuation token the previous page returned.
// A Lister is forward-only: once exhausted or failed it yields nothing more,
// and listing again requires a new Lister.
type Lister struct {
	ctx      context.Context
	store    Store
	query    Query
	token    string
	buffer   []Object
	done     bool
	err      error
	requests int
}

// NewLister creates a Lister for query. No request is issued until Next is called.
func NewLister(ctx context.Context, store Store, query Query) *Lister {
	return &Lister{ctx: ctx, store: store, query: query}
}

// Next returns the next object of the listing, or io.EOF when the listing is exhausted.
func (l *Lister) Next() (Object, error) {
	for len(l.buffer) == 0 {
		if l.err != nil {
			return Object{}, l.err
		}
		if l.done {
			return Object{}, io.EOF
		}
		l.fetch()
	}
	o := l.buffer[0]
	l.buffer = l.buffer[1:]
	return o, nil
}

func (l *Lister) fetch() {
	l.requests++
	page, err := l.store.ListObjects(l.ctx, l.query, l.token)
	if err != nil {
		l.err = err
		return
	}
	l.buffer = page.Objects
	l.token = page.NextPageToken
	if l.token == "" {
		l.done = true
	}
}

// Requests returns the number of page requests issued so far.
func (l *Lister) Requests() int {
	return l.requests
}

// Objects returns the remaining objects as a sequence.
// A failure is yielded once as the last element.
func (l *Lister) Objects() iter.Seq2[Object, error] {
	return func(yield func(Object, error) bool) {
		for {
			o, err := l.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Object{}, err)
				return
			}
			if !yield(o, nil) {
				return
			}
		}
	}
}

// Names returns the names of the remaining objects as a sequence.
func (l *Lister) Names() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for o, err := range l.Objects() {
			if !yield(o.Name, err) {
				return
			}
		}
	}
}

// CollectNames drains seq into a slice, stopping at the first error.
func CollectNames(seq iter.Seq2[string, error]) (names []string, err error) {
	for name, err := range seq {
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}
