package domain

import (
	"context"
)

// Collection names of the document store.
const (
	ColUsers  = "users"
	ColTracks = "tracks"
)

// Filter is an equality match on document fields. A filter entry matches
// a document when the field equals the value, or when the field is an
// array that contains the value (so {"track_artist": "X"} matches a track
// crediting X among others).
type Filter map[string]any

// Store is a minimal document collection abstraction. Documents go in as
// any JSON-marshalable value and come back out as raw JSON, which callers
// decode into their own types. Implementations must treat patch maps in
// UpdateOne as a replacement of the named top-level fields only.
type Store interface {
	// Get returns the first document matching the filter,
	// or an ENOTFOUND error if there is none.
	Get(ctx context.Context, collection string, filter Filter) ([]byte, error)
	Find(ctx context.Context, collection string, filter Filter) ([][]byte, error)
	Insert(ctx context.Context, collection string, doc any) error
	InsertMany(ctx context.Context, collection string, docs []any) error
	// UpdateOne patches the first matching document and returns it
	// after the update, or an ENOTFOUND error if there is none.
	UpdateOne(ctx context.Context, collection string, filter, patch Filter) ([]byte, error)
	DeleteOne(ctx context.Context, collection string, filter Filter) error
	Count(ctx context.Context, collection string, filter Filter) (int, error)
	Close() error
}
