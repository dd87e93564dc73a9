package store

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"musicee/domain"
	"musicee/errs"
)

// Badger is a Store backed by an embedded BadgerDB. Documents live under
// "collection/key" keys as plain JSON values. It is the default backend
// since it needs no external service.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger store at the given directory.
// An empty path opens an in-memory instance, which is what the tests use.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

var _ domain.Store = &Badger{}

func prefix(collection string) []byte {
	return []byte(collection + "/")
}

// walk iterates the documents of a collection in key order and calls fn
// with each raw value and its decoded form. Returning false stops the walk.
func (b *Badger) walk(txn *badger.Txn, collection string, fn func(key []byte, raw []byte, doc map[string]any) (bool, error)) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	p := prefix(collection)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		more, err := fn(item.KeyCopy(nil), raw, doc)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

func (b *Badger) Get(ctx context.Context, collection string, filter domain.Filter) ([]byte, error) {
	var found []byte
	err := b.db.View(func(txn *badger.Txn) error {
		return b.walk(txn, collection, func(_, raw []byte, doc map[string]any) (bool, error) {
			if matches(doc, filter) {
				found = raw
				return false, nil
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, errs.Errorf(errs.ENOTFOUND, "No document matches in %s.", collection)
	}
	return found, nil
}

func (b *Badger) Find(ctx context.Context, collection string, filter domain.Filter) ([][]byte, error) {
	var out [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		return b.walk(txn, collection, func(_, raw []byte, doc map[string]any) (bool, error) {
			if matches(doc, filter) {
				out = append(out, raw)
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Badger) Insert(ctx context.Context, collection string, doc any) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return insertTxn(txn, collection, doc)
	})
}

func (b *Badger) InsertMany(ctx context.Context, collection string, docs []any) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, doc := range docs {
			if err := insertTxn(txn, collection, doc); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertTxn(txn *badger.Txn, collection string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	key, err := docKey(collection, decoded)
	if err != nil {
		return err
	}
	return txn.Set(append(prefix(collection), key...), data)
}

func (b *Badger) UpdateOne(ctx context.Context, collection string, filter, patch domain.Filter) ([]byte, error) {
	var updated []byte
	err := b.db.Update(func(txn *badger.Txn) error {
		var foundKey []byte
		var foundDoc map[string]any
		err := b.walk(txn, collection, func(key, _ []byte, doc map[string]any) (bool, error) {
			if matches(doc, filter) {
				foundKey, foundDoc = key, doc
				return false, nil
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		if foundKey == nil {
			return errs.Errorf(errs.ENOTFOUND, "No document matches in %s.", collection)
		}
		applyPatch(foundDoc, patch)
		data, err := json.Marshal(foundDoc)
		if err != nil {
			return err
		}
		updated = data
		return txn.Set(foundKey, data)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (b *Badger) DeleteOne(ctx context.Context, collection string, filter domain.Filter) error {
	return b.db.Update(func(txn *badger.Txn) error {
		var foundKey []byte
		err := b.walk(txn, collection, func(key, _ []byte, doc map[string]any) (bool, error) {
			if matches(doc, filter) {
				foundKey = key
				return false, nil
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		if foundKey == nil {
			return errs.Errorf(errs.ENOTFOUND, "No document matches in %s.", collection)
		}
		return txn.Delete(foundKey)
	})
}

func (b *Badger) Count(ctx context.Context, collection string, filter domain.Filter) (int, error) {
	count := 0
	err := b.db.View(func(txn *badger.Txn) error {
		return b.walk(txn, collection, func(_, _ []byte, doc map[string]any) (bool, error) {
			if matches(doc, filter) {
				count++
			}
			return true, nil
		})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close flushes and closes the underlying BadgerDB.
func (b *Badger) Close() error {
	return b.db.Close()
}
