package store

import (
	"context"
	"sort"
	"sync"

	json "github.com/goccy/go-json"

	"musicee/domain"
	"musicee/errs"
)

// Memory is an in-process Store. It exists for tests and for running the
// server without any persistence at all.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data: map[string]map[string][]byte{},
	}
}

var _ domain.Store = &Memory{}

// scan returns the documents of a collection in key order, decoded and
// raw, keeping iteration deterministic.
func (m *Memory) scan(collection string) (keys []string, raw [][]byte, decoded []map[string]any) {
	col := m.data[collection]
	sorted := make([]string, 0, len(col))
	for key := range col {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)
	for _, key := range sorted {
		var doc map[string]any
		if err := json.Unmarshal(col[key], &doc); err != nil {
			continue
		}
		keys = append(keys, key)
		raw = append(raw, col[key])
		decoded = append(decoded, doc)
	}
	return keys, raw, decoded
}

func (m *Memory) Get(ctx context.Context, collection string, filter domain.Filter) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, raw, decoded := m.scan(collection)
	for i, doc := range decoded {
		if matches(doc, filter) {
			return raw[i], nil
		}
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "No document matches in %s.", collection)
}

func (m *Memory) Find(ctx context.Context, collection string, filter domain.Filter) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out [][]byte
	_, raw, decoded := m.scan(collection)
	for i, doc := range decoded {
		if matches(doc, filter) {
			out = append(out, raw[i])
		}
	}
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(collection, doc)
}

func (m *Memory) InsertMany(ctx context.Context, collection string, docs []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		if err := m.insert(collection, doc); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) insert(collection string, doc any) error {
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
	if m.data[collection] == nil {
		m.data[collection] = map[string][]byte{}
	}
	m.data[collection][key] = data
	return nil
}

func (m *Memory) UpdateOne(ctx context.Context, collection string, filter, patch domain.Filter) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys, _, decoded := m.scan(collection)
	for i, doc := range decoded {
		if !matches(doc, filter) {
			continue
		}
		applyPatch(doc, patch)
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		m.data[collection][keys[i]] = data
		return data, nil
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "No document matches in %s.", collection)
}

func (m *Memory) DeleteOne(ctx context.Context, collection string, filter domain.Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys, _, decoded := m.scan(collection)
	for i, doc := range decoded {
		if matches(doc, filter) {
			delete(m.data[collection], keys[i])
			return nil
		}
	}
	return errs.Errorf(errs.ENOTFOUND, "No document matches in %s.", collection)
}

func (m *Memory) Count(ctx context.Context, collection string, filter domain.Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	_, _, decoded := m.scan(collection)
	for _, doc := range decoded {
		if matches(doc, filter) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) Close() error {
	return nil
}
