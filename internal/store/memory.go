package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Repository used for unit tests and local runs
// without MongoDB. Documents are stored BSON-encoded, so callers never
// share memory with the store and filters see the same field names Mongo would.
type Memory[T any] struct {
	name   string
	unique []string

	mu   sync.RWMutex
	seq  int64
	docs map[primitive.ObjectID]*memEntry
}

type memEntry struct {
	seq int64
	raw []byte
}

func NewMemory[T any](name string, opts ...Option) *Memory[T] {
	o := buildOptions(opts)
	return &Memory[T]{name: name, unique: o.unique, docs: map[primitive.ObjectID]*memEntry{}}
}

func (m *Memory[T]) Name() string { return m.name }

func (m *Memory[T]) Insert(ctx context.Context, doc *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(doc, now())
}

func (m *Memory[T]) InsertMany(ctx context.Context, docs []*T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := now()
	// check the whole batch before writing anything
	seen := map[string]map[any]bool{}
	for _, d := range docs {
		fields, err := toM(d)
		if err != nil {
			return err
		}
		for _, u := range m.unique {
			v := normalize(fields[u])
			if seen[u] == nil {
				seen[u] = map[any]bool{}
			}
			if seen[u][v] || m.existsLocked(u, v, primitive.NilObjectID) {
				return fmt.Errorf("%w: %s.%s %v", ErrDuplicate, m.name, u, v)
			}
			seen[u][v] = true
		}
	}
	for _, d := range docs {
		if err := m.insertLocked(d, ts); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory[T]) insertLocked(doc *T, ts time.Time) error {
	b := base(doc)
	b.ID = primitive.NewObjectID()
	b.Version = 0
	b.Touch(ts)
	if err := m.checkUniqueLocked(doc, b.ID); err != nil {
		return err
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	m.seq++
	m.docs[b.ID] = &memEntry{seq: m.seq, raw: raw}
	return nil
}

func (m *Memory[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return decode[T](e.raw)
}

func (m *Memory[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches, err := m.matchLocked(f)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	// oldest first
	return matches[len(matches)-1].doc, nil
}

func (m *Memory[T]) List(ctx context.Context, lo ListOptions) ([]*T, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches, err := m.matchLocked(lo.Filter)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(matches))
	if lo.Limit > 0 {
		page := lo.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * lo.Limit
		if start > total {
			start = total
		}
		end := start + lo.Limit
		if end > total {
			end = total
		}
		matches = matches[start:end]
	}
	out := make([]*T, 0, len(matches))
	for _, mt := range matches {
		out = append(out, mt.doc)
	}
	return out, total, nil
}

func (m *Memory[T]) Replace(ctx context.Context, doc *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := base(doc)
	e, ok := m.docs[b.ID]
	if !ok {
		return ErrNotFound
	}
	stored, err := decode[T](e.raw)
	if err != nil {
		return err
	}
	if base(stored).Version != b.Version {
		return ErrConflict
	}
	if err := m.checkUniqueLocked(doc, b.ID); err != nil {
		return err
	}
	b.Version++
	b.UpdatedAt = now()
	raw, err := bson.Marshal(doc)
	if err != nil {
		b.Version--
		return err
	}
	e.raw = raw
	return nil
}

func (m *Memory[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *Memory[T]) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.docs))
	m.docs = map[primitive.ObjectID]*memEntry{}
	return n, nil
}

func (m *Memory[T]) Count(ctx context.Context, f Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches, err := m.matchLocked(f)
	if err != nil {
		return 0, err
	}
	return int64(len(matches)), nil
}

func (m *Memory[T]) EnsureDefault(ctx context.Context, def *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matches, err := m.matchLocked(nil)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return matches[len(matches)-1].doc, nil
	}
	if err := m.insertLocked(def, now()); err != nil {
		return nil, err
	}
	return decode[T](m.docs[base(def).ID].raw)
}

type match[T any] struct {
	seq int64
	doc *T
}

// matchLocked returns the documents matching f, newest first.
func (m *Memory[T]) matchLocked(f Filter) ([]match[T], error) {
	out := []match[T]{}
	for _, e := range m.docs {
		if len(f) > 0 {
			var fields bson.M
			if err := bson.Unmarshal(e.raw, &fields); err != nil {
				return nil, err
			}
			if !matches(fields, f) {
				continue
			}
		}
		d, err := decode[T](e.raw)
		if err != nil {
			return nil, err
		}
		out = append(out, match[T]{seq: e.seq, doc: d})
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := base(out[i].doc).CreatedAt, base(out[j].doc).CreatedAt
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return out[i].seq > out[j].seq
	})
	return out, nil
}

func (m *Memory[T]) checkUniqueLocked(doc *T, self primitive.ObjectID) error {
	if len(m.unique) == 0 {
		return nil
	}
	fields, err := toM(doc)
	if err != nil {
		return err
	}
	for _, u := range m.unique {
		if v := normalize(fields[u]); m.existsLocked(u, v, self) {
			return fmt.Errorf("%w: %s.%s %v", ErrDuplicate, m.name, u, v)
		}
	}
	return nil
}

func (m *Memory[T]) existsLocked(field string, v any, self primitive.ObjectID) bool {
	for id, e := range m.docs {
		if id == self {
			continue
		}
		var fields bson.M
		if err := bson.Unmarshal(e.raw, &fields); err != nil {
			continue
		}
		if reflect.DeepEqual(normalize(fields[field]), v) {
			return true
		}
	}
	return false
}

func matches(fields bson.M, f Filter) bool {
	for k, want := range f {
		if !reflect.DeepEqual(normalize(fields[k]), normalize(want)) {
			return false
		}
	}
	return true
}

// normalize folds the integer widths bson may pick for one Go value.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float32:
		return float64(n)
	}
	return v
}

func toM(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decode[T any](raw []byte) (*T, error) {
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
