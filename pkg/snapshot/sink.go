package snapshot

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by MemorySink.Get for a missing key.
var ErrNotFound = errors.New("snapshot: not found")

// Object is one stored snapshot.
type Object struct {
	Key      string
	Body     []byte
	Metadata map[string]string
}

// Sink stores snapshot objects.
type Sink interface {
	Put(ctx context.Context, obj Object) error
}

// MemorySink keeps objects in memory. It is safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	objects map[string]Object
}

// NewMemorySink creates an empty memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{objects: make(map[string]Object)}
}

// Put implements Sink.
func (m *MemorySink) Put(_ context.Context, obj Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.Key] = obj
	return nil
}

// Get returns the object stored under key.
func (m *MemorySink) Get(key string) (Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

// Keys returns the stored keys, sorted.
func (m *MemorySink) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
