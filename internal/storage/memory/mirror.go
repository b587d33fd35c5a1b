// Package memory stores mirrored artifacts in-memory for development
// and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Object is one mirrored artifact.
type Object struct {
	ContentType string
	Data        []byte
}

// Mirror records mirrored artifacts and returns pseudo URIs.
type Mirror struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMirror creates an empty in-memory mirror.
func NewMirror() *Mirror {
	return &Mirror{objects: make(map[string]Object)}
}

// PutObject stores a copy of the artifact under the given path.
func (m *Mirror) PutObject(_ context.Context, path string, contentType string, data []byte) (string, error) {
	if path == "" {
		return "", fmt.Errorf("object path is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = Object{
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}
	return fmt.Sprintf("memory://%s", path), nil
}

// Object returns the stored artifact and whether it exists.
func (m *Mirror) Object(path string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	return obj, ok
}

// Len reports how many artifacts have been mirrored.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
