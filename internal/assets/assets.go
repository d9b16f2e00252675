// Package assets handles mesh and image loading with a per-path cache.
package assets

import (
	"image"
	"path/filepath"
	"sync"

	"github.com/Faultbox/penumbra/pkg/formats"
)

// Manager loads geometry and images from disk. Each file is decoded once;
// later requests for the same path share the decoded result.
type Manager struct {
	meshes *Cache[[]formats.Vertex]
	images *Cache[*image.RGBA]

	loadMesh  func(string) ([]formats.Vertex, error)
	loadImage func(string) (*image.RGBA, error)
}

// NewManager creates a manager reading through pkg/formats.
func NewManager() *Manager {
	return &Manager{
		meshes:    NewCache[[]formats.Vertex](),
		images:    NewCache[*image.RGBA](),
		loadMesh:  formats.LoadMesh,
		loadImage: formats.LoadImage,
	}
}

// Mesh returns the vertex stream of the geometry file at path.
func (m *Manager) Mesh(path string) ([]formats.Vertex, error) {
	return load(m.meshes, path, m.loadMesh)
}

// Image returns the decoded image at path.
func (m *Manager) Image(path string) (*image.RGBA, error) {
	return load(m.images, path, m.loadImage)
}

// Stats returns combined cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	mh, mm := m.meshes.Stats()
	ih, im := m.images.Stats()
	return mh + ih, mm + im
}

// Close drops every cached entry.
func (m *Manager) Close() {
	m.meshes.Clear()
	m.images.Clear()
}

func load[T any](c *Cache[T], path string, read func(string) (T, error)) (T, error) {
	key := cacheKey(path)
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := read(path)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Cache is a simple in-memory cache for loaded assets.
type Cache[T any] struct {
	data map[string]T
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{
		data: make(map[string]T),
	}
}

// Get retrieves an item from cache.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache[T]) Set(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Clear clears the cache.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]T)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache[T]) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
