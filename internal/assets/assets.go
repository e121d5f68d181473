// Package assets handles module resource loading and caching, and turns
// packed walkmesh resources into navigation surfaces.
package assets

import (
	"fmt"
	"sync"

	"github.com/Faultbox/eclipse/internal/engine/nav"
	"github.com/Faultbox/eclipse/pkg/archive"
	"github.com/Faultbox/eclipse/pkg/formats"
	"github.com/Faultbox/eclipse/pkg/math"
)

// WalkmeshExt is the resource extension surface names resolve to.
const WalkmeshExt = ".wmf"

// Manager handles resource loading from module archives. It implements
// nav.SurfaceReader.
type Manager struct {
	archives []*archive.Archive
	cache    *Cache
	mu       sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddArchive adds a module archive to the manager.
// Archives are searched in reverse order (last added = highest priority).
func (m *Manager) AddArchive(path string) error {
	a, err := archive.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}

	m.mu.Lock()
	m.archives = append(m.archives, a)
	m.mu.Unlock()

	return nil
}

// Load loads a resource from the archives.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.archives) - 1; i >= 0; i-- {
		data, err := m.archives[i].Read(path)
		if err == nil {
			m.cache.Set(path, data)
			return data, nil
		}
	}

	return nil, fmt.Errorf("resource not found: %s", path)
}

// ReadSurface loads and parses the walkmesh resource for the named
// surface. Implements nav.SurfaceReader.
func (m *Manager) ReadSurface(name string) (*nav.Surface, error) {
	data, err := m.Load(name + WalkmeshExt)
	if err != nil {
		return nil, err
	}

	mesh, err := formats.ParseWalkmesh(data)
	if err != nil {
		return nil, fmt.Errorf("surface %s: %w", name, err)
	}

	s := surfaceFromWalkmesh(mesh)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("surface %s: %w", name, err)
	}
	return s, nil
}

// Close closes all archives.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.archives {
		a.Close()
	}
	m.archives = nil
	m.cache.Clear()
}

// surfaceFromWalkmesh converts the on-disk walkmesh representation into
// a navigation surface. Adjacency uses -1 for "none" in both.
func surfaceFromWalkmesh(mesh *formats.Walkmesh) *nav.Surface {
	s := &nav.Surface{
		Vertices: make([]math.Vec3, len(mesh.Vertices)),
		Faces:    make([]nav.Face, len(mesh.Faces)),
	}
	for i, v := range mesh.Vertices {
		s.Vertices[i] = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	}
	for i, f := range mesh.Faces {
		s.Faces[i] = nav.Face{
			Verts:    f.Verts,
			Adjacent: f.Adjacent,
			Material: nav.Material(f.Material),
		}
	}
	return s
}

// Cache is a simple in-memory cache for loaded resources.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
