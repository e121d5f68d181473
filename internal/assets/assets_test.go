package assets

import (
	"path/filepath"
	"testing"

	"github.com/Faultbox/eclipse/pkg/archive"
	"github.com/Faultbox/eclipse/pkg/formats"
)

// quadWalkmesh is a 4x4 stone floor in the packed format.
func quadWalkmesh() *formats.Walkmesh {
	return &formats.Walkmesh{
		Vertices: [][3]float32{
			{0, 0, 0},
			{4, 0, 0},
			{4, 0, 4},
			{0, 0, 4},
		},
		Faces: []formats.WalkmeshFace{
			{Verts: [3]int32{0, 1, 2}, Adjacent: [3]int32{formats.NoAdjacency, formats.NoAdjacency, 1}, Material: 4},
			{Verts: [3]int32{0, 2, 3}, Adjacent: [3]int32{0, formats.NoAdjacency, formats.NoAdjacency}, Material: 4},
		},
	}
}

// newTestManager builds a manager over one archive holding the given
// resources.
func newTestManager(t *testing.T, files map[string][]byte) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module.earc")

	w, err := archive.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for name, data := range files {
		if err := w.Add(name, data); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m := NewManager()
	if err := m.AddArchive(path); err != nil {
		t.Fatalf("AddArchive: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestManager_ReadSurface(t *testing.T) {
	m := newTestManager(t, map[string][]byte{
		"rooms/tavern.wmf": formats.EncodeWalkmesh(quadWalkmesh()),
	})

	s, err := m.ReadSurface("rooms/tavern")
	if err != nil {
		t.Fatalf("ReadSurface: %v", err)
	}
	if len(s.Vertices) != 4 || len(s.Faces) != 2 {
		t.Fatalf("got %d vertices, %d faces", len(s.Vertices), len(s.Faces))
	}
	if s.Faces[0].Adjacent[2] != 1 {
		t.Errorf("adjacency lost in conversion: %v", s.Faces[0].Adjacent)
	}
	if !s.Faces[0].Material.Walkable() {
		t.Error("stone material should convert walkable")
	}
}

func TestManager_ReadSurface_Missing(t *testing.T) {
	m := newTestManager(t, nil)
	if _, err := m.ReadSurface("rooms/nowhere"); err == nil {
		t.Error("expected error for missing surface resource")
	}
}

func TestManager_ReadSurface_Corrupt(t *testing.T) {
	m := newTestManager(t, map[string][]byte{
		"rooms/bad.wmf": []byte("not a walkmesh"),
	})
	if _, err := m.ReadSurface("rooms/bad"); err == nil {
		t.Error("expected parse error for corrupt walkmesh")
	}
}

func TestManager_LoadCaches(t *testing.T) {
	m := newTestManager(t, map[string][]byte{
		"rooms/tavern.wmf": formats.EncodeWalkmesh(quadWalkmesh()),
	})

	if _, err := m.Load("rooms/tavern.wmf"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load("rooms/tavern.wmf"); err != nil {
		t.Fatal(err)
	}

	hits, _ := m.cache.Stats()
	if hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}
}

func TestManager_ArchivePriority(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, files map[string][]byte) string {
		t.Helper()
		path := filepath.Join(dir, name)
		w, err := archive.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		for n, d := range files {
			if err := w.Add(n, d); err != nil {
				t.Fatal(err)
			}
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		return path
	}

	base := write("base.earc", map[string][]byte{"a.bin": []byte("base")})
	patch := write("patch.earc", map[string][]byte{"a.bin": []byte("patch")})

	m := NewManager()
	if err := m.AddArchive(base); err != nil {
		t.Fatal(err)
	}
	if err := m.AddArchive(patch); err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	data, err := m.Load("a.bin")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "patch" {
		t.Errorf("Load = %q, want the later archive to win", data)
	}
}
