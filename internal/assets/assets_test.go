package assets

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/Faultbox/penumbra/pkg/formats"
)

func TestCache(t *testing.T) {
	c := NewCache[int]()
	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache returned a value")
	}
	c.Set("a", 7)
	if v, ok := c.Get("a"); !ok || v != 7 {
		t.Errorf("Get: got %d, %v", v, ok)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats: got %d hits, %d misses", hits, misses)
	}
	c.Clear()
	if _, ok := c.Get("a"); ok {
		t.Error("Clear kept an entry")
	}
}

func TestManager_MeshLoadedOnce(t *testing.T) {
	m := NewManager()
	path := filepath.Join("..", "..", "pkg", "formats", "testdata", "cube.obj")

	a, err := m.Mesh(path)
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	b, err := m.Mesh(filepath.Join("..", "..", "pkg", "formats", "..", "formats", "testdata", "cube.obj"))
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if len(a) != 36 || &a[0] != &b[0] {
		t.Error("the same file under two spellings must share one vertex stream")
	}
	if hits, misses := m.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats: got %d hits, %d misses", hits, misses)
	}
}

func TestManager_ErrorsNotCached(t *testing.T) {
	m := NewManager()
	calls := 0
	m.loadImage = func(string) (*image.RGBA, error) {
		calls++
		return nil, errors.New("decode failed")
	}

	for i := 0; i < 2; i++ {
		if _, err := m.Image("broken.png"); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != 2 {
		t.Errorf("failed loads must be retried, got %d calls", calls)
	}
}

func TestManager_Close(t *testing.T) {
	m := NewManager()
	calls := 0
	m.loadMesh = func(string) ([]formats.Vertex, error) {
		calls++
		return make([]formats.Vertex, 3), nil
	}

	m.Mesh("tri.obj")
	m.Close()
	m.Mesh("tri.obj")
	if calls != 2 {
		t.Errorf("Close should drop cached meshes, got %d loads", calls)
	}
}
