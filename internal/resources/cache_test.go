package resources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, root, kind, id, content string) {
	t.Helper()
	dir := filepath.Join(root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, id), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadReadsFile(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "data", "greeting.txt", "hello")

	c, err := NewCache(root)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	defer c.Close()

	data, err := c.Load("data", "greeting.txt")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Load() = %q, want %q", data, "hello")
	}
}

func TestLoadServesFromCache(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "data", "greeting.txt", "hello")

	c, err := NewCache(root)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	defer c.Close()

	if _, err := c.Load("data", "greeting.txt"); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Changing the file on disk must not change what a cached load returns
	writeAsset(t, root, "data", "greeting.txt", "changed")
	data, err := c.Load("data", "greeting.txt")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Load() = %q, want cached %q", data, "hello")
	}
}

func TestClearDropsCachedAssets(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "data", "greeting.txt", "hello")

	c, err := NewCache(root)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	defer c.Close()

	if _, err := c.Load("data", "greeting.txt"); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	writeAsset(t, root, "data", "greeting.txt", "changed")
	c.Clear()

	data, err := c.Load("data", "greeting.txt")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(data) != "changed" {
		t.Errorf("Load() after Clear = %q, want %q", data, "changed")
	}
}

func TestLoadMissingAsset(t *testing.T) {
	c, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	defer c.Close()

	if _, err := c.Load("data", "absent.txt"); err == nil {
		t.Error("Load of missing asset succeeded, want error")
	}
}

func TestJSON(t *testing.T) {
	root := t.TempDir()
	writeAsset(t, root, "data", "wolf.json", `{"name": "Wolf", "hp": 12}`)
	writeAsset(t, root, "data", "broken.json", `{"name": `)

	c, err := NewCache(root)
	if err != nil {
		t.Fatalf("NewCache() error: %v", err)
	}
	defer c.Close()

	var creature struct {
		Name string `json:"name"`
		HP   int    `json:"hp"`
	}
	if err := c.JSON("data", "wolf.json", &creature); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if creature.Name != "Wolf" || creature.HP != 12 {
		t.Errorf("JSON() = %+v, want Wolf/12", creature)
	}

	if err := c.JSON("data", "broken.json", &creature); err == nil {
		t.Error("JSON of malformed asset succeeded, want error")
	}
}
