package tour

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

const catalogYAML = `
tours:
  - id: first
    name: First
    category: welcome
    steps:
      - id: a
        title: A
  - id: second
    name: Second
    category: feature
    steps:
      - id: b
        title: B
        target: "#b"
        placement: tooltip
`

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog() error = %v", err)
	}
	welcome, ok := c.Tour("welcome-tour")
	if !ok {
		t.Fatal("embedded catalog missing welcome-tour")
	}
	if len(welcome.Steps) != 5 {
		t.Fatalf("welcome-tour steps = %d, want 5", len(welcome.Steps))
	}
	if welcome.Category != CategoryWelcome {
		t.Fatalf("welcome-tour category = %v, want welcome", welcome.Category)
	}
	for _, tr := range c.List() {
		if err := tr.Validate(); err != nil {
			t.Fatalf("embedded tour %s invalid: %v", tr.ID, err)
		}
	}
}

func TestNewCatalogOrderAndCategories(t *testing.T) {
	c, err := NewCatalog([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	all := c.List()
	if len(all) != 2 || all[0].ID != "first" || all[1].ID != "second" {
		t.Fatalf("List() = %+v, want first then second", all)
	}
	features := c.ListCategory(CategoryFeature)
	if len(features) != 1 || features[0].ID != "second" {
		t.Fatalf("ListCategory(feature) = %+v, want second", features)
	}
}

func TestNewCatalogRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "malformed yaml", yaml: "tours: ["},
		{name: "invalid tour", yaml: "tours:\n  - id: x\n    name: X\n    category: bogus\n    steps:\n      - id: a\n        title: A\n"},
		{name: "duplicate tour id", yaml: `
tours:
  - id: dup
    name: One
    category: welcome
    steps:
      - id: a
        title: A
  - id: dup
    name: Two
    category: welcome
    steps:
      - id: a
        title: A
`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog([]byte(tc.yaml))
			var appErr *apperrors.Error
			if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeTourInvalidDefinition {
				t.Fatalf("NewCatalog() error = %v, want %v", err, apperrors.CodeTourInvalidDefinition)
			}
		})
	}
}

func TestCatalogReloadKeepsOldOnFailure(t *testing.T) {
	c, err := NewCatalog([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	if err := c.Reload([]byte("tours: [")); err == nil {
		t.Fatal("Reload() with malformed yaml must fail")
	}
	if _, ok := c.Tour("first"); !ok {
		t.Fatal("failed reload must keep the previous catalog")
	}
}

func TestCatalogWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tours.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Watch(ctx, path, func(string, ...any) {})
	}()
	// Give the goroutine time to register the watch before rewriting,
	// otherwise the write event fires before the watcher exists.
	time.Sleep(200 * time.Millisecond)

	updated := `
tours:
  - id: replacement
    name: Replacement
    category: welcome
    steps:
      - id: a
        title: A
`
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewrite catalog: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ok := c.Tour("replacement"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("catalog was not reloaded after file change")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
