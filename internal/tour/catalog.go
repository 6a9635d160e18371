package tour

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
)

//go:embed tours.yaml
var defaultToursYAML []byte

type catalogFile struct {
	Tours []Tour `yaml:"tours"`
}

// Catalog holds the loaded tour definitions. It is safe for concurrent use;
// Reload swaps the full set atomically.
type Catalog struct {
	mu    sync.RWMutex
	tours map[string]Tour
	order []string
}

// ParseCatalog decodes a YAML catalog document and validates every tour.
func ParseCatalog(data []byte) (map[string]Tour, []string, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeTourInvalidDefinition, "parse tour catalog", err)
	}
	tours := make(map[string]Tour, len(file.Tours))
	order := make([]string, 0, len(file.Tours))
	for _, t := range file.Tours {
		if err := t.Validate(); err != nil {
			return nil, nil, err
		}
		if _, ok := tours[t.ID]; ok {
			return nil, nil, apperrors.WithMetadata(apperrors.CodeTourInvalidDefinition, "duplicate tour id", map[string]string{
				"TourID": t.ID,
			})
		}
		tours[t.ID] = t
		order = append(order, t.ID)
	}
	return tours, order, nil
}

// DefaultCatalog loads the embedded tour definitions.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(defaultToursYAML)
}

// NewCatalog builds a catalog from a YAML document.
func NewCatalog(data []byte) (*Catalog, error) {
	tours, order, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	return &Catalog{tours: tours, order: order}, nil
}

// LoadCatalog reads a catalog from path, falling back to the embedded
// defaults when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tour catalog: %w", err)
	}
	return NewCatalog(data)
}

// Tour returns the definition for id.
func (c *Catalog) Tour(id string) (Tour, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tours[id]
	return t, ok
}

// List returns all tours in catalog order.
func (c *Catalog) List() []Tour {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Tour, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.tours[id])
	}
	return out
}

// ListCategory returns the tours in the given category, in catalog order.
func (c *Catalog) ListCategory(category Category) []Tour {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Tour
	for _, id := range c.order {
		if t := c.tours[id]; t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Reload replaces the catalog contents from a YAML document. On parse or
// validation failure the current contents are kept.
func (c *Catalog) Reload(data []byte) error {
	tours, order, err := ParseCatalog(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.tours = tours
	c.order = order
	c.mu.Unlock()
	return nil
}

// Watch reloads the catalog whenever the file at path changes. Invalid
// replacements are logged and skipped; the previous catalog stays in
// effect. Watch blocks until the context is canceled.
func (c *Catalog) Watch(ctx context.Context, path string, logf func(format string, v ...any)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch tour catalog: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch tour catalog %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				logf("tour: reload %s: %v", path, err)
				continue
			}
			if err := c.Reload(data); err != nil {
				logf("tour: reload %s rejected: %v", path, err)
				continue
			}
			logf("tour: catalog reloaded from %s", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logf("tour: watch %s: %v", path, err)
		}
	}
}
