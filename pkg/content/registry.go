package content

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Options carries the settings a store factory may need.
type Options struct {
	ContentDir   string
	DatabasePath string
}

// StoreFactory creates a new store instance.
type StoreFactory func(ctx context.Context, opts Options) (Store, error)

// StoreInfo contains metadata about a store backend.
type StoreInfo struct {
	Name        string
	Description string
	Factory     StoreFactory
}

// Registry manages the available store backends.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*StoreInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]*StoreInfo),
	}
}

// Register adds a backend to the registry.
func (r *Registry) Register(name string, info *StoreInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stores[name]; exists {
		return fmt.Errorf("store %s is already registered", name)
	}

	r.stores[name] = info
	return nil
}

// Get retrieves a backend by name.
func (r *Registry) Get(name string) (*StoreInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.stores[name]
	if !exists {
		return nil, fmt.Errorf("store %s not found", name)
	}

	return info, nil
}

// List returns all registered backend names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Create instantiates the named backend.
func (r *Registry) Create(ctx context.Context, name string, opts Options) (Store, error) {
	info, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	store, err := info.Factory(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s store: %w", name, err)
	}

	slog.Debug("Created content store", "store", name)
	return store, nil
}

// DefaultRegistry holds the built-in backends.
var DefaultRegistry = NewRegistry()

func init() {
	register("file", &StoreInfo{
		Name:        "Markdown files",
		Description: "Markdown with YAML frontmatter under <content>/<collection>/",
		Factory: func(_ context.Context, opts Options) (Store, error) {
			return NewFileStore(opts.ContentDir), nil
		},
	})
	register("sqlite", &StoreInfo{
		Name:        "SQLite",
		Description: "Entries imported into an SQLite database",
		Factory: func(ctx context.Context, opts Options) (Store, error) {
			s, err := OpenSQLiteStore(ctx, opts.DatabasePath)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	})
}

func register(name string, info *StoreInfo) {
	if err := DefaultRegistry.Register(name, info); err != nil {
		slog.Warn("Failed to register store", "store", name, "error", err)
	}
}
