package tools

import (
	"sync"

	"github.com/custommcp/mcp-server/pkg/logging"
	"github.com/custommcp/mcp-server/pkg/models"
)

// Registry is the catalog of callable tools. It is populated before the
// server starts accepting connections and is read-mostly afterwards.
// Listing order is unspecified; clients must not rely on it.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	logger logging.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

// Register inserts a tool under its name. Registering a second tool with
// the same name replaces the first.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
	r.logger.Info("registered tool", "name", t.Name())
}

// Get returns the tool registered under name, if any.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	return list
}

// Schemas returns the tools/list entry for every registered tool.
func (r *Registry) Schemas() []models.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schemas := make([]models.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		schemas = append(schemas, Schema(t))
	}
	return schemas
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
