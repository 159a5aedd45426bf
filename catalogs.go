package bridge

import (
	"sort"

	"github.com/mayanksingh09/ollama-mcp-client-sub000/internal/registry"
	"github.com/mayanksingh09/ollama-mcp-client-sub000/tool"
)

// Catalogs is a concurrency-safe collection of named tool catalogs, so an
// application can keep separate tool sets per conversation or per model.
type Catalogs struct {
	reg registry.Registry[tool.Catalog]
}

// NewCatalogs creates an empty catalog collection.
func NewCatalogs() *Catalogs {
	return &Catalogs{reg: registry.New[tool.Catalog]()}
}

// Register stores a catalog under a name, replacing any previous one.
func (c *Catalogs) Register(name string, catalog tool.Catalog) {
	c.reg.Add(name, catalog)
}

// Lookup returns the catalog registered under name.
func (c *Catalogs) Lookup(name string) (tool.Catalog, bool) {
	return c.reg.Get(name)
}

// Remove drops the catalog registered under name.
func (c *Catalogs) Remove(name string) {
	c.reg.Del(name)
}

// Names lists the registered catalog names in sorted order.
func (c *Catalogs) Names() []string {
	names := c.reg.Names()
	sort.Strings(names)
	return names
}
