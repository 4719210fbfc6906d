package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BaseItem is a catalog template. Concrete inventory items are stamped from
// it at grant time; the copy is a snapshot, later template edits never reach
// items already in the world.
type BaseItem struct {
	Name   string `yaml:"name"`
	Icon   string `yaml:"icon"`
	W      int    `yaml:"w"`
	H      int    `yaml:"h"`
	Kind   string `yaml:"kind"`
	Tier   int    `yaml:"tier"`
	Damage int    `yaml:"damage"`
	Food   int    `yaml:"food"`
}

// Catalog holds all base item templates indexed by exact name.
type Catalog struct {
	items map[string]*BaseItem
	order []string
}

// Get returns a template by exact name, or nil if not found.
func (c *Catalog) Get(name string) *BaseItem {
	return c.items[name]
}

// All returns every template in file order.
func (c *Catalog) All() []*BaseItem {
	out := make([]*BaseItem, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}

// Count returns total loaded templates.
func (c *Catalog) Count() int {
	return len(c.items)
}

// NewCatalog builds a catalog from in-memory templates. Servers load from
// YAML; this is for tests and tooling.
func NewCatalog(items ...BaseItem) *Catalog {
	c := &Catalog{items: make(map[string]*BaseItem, len(items))}
	for i := range items {
		it := items[i]
		if it.W < 1 {
			it.W = 1
		}
		if it.H < 1 {
			it.H = 1
		}
		c.items[it.Name] = &it
		c.order = append(c.order, it.Name)
	}
	return c
}

type itemListFile struct {
	Items []BaseItem `yaml:"items"`
}

// LoadCatalog loads the base item YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	var f itemListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse items: %w", err)
	}

	c := &Catalog{items: make(map[string]*BaseItem, len(f.Items))}
	for i := range f.Items {
		it := &f.Items[i]
		if it.Name == "" {
			return nil, fmt.Errorf("item %d: missing name", i)
		}
		if it.W < 1 {
			it.W = 1
		}
		if it.H < 1 {
			it.H = 1
		}
		if _, dup := c.items[it.Name]; dup {
			return nil, fmt.Errorf("duplicate item name %q", it.Name)
		}
		c.items[it.Name] = it
		c.order = append(c.order, it.Name)
	}
	return c, nil
}
