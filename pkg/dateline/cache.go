package dateline

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache memoizes which format parsed a given line shape. It is safe
// for concurrent use. Entries are never evicted implicitly; stale
// entries self-heal because a cache miss on a reused shape falls back
// to the full format search and overwrites the entry.
type Cache struct {
	mu      sync.Mutex
	entries map[string]string // signature -> format name
}

// NewCache creates an empty format cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Lookup returns the format name cached for a signature.
func (c *Cache) Lookup(signature string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.entries[signature]
	return name, ok
}

// Store records the format that parsed a signature, overwriting any
// previous entry.
func (c *Cache) Store(signature, formatName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[signature] = formatName
}

// Delete removes a single entry.
func (c *Cache) Delete(signature string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, signature)
}

// Clear removes all entries. This is the only bulk invalidation.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}

// Len returns the number of cached shapes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheFile is the on-disk YAML layout.
type cacheFile struct {
	Entries map[string]string `yaml:"entries"`
}

// SaveFile writes the cache to a YAML file at path.
func (c *Cache) SaveFile(path string) error {
	c.mu.Lock()
	snapshot := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}
	c.mu.Unlock()

	data, err := yaml.Marshal(cacheFile{Entries: snapshot})
	if err != nil {
		return fmt.Errorf("encoding format cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing format cache: %w", err)
	}
	return nil
}

// LoadFile replaces the cache contents with entries read from a YAML
// file previously written by SaveFile.
func (c *Cache) LoadFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided cache path is expected
	if err != nil {
		return fmt.Errorf("reading format cache: %w", err)
	}

	var f cacheFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing format cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = f.Entries
	if c.entries == nil {
		c.entries = make(map[string]string)
	}
	return nil
}
