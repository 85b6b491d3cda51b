package huffman

import "sync"

// Cache memoizes uniform codes by their limit. The shape of a uniform code
// depends only on the number of symbols so entries never need invalidating.
// A Cache is safe for concurrent use. The zero value is an empty Cache using
// default Options.
type Cache struct {
	opts Options

	mu    sync.RWMutex
	codes map[int]*Code
}

// NewCache returns an empty Cache building codes with opts.
func NewCache(opts Options) *Cache {
	return &Cache{
		opts:  opts,
		codes: make(map[int]*Code),
	}
}

// Uniform returns the uniform code for symbols 0 to limit inclusive.
func (c *Cache) Uniform(limit int) (*Code, error) {
	c.mu.RLock()
	code, ok := c.codes[limit]
	c.mu.RUnlock()
	if ok {
		return code, nil
	}

	// Built outside the lock; a concurrent build of the same limit produces
	// an identical code
	code, err := Uniform(limit, c.opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.codes == nil {
		c.codes = make(map[int]*Code)
	}
	if existing, ok := c.codes[limit]; ok {
		code = existing
	} else {
		c.codes[limit] = code
	}
	c.mu.Unlock()

	return code, nil
}

// Len returns the number of cached codes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.codes)
}
