package yangmodel

import (
	"bytes"
	"compress/gzip"
	"io/ioutil"
	"sync"
)

// SourceCache holds raw module source text, compressed in memory so a
// stored module does not hold the caller's buffer uncompressed for the
// lifetime of the context. Keyed by "name@revision" (revision may be
// empty). LoadModule does not add entries to a Context's cache.
type SourceCache struct {
	mu    sync.Mutex
	stash map[string][]byte
}

// NewSourceCache returns an empty cache.
func NewSourceCache() *SourceCache {
	return &SourceCache{stash: make(map[string][]byte)}
}

func sourceCacheKey(name, revision string) string {
	if revision == "" {
		return name
	}
	return name + "@" + revision
}

// Put compresses and stores src under name/revision, replacing any
// previous entry.
func (c *SourceCache) Put(name, revision string, src []byte) error {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stash[sourceCacheKey(name, revision)] = buf.Bytes()
	return nil
}

// Get returns the decompressed source previously stored for name/revision,
// and false if nothing is cached for that key.
func (c *SourceCache) Get(name, revision string) ([]byte, bool) {
	c.mu.Lock()
	gz, ok := c.stash[sourceCacheKey(name, revision)]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	gzr, err := gzip.NewReader(bytes.NewReader(gz))
	if err != nil {
		return nil, false
	}
	defer gzr.Close()
	src, err := ioutil.ReadAll(gzr)
	if err != nil {
		return nil, false
	}
	return src, true
}

// Len reports the number of cached module sources.
func (c *SourceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stash)
}
