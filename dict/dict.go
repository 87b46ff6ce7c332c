// Package dict provides a small refcounted string-interning table.
//
// It exists so repeated values decoded off the wire (leaf values, path
// segments, identity names) can share one backing string instead of each
// allocating its own copy; callers that no longer need an interned value
// release it so the table can reclaim it.
package dict

import "sync"

// Dictionary is a refcounted string interning table. The zero value is
// ready to use.
type Dictionary struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	s   string
	ref int
}

// Intern returns a string equal to s, reusing a previously interned copy
// and incrementing its reference count if one exists.
func (d *Dictionary) Intern(s string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.entries == nil {
		d.entries = make(map[string]*entry)
	}
	if e, ok := d.entries[s]; ok {
		e.ref++
		return e.s
	}
	e := &entry{s: s, ref: 1}
	d.entries[s] = e
	return e.s
}

// Release decrements the reference count of s and removes it from the
// table once it reaches zero. Releasing a string that was never interned
// is a no-op.
func (d *Dictionary) Release(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.entries[s]
	if !ok {
		return
	}
	e.ref--
	if e.ref <= 0 {
		delete(d.entries, s)
	}
}

// Len returns the number of distinct strings currently interned.
func (d *Dictionary) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
