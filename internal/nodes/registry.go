package nodes

// SharedKeyRegistry maps node ids to base64 share keys wrapped with the
// master key. A registry belongs to exactly one resolution pass and is not
// safe for concurrent use.
type SharedKeyRegistry struct {
	entries []SharedKey
	index   map[string]int
}

// NewSharedKeyRegistry returns a registry seeded from the top-level share list.
func NewSharedKeyRegistry(seed []SharedKey) *SharedKeyRegistry {
	r := &SharedKeyRegistry{index: make(map[string]int, len(seed))}
	for _, e := range seed {
		r.Add(e.ID, e.Key)
	}
	return r
}

// Add registers a key for id unless one is already present. Registration
// is forward-only: the first entry for an id wins.
func (r *SharedKeyRegistry) Add(id, key string) bool {
	if _, ok := r.index[id]; ok {
		return false
	}
	r.index[id] = len(r.entries)
	r.entries = append(r.entries, SharedKey{ID: id, Key: key})
	return true
}

// Lookup returns the wrapped key registered for id.
func (r *SharedKeyRegistry) Lookup(id string) (string, bool) {
	i, ok := r.index[id]
	if !ok {
		return "", false
	}
	return r.entries[i].Key, true
}

// Len returns the number of registered keys.
func (r *SharedKeyRegistry) Len() int {
	return len(r.entries)
}

// Entries returns the registered keys in registration order.
func (r *SharedKeyRegistry) Entries() []SharedKey {
	return append([]SharedKey(nil), r.entries...)
}
