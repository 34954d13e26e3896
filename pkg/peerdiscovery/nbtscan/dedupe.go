package nbtscan

// Deduplicator remembers which targets already produced an accepted reply
// during one scan.
type Deduplicator struct {
	seen map[uint32]struct{}
}

// NewDeduplicator returns an empty set.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[uint32]struct{})}
}

// Observe records target and reports whether it was seen for the first time.
func (d *Deduplicator) Observe(target uint32) bool {
	if _, ok := d.seen[target]; ok {
		return false
	}
	d.seen[target] = struct{}{}
	return true
}

// Seen reports whether target has already replied.
func (d *Deduplicator) Seen(target uint32) bool {
	_, ok := d.seen[target]
	return ok
}

// Len returns the number of distinct targets that replied.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
