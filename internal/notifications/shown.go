package notifications

import "slices"

// ShownRecord is the ordered set of ids that already produced an alert,
// capped at ShownLimit with oldest-first eviction. Not safe for concurrent
// use; the Worker serializes access.
type ShownRecord struct {
	ids []string
	set map[string]struct{}
}

func NewShownRecord(ids []string) *ShownRecord {
	r := &ShownRecord{set: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		r.Add(id)
	}
	r.trim()
	return r
}

func (r *ShownRecord) Has(id string) bool {
	_, ok := r.set[id]
	return ok
}

// Add appends id if absent. Callers trim once per pass.
func (r *ShownRecord) Add(id string) bool {
	if r.Has(id) {
		return false
	}
	r.ids = append(r.ids, id)
	r.set[id] = struct{}{}
	return true
}

func (r *ShownRecord) Len() int { return len(r.ids) }

// IDs returns the ids in arrival order.
func (r *ShownRecord) IDs() []string {
	out := slices.Clone(r.ids)
	if out == nil {
		out = []string{}
	}
	return out
}

func (r *ShownRecord) trim() {
	if len(r.ids) <= ShownLimit {
		return
	}
	drop := len(r.ids) - ShownLimit
	for _, id := range r.ids[:drop] {
		delete(r.set, id)
	}
	r.ids = slices.Clone(r.ids[drop:])
}
