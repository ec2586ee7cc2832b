package instrument

// Registry is an ordered arena of instruments keyed by ID.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	order []string
	byID  map[string]*Instrument
}

// NewRegistry builds a registry from instruments. Later entries with a
// duplicate ID replace earlier ones but keep the earlier position.
func NewRegistry(items ...Instrument) *Registry {
	r := &Registry{byID: make(map[string]*Instrument, len(items))}
	for _, it := range items {
		r.Put(it)
	}
	return r
}

// Put inserts or replaces the instrument with it.ID.
func (r *Registry) Put(it Instrument) {
	c := it.Clone()
	if _, ok := r.byID[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	r.byID[c.ID] = &c
}

// Get returns the live record for id. Mutations through the pointer are
// visible to later stages.
func (r *Registry) Get(id string) (*Instrument, bool) {
	it, ok := r.byID[id]
	return it, ok
}

// Len returns the number of instruments.
func (r *Registry) Len() int {
	return len(r.order)
}

// Each calls fn for every instrument in registry order.
func (r *Registry) Each(fn func(*Instrument)) {
	for _, id := range r.order {
		fn(r.byID[id])
	}
}

// Find returns the first instrument in registry order satisfying match.
func (r *Registry) Find(match func(*Instrument) bool) (*Instrument, bool) {
	for _, id := range r.order {
		if it := r.byID[id]; match(it) {
			return it, true
		}
	}
	return nil, false
}

// List returns deep copies of all instruments in registry order.
func (r *Registry) List() []Instrument {
	out := make([]Instrument, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}
