package converter

import (
	"fmt"
	"sort"
)

// Registry is an immutable lookup table of converters keyed by tool id. It
// is built once at process start and passed by reference to whoever needs to
// dispatch on a tool name; there is no ambient global registry.
type Registry struct {
	byID map[string]Converter
}

// NewRegistry builds a registry from convs. Two converters claiming the same
// tool id is a programming error in the catalog and panics immediately at
// construction rather than shadowing one of them at dispatch time.
func NewRegistry(convs ...Converter) *Registry {
	byID := make(map[string]Converter, len(convs))
	for _, c := range convs {
		id := c.ToolID()
		if _, dup := byID[id]; dup {
			panic(fmt.Sprintf("converter: duplicate tool id %q", id))
		}
		byID[id] = c
	}
	return &Registry{byID: byID}
}

// Get returns the converter registered for tool id, if any.
func (r *Registry) Get(id string) (Converter, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// ToolIDs returns every registered tool id in sorted order, ready for help
// text and error messages.
func (r *Registry) ToolIDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every registered converter sorted by tool id.
func (r *Registry) All() []Converter {
	convs := make([]Converter, 0, len(r.byID))
	for _, c := range r.byID {
		convs = append(convs, c)
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].ToolID() < convs[j].ToolID() })
	return convs
}
