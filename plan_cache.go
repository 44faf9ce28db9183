package tsv

import (
	"reflect"
	"sync"
)

// PlanCache provides thread-safe caching of compiled plans per Go type.
//
// Only complete plans are ever stored, so a plan loaded from the cache can be
// executed right away. Compilation itself is serialised by the owning
// Registry.
type PlanCache struct {
	cache sync.Map // map[reflect.Type]*Plan
}

// NewPlanCache creates a new thread-safe plan cache
func NewPlanCache() *PlanCache {
	return &PlanCache{}
}

// Get retrieves the plan for typ if it exists
func (pc *PlanCache) Get(typ reflect.Type) (*Plan, bool) {
	if v, ok := pc.cache.Load(typ); ok {
		return v.(*Plan), true
	}
	return nil, false
}

// Store caches plan for typ, keeping an existing entry if there is one.
// It returns the plan that ends up cached.
func (pc *PlanCache) Store(typ reflect.Type, plan *Plan) *Plan {
	actual, _ := pc.cache.LoadOrStore(typ, plan)
	return actual.(*Plan)
}

// Delete removes the plan for typ
func (pc *PlanCache) Delete(typ reflect.Type) {
	pc.cache.Delete(typ)
}

// Clear removes all cached plans
func (pc *PlanCache) Clear() {
	pc.cache.Clear()
}

// Len returns the number of cached plans.
func (pc *PlanCache) Len() int {
	n := 0
	pc.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
