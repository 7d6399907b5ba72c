package binding

import (
	"sort"

	"github.com/Veratay/mecanum-trajopt/internal/expr"
)

// Registry holds the key → expression mapping. A binding exists only while
// its expression is non-blank; binding a blank string removes the entry so
// the field's value stays literal until re-bound.
type Registry struct {
	bindings map[Key]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[Key]string)}
}

// Bind associates an expression with a field. A blank expression clears the
// binding instead.
func (r *Registry) Bind(key Key, expression string) {
	if expr.IsBlank(expression) {
		delete(r.bindings, key)
		return
	}
	r.bindings[key] = expression
}

// Unbind removes a binding. Reports whether one existed.
func (r *Registry) Unbind(key Key) bool {
	_, had := r.bindings[key]
	delete(r.bindings, key)
	return had
}

// Get returns the expression bound to a field.
func (r *Registry) Get(key Key) (string, bool) {
	e, ok := r.bindings[key]
	return e, ok
}

// Len returns the number of live bindings.
func (r *Registry) Len() int {
	return len(r.bindings)
}

// Keys returns every bound key sorted by canonical string form. Iteration
// over the map directly would be nondeterministic; everything that walks
// all bindings goes through here.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.bindings))
	for k := range r.bindings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// FindUsages reports every binding whose expression references the given
// variable. Tokenization is total, so bindings holding malformed
// expressions are simply skipped. Used to warn before a variable is deleted.
func (r *Registry) FindUsages(variableName string) []Key {
	var used []Key
	for _, k := range r.Keys() {
		if expr.References(r.bindings[k], variableName) {
			used = append(used, k)
		}
	}
	return used
}

// RemoveVariableBindings deletes every binding referencing the variable and
// returns the removed keys. This is the deletion cascade run after the user
// confirms removing a still-referenced variable; bindings on other
// variables are untouched.
func (r *Registry) RemoveVariableBindings(variableName string) []Key {
	removed := r.FindUsages(variableName)
	for _, k := range removed {
		delete(r.bindings, k)
	}
	return removed
}

// RemoveTrajectoryBindings deletes every binding addressing the given
// trajectory (waypoint, constraint, and solver-setting keys). Called when a
// trajectory is deleted so stale bindings do not accumulate.
func (r *Registry) RemoveTrajectoryBindings(trajectoryID string) []Key {
	var removed []Key
	for _, k := range r.Keys() {
		if k.TrajectoryID == trajectoryID {
			removed = append(removed, k)
			delete(r.bindings, k)
		}
	}
	return removed
}
