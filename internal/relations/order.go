// internal/relations/order.go
package relations

import (
	"fmt"
)

// DependenciesOf returns the entities whose tables must exist before the
// table of name can be created, in registration order.
func (r *Registry) DependenciesOf(name string) []string {
	deps := make(map[string]bool)
	for _, a := range r.associations {
		switch {
		case a.Kind == BelongsTo && a.Source == name && a.Target != name:
			deps[a.Target] = true
		case (a.Kind == HasOne || a.Kind == HasMany) && a.Target == name && a.Source != name:
			deps[a.Source] = true
		}
	}

	var out []string
	for _, e := range r.entities {
		if deps[e.Name] {
			out = append(out, e.Name)
		}
	}
	return out
}

// SyncOrder returns the entities ordered so that every referenced table
// precedes the tables holding foreign keys to it. Entities keep their
// registration order unless a dependency has to be pulled forward.
func (r *Registry) SyncOrder() ([]Entity, error) {
	// Depth-first search with two sets of nodes:
	// permanent: already emitted.
	// temporary: on the current recursion stack.
	permanent := make(map[string]bool, len(r.entities))
	temporary := make(map[string]bool, len(r.entities))
	order := make([]Entity, 0, len(r.entities))

	var visit func(name string) error
	visit = func(name string) error {
		if permanent[name] {
			return nil
		}
		if temporary[name] {
			return fmt.Errorf("foreign-key cycle detected involving entity '%s'", name)
		}
		temporary[name] = true

		for _, dep := range r.DependenciesOf(name) {
			if err := visit(dep); err != nil {
				return err
			}
		}

		delete(temporary, name)
		permanent[name] = true
		order = append(order, r.byName[name])
		return nil
	}

	for _, e := range r.entities {
		if err := visit(e.Name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
