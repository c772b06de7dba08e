// internal/relations/relations.go
package relations

import (
	"fmt"
)

// Kind is the cardinality of an association, seen from its source entity.
type Kind string

const (
	HasOne    Kind = "has_one"
	HasMany   Kind = "has_many"
	BelongsTo Kind = "belongs_to"
)

// Entity names a model the registry knows about.
type Entity struct {
	Name  string
	Model any // pointer to the GORM model, e.g. &models.User{}
}

// Association is one side of a relationship. Both sides of a bidirectional
// relationship are declared as separate rows sharing the same ForeignKey.
type Association struct {
	Source     string
	Target     string
	Kind       Kind
	ForeignKey string // column name on the owning table
	Alias      string // traversal name used by API consumers
	Field      string // struct field on Source that carries the association
}

func (a Association) String() string {
	return fmt.Sprintf("%s.%s -[%s %s]-> %s", a.Source, a.Alias, a.Kind, a.ForeignKey, a.Target)
}

// Registry is the immutable catalog of entities and their associations.
type Registry struct {
	entities     []Entity
	byName       map[string]Entity
	associations []Association
	byAlias      map[string]map[string]Association
}

// New builds a registry. Entity order is significant: it breaks ties when
// computing the sync order.
func New(entities []Entity, associations []Association) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]Entity, len(entities)),
		byAlias: make(map[string]map[string]Association, len(entities)),
	}

	for _, e := range entities {
		if e.Name == "" || e.Model == nil {
			return nil, fmt.Errorf("entity must have a name and a model")
		}
		if _, dup := r.byName[e.Name]; dup {
			return nil, fmt.Errorf("entity %q registered twice", e.Name)
		}
		r.byName[e.Name] = e
		r.byAlias[e.Name] = make(map[string]Association)
		r.entities = append(r.entities, e)
	}

	for _, a := range associations {
		if _, ok := r.byName[a.Source]; !ok {
			return nil, fmt.Errorf("association %s: unknown source entity", a)
		}
		if _, ok := r.byName[a.Target]; !ok {
			return nil, fmt.Errorf("association %s: unknown target entity", a)
		}
		switch a.Kind {
		case HasOne, HasMany, BelongsTo:
		default:
			return nil, fmt.Errorf("association %s: unknown kind", a)
		}
		if a.ForeignKey == "" || a.Alias == "" || a.Field == "" {
			return nil, fmt.Errorf("association %s: foreign key, alias and field are required", a)
		}
		if a.Alias == a.ForeignKey {
			return nil, fmt.Errorf("association %s: alias must differ from the foreign key", a)
		}
		if _, dup := r.byAlias[a.Source][a.Alias]; dup {
			return nil, fmt.Errorf("association %s: alias already used on %s", a, a.Source)
		}
		r.byAlias[a.Source][a.Alias] = a
		r.associations = append(r.associations, a)
	}

	return r, nil
}

// Entities returns the registered entities in registration order.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

func (r *Registry) Entity(name string) (Entity, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Associations returns every declared association in declaration order.
func (r *Registry) Associations() []Association {
	out := make([]Association, len(r.associations))
	copy(out, r.associations)
	return out
}

// Lookup resolves an alias on a source entity.
func (r *Registry) Lookup(source, alias string) (Association, bool) {
	a, ok := r.byAlias[source][alias]
	return a, ok
}

// AliasesOf lists the aliases reachable from source, in declaration order.
func (r *Registry) AliasesOf(source string) []string {
	var out []string
	for _, a := range r.associations {
		if a.Source == source {
			out = append(out, a.Alias)
		}
	}
	return out
}
