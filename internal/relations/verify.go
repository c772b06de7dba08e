// internal/relations/verify.go
package relations

import (
	"fmt"
	"sync"

	"gorm.io/gorm/schema"
)

var kindToGorm = map[Kind]schema.RelationshipType{
	HasOne:    schema.HasOne,
	HasMany:   schema.HasMany,
	BelongsTo: schema.BelongsTo,
}

// Verify checks every declared association against the GORM schema parsed
// from the entity models: the struct field must exist, carry the same kind
// of relationship, point at the target's table and use the declared
// foreign-key column.
func (r *Registry) Verify(namer schema.Namer) error {
	if namer == nil {
		namer = schema.NamingStrategy{}
	}
	cache := &sync.Map{}

	schemas := make(map[string]*schema.Schema, len(r.entities))
	for _, e := range r.entities {
		s, err := schema.Parse(e.Model, cache, namer)
		if err != nil {
			return fmt.Errorf("parse %s model: %w", e.Name, err)
		}
		schemas[e.Name] = s
	}

	for _, a := range r.associations {
		src := schemas[a.Source]
		rel, ok := src.Relationships.Relations[a.Field]
		if !ok {
			return fmt.Errorf("association %s: %s has no relationship field %q", a, a.Source, a.Field)
		}
		if rel.Type != kindToGorm[a.Kind] {
			return fmt.Errorf("association %s: model declares %s", a, rel.Type)
		}
		if want := schemas[a.Target].Table; rel.FieldSchema.Table != want {
			return fmt.Errorf("association %s: model points at table %q, want %q", a, rel.FieldSchema.Table, want)
		}

		matched := false
		for _, ref := range rel.References {
			if ref.ForeignKey != nil && ref.ForeignKey.DBName == a.ForeignKey {
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("association %s: model does not use foreign key column %q", a, a.ForeignKey)
		}
	}
	return nil
}
