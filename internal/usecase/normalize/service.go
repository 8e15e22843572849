// Package normalize maps heterogeneous source records onto canonical
// entity records using per-type schema alias lists.
package normalize

import (
	"strings"

	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/domain/schema"
)

// Service normalizes raw tabular records.
type Service struct{}

// New creates a normalizer service.
func New() *Service {
	return &Service{}
}

// Normalize resolves a raw record against the schema. Missing source columns
// degrade to empty values and never fail; the second return value is false
// when the record has no usable identifier and must be dropped.
func (s *Service) Normalize(sch schema.Schema, record map[string]string) (entity.Entity, bool) {
	fields := make(map[string]string, len(sch.Fields()))
	id := ""
	for _, f := range sch.Fields() {
		value, _ := f.Resolve(record)
		value = strings.TrimSpace(value)
		if f.Kind() == schema.Identifier {
			id = value
			continue
		}
		fields[f.Name()] = value
	}
	if id == "" {
		return entity.Entity{}, false
	}
	return entity.Reconstruct(id, sch.EntityType(), fields), true
}

// NormalizeAll normalizes a batch of records, returning the kept entities and
// the count of rows dropped for lacking an identifier.
func (s *Service) NormalizeAll(sch schema.Schema, records []map[string]string) ([]entity.Entity, int) {
	entities := make([]entity.Entity, 0, len(records))
	dropped := 0
	for _, record := range records {
		e, ok := s.Normalize(sch, record)
		if !ok {
			dropped++
			continue
		}
		entities = append(entities, e)
	}
	return entities, dropped
}
