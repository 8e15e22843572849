package pipeline

import (
	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/domain/recommendation"
)

// DatasetLoader reads one raw entity table keyed by lowercased header.
type DatasetLoader interface {
	Load(typ entity.Type) ([]map[string]string, error)
}

// OutputWriter persists the full ranked result set.
type OutputWriter interface {
	Write(results map[string]map[entity.Type][]recommendation.Recommendation) error
}
