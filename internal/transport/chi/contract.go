package chi

import (
	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/repository/output"
)

// OutputReader reads the produced recommendation files for the viewer.
type OutputReader interface {
	LoadUsers() ([]string, error)
	LoadUser(userID string) (output.UserRecommendations, error)
	LoadByType(typ entity.Type) ([]output.Entry, error)
}
