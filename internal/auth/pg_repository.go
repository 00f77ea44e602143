package auth

import (
	"context"

	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/google/uuid"
)

// Repository persists Operator accounts. Trimmed to what the control
// plane's login/lookup path needs — no account self-service CRUD, that
// being out of this engine's scope.
type Repository interface {
	Register(ctx context.Context, operator *models.Operator) (*models.Operator, error)
	GetByID(ctx context.Context, operatorID uuid.UUID) (*models.Operator, error)
	FindByEmail(ctx context.Context, operator *models.Operator) (*models.Operator, error)
}
