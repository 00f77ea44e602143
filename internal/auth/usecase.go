package auth

import (
	"context"

	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/google/uuid"
)

// UseCase implements operator registration, login, and the identity
// lookup AuthJWTMiddleware needs to resolve a bearer token to an
// Operator.
type UseCase interface {
	Register(ctx context.Context, operator *models.Operator) (*models.OperatorWithToken, error)
	Login(ctx context.Context, operator *models.Operator) (*models.OperatorWithToken, error)
	GetByID(ctx context.Context, operatorID uuid.UUID) (*models.Operator, error)
}
