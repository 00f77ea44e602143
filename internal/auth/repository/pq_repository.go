package repository

import (
	"context"
	"fmt"

	"github.com/sridhargunnam/framefeatures/internal/auth"
	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type authRepo struct {
	db *sqlx.DB
}

func NewAuthRepo(db *sqlx.DB) auth.Repository {
	return &authRepo{
		db: db,
	}
}

func (a *authRepo) Register(ctx context.Context, operator *models.Operator) (*models.Operator, error) {
	o := &models.Operator{}
	err := a.db.QueryRowxContext(
		ctx,
		createOperator,
		&operator.Username,
		&operator.Email,
		&operator.Password,
		&operator.Role,
	).StructScan(o)
	if err != nil {
		return nil, fmt.Errorf("failed to create operator: %v", err)
	}
	return o, nil
}

func (a *authRepo) GetByID(ctx context.Context, operatorID uuid.UUID) (*models.Operator, error) {
	o := &models.Operator{}
	if err := a.db.QueryRowxContext(
		ctx,
		getOperatorByID,
		operatorID,
	).StructScan(o); err != nil {
		return nil, fmt.Errorf("failed to get operator: %v", err)
	}
	return o, nil
}

func (a *authRepo) FindByEmail(ctx context.Context, operator *models.Operator) (*models.Operator, error) {
	o := &models.Operator{}
	if err := a.db.QueryRowxContext(
		ctx,
		getOperatorByEmail,
		&operator.Email,
	).StructScan(o); err != nil {
		return nil, fmt.Errorf("failed to get operator: %v", err)
	}
	return o, nil
}
