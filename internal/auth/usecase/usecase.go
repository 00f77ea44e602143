package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sridhargunnam/framefeatures/internal/auth"
	"github.com/sridhargunnam/framefeatures/internal/config"
	"github.com/sridhargunnam/framefeatures/internal/models"
	"github.com/sridhargunnam/framefeatures/pkg/logger"
	"github.com/sridhargunnam/framefeatures/pkg/utils"
	"github.com/google/uuid"
)

type authUC struct {
	cfg      *config.Config
	authRepo auth.Repository
	logger   logger.Logger
}

func NewAuthUseCase(cfg *config.Config, authRepo auth.Repository, log logger.Logger) auth.UseCase {
	return &authUC{
		cfg:      cfg,
		authRepo: authRepo,
		logger:   log,
	}
}

func (u *authUC) Register(ctx context.Context, operator *models.Operator) (*models.OperatorWithToken, error) {
	existOperator, err := u.authRepo.FindByEmail(ctx, operator)
	if existOperator != nil || err == nil {
		return nil, fmt.Errorf("operator with email %s already exists", operator.Email)
	}

	if err = operator.PrepareCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare operator for create: %v", err)
	}
	createdOperator, err := u.authRepo.Register(ctx, operator)
	if err != nil {
		return nil, fmt.Errorf("failed to create operator: %v", err)
	}
	createdOperator.SanitizePassword()

	token, err := utils.GenerateJWTToken(createdOperator, u.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate jwt token: %v", err)
	}
	return &models.OperatorWithToken{
		Operator: createdOperator,
		Token:    token,
	}, nil
}

func (u *authUC) Login(ctx context.Context, operator *models.Operator) (*models.OperatorWithToken, error) {
	existOperator, err := u.authRepo.FindByEmail(ctx, operator)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("operator with email %s does not exist", operator.Email)
		}
		return nil, fmt.Errorf("failed to find operator: %v", err)
	}
	if err = existOperator.ComparePassword(operator.Password); err != nil {
		return nil, fmt.Errorf("invalid credentials: %v", err)
	}
	existOperator.SanitizePassword()
	token, err := utils.GenerateJWTToken(existOperator, u.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate jwt token: %v", err)
	}
	return &models.OperatorWithToken{
		Operator: existOperator,
		Token:    token,
	}, nil
}

func (u *authUC) GetByID(ctx context.Context, operatorID uuid.UUID) (*models.Operator, error) {
	operator, err := u.authRepo.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	operator.SanitizePassword()
	return operator, nil
}
