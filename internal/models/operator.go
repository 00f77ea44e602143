package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	AdminRole    Role = "admin"
	OperatorRole Role = "operator"
)

// Operator is a control-plane account authorized to submit and inspect
// jobs, per spec.md §4.9's expanded control plane. It carries only
// what job submission needs: credentials and a role, not the
// teacher's storage-quota/API-key surface of a video-app end user.
type Operator struct {
	OperatorID uuid.UUID `json:"operator_id" db:"operator_id" validate:"omitempty"`
	Username   string    `json:"username" db:"username" validate:"required,lte=30"`
	Email      string    `json:"email" db:"email" validate:"required,email,lte=60"`
	Password   string    `json:"password,omitempty" db:"password" validate:"required,min=8"`
	Role       Role      `json:"role" db:"role" validate:"required,oneof=admin operator,lte=10"`
	CreatedAt  time.Time `json:"created_at" db:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at" validate:"omitempty"`
}

type OperatorWithToken struct {
	Operator *Operator `json:"operator"`
	Token    string    `json:"token"`
}

func (o *Operator) SanitizePassword() {
	o.Password = ""
}

func (o *Operator) HashPassword() error {
	hashedPass, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %v", err)
	}
	o.Password = string(hashedPass)
	return nil
}

func (o *Operator) ComparePassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(o.Password), []byte(password)); err != nil {
		return fmt.Errorf("error comparing password: %v", err)
	}
	return nil
}

func (o *Operator) PrepareCreate() error {
	o.Email = strings.ToLower(strings.TrimSpace(o.Email))
	if !isValidEmail(o.Email) {
		return fmt.Errorf("invalid email format")
	}

	o.Password = strings.TrimSpace(o.Password)
	if err := o.HashPassword(); err != nil {
		return err
	}

	if o.Role != "" {
		switch o.Role {
		case OperatorRole, AdminRole:
		default:
			return fmt.Errorf("invalid role: %s", o.Role)
		}
	} else {
		o.Role = OperatorRole
	}
	return nil
}

func isValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	match, err := regexp.MatchString(pattern, email)
	return err == nil && match
}
