package repository

import (
	"context"
	"errors"

	"invoicepro/models"
)

var ErrEmailTaken = errors.New("email already exists")

// UserRepository stores operator accounts. GetUserByEmail returns nil, nil
// when no account has the email.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error)
}
