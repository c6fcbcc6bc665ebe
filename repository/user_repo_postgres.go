package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"invoicepro/models"

	"github.com/lib/pq"
)

type PostgresUserRepo struct {
	DB *sql.DB
}

func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{DB: db}
}

// CreateUser inserts a user whose Password already holds the bcrypt hash.
func (r *PostgresUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO app_user (name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, user.Name, user.Email, user.Password, user.Role, user.CreatedAt).Scan(&user.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (r *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	user := &models.AppUser{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM app_user
		WHERE email=$1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
