package repository

import (
	"context"

	"rental-booking/internal/models"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	q Querier
}

const userColumns = "id, username, email, password_hash, role, created_at, updated_at"

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		VALUES (:id, :username, :email, :password_hash, :role, :created_at, :updated_at)`, u)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.q.GetContext(ctx, &u, r.q.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.q.GetContext(ctx, &u, r.q.Rebind("SELECT "+userColumns+" FROM users WHERE email = ?"), email)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ExistsByEmailOrUsername reports whether either identity is already taken.
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var n int
	err := r.q.GetContext(ctx, &n, r.q.Rebind("SELECT COUNT(*) FROM users WHERE email = ? OR username = ?"), email, username)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
