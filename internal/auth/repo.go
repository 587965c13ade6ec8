package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressdesk/pressdesk/internal/shared"
)

// Repository defines the persistence collaborator for authentication.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, is_active, is_admin, bio, profile_picture, role_id, created_at, updated_at
		FROM users
		WHERE email = $1`, email)

	var (
		user    User
		bio     pgtype.Text
		picture pgtype.Text
		roleID  pgtype.Int8
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.IsActive,
		&user.IsAdmin, &bio, &picture, &roleID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.Bio = bio.String
	user.ProfilePicture = picture.String
	if roleID.Valid {
		id := roleID.Int64
		user.RoleID = &id
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
