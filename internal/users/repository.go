package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressdesk/pressdesk/internal/platform/db"
	"github.com/pressdesk/pressdesk/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, window shared.ListRange) ([]User, error)
	FindUser(ctx context.Context, id int64) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user User) (*User, error)
	UpdateUser(ctx context.Context, user User) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	AssignRole(ctx context.Context, id int64, roleID *int64) error
}

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, name, email, password_hash, is_active, is_admin, bio, profile_picture, role_id, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
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

// ListUsers returns users ordered by id within the given window.
func (r *Repository) ListUsers(ctx context.Context, window shared.ListRange) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`,
		window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// FindUser fetches a user by ID.
func (r *Repository) FindUser(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// FindUserByEmail fetches a user by email.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// CreateUser inserts a new user.
func (r *Repository) CreateUser(ctx context.Context, user User) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, is_active, is_admin, bio, profile_picture, role_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		user.Name, user.Email, user.PasswordHash, user.IsActive, user.IsAdmin,
		nullText(user.Bio), nullText(user.ProfilePicture), user.RoleID)
	created, err := scanUser(row)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return created, nil
}

// UpdateUser persists the mutable fields of a user.
func (r *Repository) UpdateUser(ctx context.Context, user User) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, is_active = $5, is_admin = $6,
		    bio = $7, profile_picture = $8, role_id = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.PasswordHash, user.IsActive, user.IsAdmin,
		nullText(user.Bio), nullText(user.ProfilePicture), user.RoleID)
	updated, err := scanUser(row)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return updated, nil
}

// DeleteUser removes a user by ID.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetActive toggles the active flag.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AssignRole sets or clears the user's role reference. The role existence
// check and the update run in one transaction so a concurrent role deletion
// cannot slip between them.
func (r *Repository) AssignRole(ctx context.Context, id int64, roleID *int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if roleID != nil {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, *roleID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return shared.ErrNotFound
			}
		}
		tag, err := tx.Exec(ctx, `UPDATE users SET role_id = $2, updated_at = now() WHERE id = $1`, id, roleID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func nullText(value string) pgtype.Text {
	return pgtype.Text{String: value, Valid: value != ""}
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return shared.ErrDuplicate
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
