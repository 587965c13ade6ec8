package roles

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressdesk/pressdesk/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	FindRole(ctx context.Context, id int64) (*Role, error)
	FindRoleByName(ctx context.Context, name string) (*Role, error)
	ListRoles(ctx context.Context, window shared.ListRange) ([]Role, error)
	ListChildren(ctx context.Context, id int64) ([]Role, error)
	CreateRole(ctx context.Context, role Role) (*Role, error)
	UpdateRole(ctx context.Context, role Role) (*Role, error)
	DeleteRole(ctx context.Context, id int64) error
	CountUsersWithRole(ctx context.Context, id int64) (int64, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
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

const roleColumns = `id, name, description, permissions, parent_id, created_at, updated_at`

func scanRole(row pgx.Row) (*Role, error) {
	var (
		role     Role
		rawPerms []byte
		parentID pgtype.Int8
	)
	err := row.Scan(&role.ID, &role.Name, &role.Description, &rawPerms, &parentID, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if len(rawPerms) > 0 {
		if err := json.Unmarshal(rawPerms, &role.Permissions); err != nil {
			return nil, err
		}
	}
	if role.Permissions == nil {
		role.Permissions = PermissionSet{}
	}
	if parentID.Valid {
		id := parentID.Int64
		role.ParentID = &id
	}
	return &role, nil
}

// FindRole fetches a role by ID.
func (r *Repository) FindRole(ctx context.Context, id int64) (*Role, error) {
	return scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
}

// FindRoleByName fetches a role by its unique name.
func (r *Repository) FindRoleByName(ctx context.Context, name string) (*Role, error) {
	return scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name))
}

// ListRoles returns roles ordered by id within the given window.
func (r *Repository) ListRoles(ctx context.Context, window shared.ListRange) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY id OFFSET $1 LIMIT $2`,
		window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRoles(rows)
}

// ListChildren returns the roles whose parent is the given role.
func (r *Repository) ListChildren(ctx context.Context, id int64) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles WHERE parent_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRoles(rows)
}

func collectRoles(rows pgx.Rows) ([]Role, error) {
	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// CreateRole inserts a new role.
func (r *Repository) CreateRole(ctx context.Context, role Role) (*Role, error) {
	perms, err := marshalPermissions(role.Permissions)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, description, permissions, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+roleColumns, role.Name, role.Description, perms, role.ParentID)
	created, err := scanRole(row)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return created, nil
}

// UpdateRole persists name, description, permissions and parent for a role.
func (r *Repository) UpdateRole(ctx context.Context, role Role) (*Role, error) {
	perms, err := marshalPermissions(role.Permissions)
	if err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE roles
		SET name = $2, description = $3, permissions = $4, parent_id = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+roleColumns, role.ID, role.Name, role.Description, perms, role.ParentID)
	updated, err := scanRole(row)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return updated, nil
}

// DeleteRole removes a role by ID. Returns shared.ErrNotFound if nothing was deleted.
func (r *Repository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountUsersWithRole counts users currently assigned to the role.
func (r *Repository) CountUsersWithRole(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE role_id = $1`, id).Scan(&count)
	return count, err
}

// CountChildren counts roles whose parent is the given role.
func (r *Repository) CountChildren(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM roles WHERE parent_id = $1`, id).Scan(&count)
	return count, err
}

func marshalPermissions(perms PermissionSet) ([]byte, error) {
	if perms == nil {
		perms = PermissionSet{}
	}
	return json.Marshal(perms)
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return shared.ErrDuplicate
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
