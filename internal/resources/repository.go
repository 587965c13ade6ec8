package resources

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pressdesk/pressdesk/internal/shared"
)

// RepositoryPort defines data access methods for the resource store.
type RepositoryPort interface {
	List(ctx context.Context, kind string, window shared.ListRange) ([]Resource, error)
	Find(ctx context.Context, kind string, id int64) (*Resource, error)
	Create(ctx context.Context, res Resource) (*Resource, error)
	Update(ctx context.Context, res Resource) (*Resource, error)
	Delete(ctx context.Context, kind string, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const resourceColumns = `id, kind, payload, created_by, created_at, updated_at`

func scanResource(row pgx.Row) (*Resource, error) {
	var (
		res       Resource
		payload   []byte
		createdBy pgtype.Int8
	)
	err := row.Scan(&res.ID, &res.Kind, &payload, &createdBy, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	res.Payload = json.RawMessage(payload)
	if createdBy.Valid {
		id := createdBy.Int64
		res.CreatedBy = &id
	}
	return &res, nil
}

// List returns resources of a kind ordered by id within the given window.
func (r *Repository) List(ctx context.Context, kind string, window shared.ListRange) ([]Resource, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resourceColumns+` FROM resources WHERE kind = $1 ORDER BY id OFFSET $2 LIMIT $3`,
		kind, window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Find fetches one resource by kind and id.
func (r *Repository) Find(ctx context.Context, kind string, id int64) (*Resource, error) {
	return scanResource(r.pool.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE kind = $1 AND id = $2`, kind, id))
}

// Create inserts a new resource document.
func (r *Repository) Create(ctx context.Context, res Resource) (*Resource, error) {
	return scanResource(r.pool.QueryRow(ctx, `
		INSERT INTO resources (kind, payload, created_by)
		VALUES ($1, $2, $3)
		RETURNING `+resourceColumns, res.Kind, []byte(res.Payload), res.CreatedBy))
}

// Update replaces a resource document's payload.
func (r *Repository) Update(ctx context.Context, res Resource) (*Resource, error) {
	return scanResource(r.pool.QueryRow(ctx, `
		UPDATE resources
		SET payload = $3, updated_at = now()
		WHERE kind = $1 AND id = $2
		RETURNING `+resourceColumns, res.Kind, res.ID, []byte(res.Payload)))
}

// Delete removes a resource document.
func (r *Repository) Delete(ctx context.Context, kind string, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
