// internal/resources/postgres.go
package resources

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

func NewPostgresStore(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, log: log}
}

// EnsureSchema creates the resources table if missing. Idempotent.
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS resources (
  id uuid PRIMARY KEY,
  name text NOT NULL,
  description text NOT NULL DEFAULT '',
  owner text NOT NULL,
  public boolean NOT NULL DEFAULT false,
  required_role text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS resources_owner_idx ON resources(owner);
CREATE INDEX IF NOT EXISTS resources_public_idx ON resources(public) WHERE public;
`)
	return err
}

// SeedFromFile upserts resources from a YAML file (RESOURCE_SEED_FILE).
// Entries without an id get a fresh one, which makes the seed non-idempotent;
// give seed entries fixed ids to avoid duplicates across restarts.
func SeedFromFile(ctx context.Context, store Store, path string, log *zap.SugaredLogger) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var entries []struct {
		ID           string `yaml:"id"`
		Name         string `yaml:"name"`
		Description  string `yaml:"description"`
		Owner        string `yaml:"owner"`
		Public       bool   `yaml:"public"`
		RequiredRole string `yaml:"required_role"`
	}
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return err
	}
	for _, e := range entries {
		r := Resource{
			ID: e.ID, Name: e.Name, Description: e.Description,
			Owner: e.Owner, Public: e.Public, RequiredRole: e.RequiredRole,
		}
		if r.ID != "" {
			if _, err := store.Get(ctx, r.ID); err == nil {
				continue
			}
		}
		if _, err := store.Create(ctx, r); err != nil {
			log.Warnw("resource seed entry skipped", "name", e.Name, "err", err)
		}
	}
	log.Infow("resource seed applied", "file", path, "entries", len(entries))
	return nil
}

const resourceCols = `id, name, description, owner, public, required_role, created_at, updated_at`

func (p *pgStore) List(ctx context.Context) ([]Resource, error) {
	return p.query(ctx, `SELECT `+resourceCols+` FROM resources ORDER BY created_at`)
}

func (p *pgStore) ListPublic(ctx context.Context) ([]Resource, error) {
	return p.query(ctx, `SELECT `+resourceCols+` FROM resources WHERE public ORDER BY created_at`)
}

func (p *pgStore) ListByOwner(ctx context.Context, owner string) ([]Resource, error) {
	return p.query(ctx, `SELECT `+resourceCols+` FROM resources WHERE owner=$1 ORDER BY created_at`, owner)
}

func (p *pgStore) ListByRequiredRole(ctx context.Context, role string) ([]Resource, error) {
	return p.query(ctx, `SELECT `+resourceCols+` FROM resources WHERE required_role=$1 ORDER BY created_at`, role)
}

func (p *pgStore) Get(ctx context.Context, id string) (Resource, error) {
	row := p.dbPool.QueryRow(ctx, `SELECT `+resourceCols+` FROM resources WHERE id=$1`, id)
	r, err := scanResource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resource{}, ErrNotFound
		}
		return Resource{}, err
	}
	return r, nil
}

func (p *pgStore) Create(ctx context.Context, r Resource) (Resource, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	_, err := p.dbPool.Exec(ctx, `INSERT INTO resources(id,name,description,owner,public,required_role,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.Name, r.Description, r.Owner, r.Public, r.RequiredRole, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return Resource{}, err
	}
	return r, nil
}

func (p *pgStore) Update(ctx context.Context, r Resource) (Resource, error) {
	r.UpdatedAt = time.Now().UTC()
	tag, err := p.dbPool.Exec(ctx, `UPDATE resources SET name=$2, description=$3, owner=$4, public=$5, required_role=$6, updated_at=$7 WHERE id=$1`,
		r.ID, r.Name, r.Description, r.Owner, r.Public, r.RequiredRole, r.UpdatedAt)
	if err != nil {
		return Resource{}, err
	}
	if tag.RowsAffected() == 0 {
		return Resource{}, ErrNotFound
	}
	return p.Get(ctx, r.ID)
}

func (p *pgStore) Delete(ctx context.Context, id string) error {
	tag, err := p.dbPool.Exec(ctx, `DELETE FROM resources WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *pgStore) query(ctx context.Context, sql string, args ...any) ([]Resource, error) {
	rows, err := p.dbPool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanResource(row pgx.Row) (Resource, error) {
	var r Resource
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Owner, &r.Public, &r.RequiredRole, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}
