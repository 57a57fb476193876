package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidarico/subtitle-portal/internal/projects/domain"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const schema = `
create table if not exists projects (
	id             uuid primary key default gen_random_uuid(),
	name           text not null,
	status         text not null default 'pending'
	               check (status in ('pending','completed','failed')),
	third_party_id text not null,
	created_at     timestamptz not null default now()
);`

// EnsureSchema creates the projects table if it does not exist yet.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Insert records a newly submitted project in pending state and returns
// the stored row with its generated id and timestamp.
func (r *Repo) Insert(ctx context.Context, name, thirdPartyID string) (*domain.Project, error) {
	const q = `
insert into projects (name, third_party_id, status)
values ($1, $2, 'pending')
returning id, name, status, third_party_id, created_at;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, name, thirdPartyID).
		Scan(&p.ID, &p.Name, &p.Status, &p.ThirdPartyID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns every project, newest first.
func (r *Repo) List(ctx context.Context) ([]domain.Project, error) {
	const q = `
select id, name, status, third_party_id, created_at
from projects
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Status, &p.ThirdPartyID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
select id, name, status, third_party_id, created_at
from projects
where id = $1::uuid;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.Name, &p.Status, &p.ThirdPartyID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// JobRefs returns the (id, external job id) pairs for exactly the requested
// ids. Ids with no row are silently omitted.
func (r *Repo) JobRefs(ctx context.Context, ids []string) ([]domain.JobRef, error) {
	const q = `
select id, third_party_id
from projects
where id = any($1::uuid[]);
`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.JobRef, 0, len(ids))
	for rows.Next() {
		var ref domain.JobRef
		if err := rows.Scan(&ref.ID, &ref.ThirdPartyID); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	const q = `update projects set status = $2 where id = $1::uuid;`

	ct, err := r.db.Exec(ctx, q, id, string(status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// invalid_text_representation: a non-uuid id can never match a row
func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
