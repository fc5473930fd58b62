package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	status "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/domain"
)

// PgStatusRepository implements the status repository port on Postgres.
// Viewers live in a text[] column; the array append is conditional on
// membership so concurrent first views stay idempotent.
type PgStatusRepository struct {
	pool *pgxpool.Pool
}

func NewPgStatusRepository(pool *pgxpool.Pool) *PgStatusRepository {
	return &PgStatusRepository{pool: pool}
}

const statusColumns = `id::text, author_id::text, content, content_type, viewers, created_at, expires_at`

func scanStatus(row pgx.Row) (*status.Status, error) {
	var s status.Status
	if err := row.Scan(&s.ID, &s.AuthorID, &s.Content, &s.ContentType, &s.Viewers, &s.CreatedAt, &s.ExpiresAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgStatusRepository) Save(ctx context.Context, s status.Status) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgStatusRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO status (author_id, content, content_type, viewers, created_at, expires_at)
		VALUES ($1::uuid, $2, $3, '{}', $4, $5)
		RETURNING id::text
	`, s.AuthorID, s.Content, s.ContentType, s.CreatedAt, s.ExpiresAt).Scan(&id)
	return id, err
}

func (r *PgStatusRepository) FindByID(ctx context.Context, id string) (*status.Status, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgStatusRepository: nil pool")
	}
	s, err := scanStatus(r.pool.QueryRow(ctx,
		`SELECT `+statusColumns+` FROM status WHERE id = $1::uuid`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, status.ErrNotFound
	}
	return s, err
}

func (r *PgStatusRepository) ListActive(ctx context.Context, now time.Time) ([]status.Status, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgStatusRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+statusColumns+` FROM status WHERE expires_at > $1 ORDER BY created_at DESC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []status.Status
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *s)
	}
	return statuses, rows.Err()
}

func (r *PgStatusRepository) AddViewer(ctx context.Context, statusID, viewerID string) (*status.Status, bool, error) {
	if r == nil || r.pool == nil {
		return nil, false, errors.New("PgStatusRepository: nil pool")
	}
	s, err := scanStatus(r.pool.QueryRow(ctx, `
		UPDATE status
		SET viewers = array_append(viewers, $2)
		WHERE id = $1::uuid AND NOT ($2 = ANY(viewers))
		RETURNING `+statusColumns, statusID, viewerID))
	if errors.Is(err, pgx.ErrNoRows) {
		// Either absent or already viewed; disambiguate with a plain read.
		existing, ferr := r.FindByID(ctx, statusID)
		if ferr != nil {
			return nil, false, ferr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (r *PgStatusRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgStatusRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM status WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return status.ErrNotFound
	}
	return nil
}

func (r *PgStatusRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgStatusRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM status WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
