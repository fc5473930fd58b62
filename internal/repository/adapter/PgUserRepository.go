package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// PgUserRepository implements repository.UserRepository on Postgres.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*repository.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u repository.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, username, COALESCE(avatar, ''), COALESCE(about, ''), is_online, COALESCE(last_seen, 'epoch'::timestamptz)
		FROM app_user
		WHERE id = $1::uuid
	`, id).Scan(&u.ID, &u.Username, &u.Avatar, &u.About, &u.Online, &u.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]repository.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	result := make(map[string]repository.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, username, COALESCE(avatar, ''), COALESCE(about, ''), is_online, COALESCE(last_seen, 'epoch'::timestamptz)
		FROM app_user
		WHERE id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u repository.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Avatar, &u.About, &u.Online, &u.LastSeen); err != nil {
			return nil, err
		}
		result[u.ID] = u
	}
	return result, rows.Err()
}

func (r *PgUserRepository) SetPresence(ctx context.Context, id string, online bool, lastSeen time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE app_user
		SET is_online = $2, last_seen = $3
		WHERE id = $1::uuid
	`, id, online, lastSeen)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *PgUserRepository) MarkAllOffline(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `UPDATE app_user SET is_online = FALSE WHERE is_online`)
	return err
}
