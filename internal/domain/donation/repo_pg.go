package donation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) Record(ctx context.Context, donorID string, at, cooldownEnd time.Time) (bool, error) {
	// Both fields land in one statement; a concurrent reader never sees one
	// without the other. The WHERE clause rejects writes inside an active
	// cooldown window.
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE user_profile
		SET last_donation_date=$2, donation_cooldown_end=$3, updated_at=NOW()
		WHERE id = $1 AND role = 'donor'
			AND (donation_cooldown_end IS NULL OR donation_cooldown_end < $2)`,
		donorID, at, cooldownEnd)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) Cooldown(ctx context.Context, donorID string) (*time.Time, *time.Time, error) {
	var last, end *time.Time
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT last_donation_date, donation_cooldown_end
		FROM user_profile WHERE id = $1 AND role = 'donor'`,
		donorID).Scan(&last, &end)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	return last, end, err
}
