package access

import (
	"context"
	"errors"

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

const requestCols = `donor_id, requester_id, requester_name, status, created_at, updated_at`

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(&req.DonorID, &req.RequesterID, &req.RequesterName,
		&req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repoPG) Insert(ctx context.Context, req *Request) (bool, error) {
	// Concurrent inserts for distinct requesters are independent rows;
	// a duplicate from the same requester hits the unique constraint and
	// becomes a no-op rather than a second pending entry.
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO access_request (donor_id, requester_id, requester_name, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (donor_id, requester_id) DO NOTHING`,
		req.DonorID, req.RequesterID, req.RequesterName, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) Get(ctx context.Context, donorID, requesterID string) (*Request, error) {
	req, err := scanRequest(r.conn(ctx).QueryRow(ctx,
		`SELECT `+requestCols+` FROM access_request WHERE donor_id = $1 AND requester_id = $2`,
		donorID, requesterID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return req, err
}

func (r *repoPG) Resolve(ctx context.Context, donorID, requesterID, status string) (bool, error) {
	// Keyed on the current status so two concurrent resolves cannot both
	// win; the loser matches zero rows.
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE access_request SET status=$3, updated_at=NOW()
		WHERE donor_id = $1 AND requester_id = $2 AND status = $4`,
		donorID, requesterID, status, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) ListByDonor(ctx context.Context, donorID string) ([]*Request, error) {
	return r.list(ctx,
		`SELECT `+requestCols+` FROM access_request WHERE donor_id = $1 ORDER BY created_at`, donorID)
}

func (r *repoPG) ListPending(ctx context.Context, donorID string) ([]*Request, error) {
	return r.list(ctx,
		`SELECT `+requestCols+` FROM access_request WHERE donor_id = $1 AND status = 'pending' ORDER BY created_at`,
		donorID)
}

func (r *repoPG) list(ctx context.Context, sql string, args ...interface{}) ([]*Request, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, req)
	}
	return items, rows.Err()
}
