package board

import (
	"context"
	"errors"

	"github.com/google/uuid"
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

const requestCols = `id, created_by, creator_role, patient_name, patient_age,
	blood_group, hospital_name, description, created_at`

func scanRequest(row pgx.Row) (*BloodRequest, error) {
	var br BloodRequest
	err := row.Scan(&br.ID, &br.CreatedBy, &br.CreatorRole, &br.PatientName,
		&br.PatientAge, &br.BloodGroup, &br.HospitalName, &br.Description, &br.CreatedAt)
	if err != nil {
		return nil, err
	}
	br.Responses = []*Response{}
	return &br, nil
}

func (r *repoPG) Create(ctx context.Context, br *BloodRequest) error {
	br.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO blood_request (id, created_by, creator_role, patient_name,
			patient_age, blood_group, hospital_name, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		br.ID, br.CreatedBy, br.CreatorRole, br.PatientName,
		br.PatientAge, br.BloodGroup, br.HospitalName, br.Description).Scan(&br.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*BloodRequest, error) {
	br, err := scanRequest(r.conn(ctx).QueryRow(ctx,
		`SELECT `+requestCols+` FROM blood_request WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadResponses(ctx, []*BloodRequest{br}); err != nil {
		return nil, err
	}
	return br, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*BloodRequest, error) {
	return r.listWhere(ctx,
		`SELECT `+requestCols+` FROM blood_request ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
}

func (r *repoPG) ListByCreator(ctx context.Context, userID string) ([]*BloodRequest, error) {
	return r.listWhere(ctx,
		`SELECT `+requestCols+` FROM blood_request WHERE created_by = $1 ORDER BY created_at DESC`, userID)
}

func (r *repoPG) listWhere(ctx context.Context, sql string, args ...interface{}) ([]*BloodRequest, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*BloodRequest
	for rows.Next() {
		br, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, br)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadResponses(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repoPG) loadResponses(ctx context.Context, requests []*BloodRequest) error {
	if len(requests) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(requests))
	byID := make(map[uuid.UUID]*BloodRequest, len(requests))
	for i, br := range requests {
		ids[i] = br.ID
		byID[br.ID] = br
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT request_id, donor_id, donor_name, donor_blood_group, donor_color,
			message, responded_at
		FROM blood_request_response
		WHERE request_id = ANY($1)
		ORDER BY responded_at`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var resp Response
		if err := rows.Scan(&resp.RequestID, &resp.DonorID, &resp.DonorName,
			&resp.DonorBloodGroup, &resp.DonorColor, &resp.Message, &resp.RespondedAt); err != nil {
			return err
		}
		if br, ok := byID[resp.RequestID]; ok {
			br.Responses = append(br.Responses, &resp)
		}
	}
	return rows.Err()
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM blood_request`).Scan(&n)
	return n, err
}

func (r *repoPG) InsertResponse(ctx context.Context, resp *Response) (bool, error) {
	// The unique index backstops the service-level duplicate check under
	// concurrent responses from the same donor; a conflicting insert
	// returns no row.
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO blood_request_response (request_id, donor_id, donor_name,
			donor_blood_group, donor_color, message)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (request_id, donor_id) DO NOTHING
		RETURNING responded_at`,
		resp.RequestID, resp.DonorID, resp.DonorName,
		resp.DonorBloodGroup, resp.DonorColor, resp.Message).Scan(&resp.RespondedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
