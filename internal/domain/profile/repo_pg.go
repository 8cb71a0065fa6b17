package profile

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

const profileCols = `id, name, phone, email, role, blood_group, location,
	profile_color, profile_locked, last_donation_date, donation_cooldown_end,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.Email, &p.Role, &p.BloodGroup,
		&p.Location, &p.ProfileColor, &p.ProfileLocked, &p.LastDonationDate,
		&p.DonationCooldownEnd, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Profile) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO user_profile (id, name, phone, email, role, blood_group,
			location, profile_color, profile_locked)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Name, p.Phone, p.Email, p.Role, p.BloodGroup,
		p.Location, p.ProfileColor, p.ProfileLocked)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Profile, error) {
	p, err := scanProfile(r.conn(ctx).QueryRow(ctx,
		`SELECT `+profileCols+` FROM user_profile WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) Update(ctx context.Context, p *Profile) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE user_profile
		SET name=$2, phone=$3, blood_group=$4, location=$5, profile_color=$6,
			profile_locked=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Phone, p.BloodGroup, p.Location, p.ProfileColor, p.ProfileLocked)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByRole(ctx context.Context, role string) ([]*Profile, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+profileCols+` FROM user_profile WHERE role = $1 ORDER BY name`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repoPG) CountByRole(ctx context.Context, role string) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM user_profile WHERE role = $1`, role).Scan(&n)
	return n, err
}

func (r *repoPG) SetDonor(ctx context.Context, id, bloodGroup string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE user_profile SET role=$2, blood_group=$3, updated_at=NOW()
		WHERE id = $1`,
		id, RoleDonor, bloodGroup)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
