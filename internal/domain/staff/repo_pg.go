package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const memberCols = `id, name, role, home_service_enabled, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO staff_member (id, name, role, home_service_enabled, status)
		VALUES ($1,$2,$3,$4,$5)`,
		m.ID, m.Name, m.Role, m.HomeServiceEnabled, m.Status,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	m, err := scanMember(r.pool.QueryRow(ctx, `SELECT `+memberCols+` FROM staff_member WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (r *repoPG) Update(ctx context.Context, m *Member) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE staff_member SET name=$2, role=$3, home_service_enabled=$4, status=$5, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Role, m.HomeServiceEnabled, m.Status,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM staff_member`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+memberCols+` FROM staff_member ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, m)
	}
	return members, total, rows.Err()
}

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Role, &m.HomeServiceEnabled, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
