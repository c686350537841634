package dispatch

import (
	"context"
	"errors"
	"time"

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

const reqCols = `id, patient_name, patient_document, address, contact, studies, status,
	assigned_staff_id, assigned_unit, commission, completed_at,
	version, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, req *ServiceRequest) error {
	req.ID = uuid.New()
	req.Version = 1
	_, err := r.pool.Exec(ctx, `
		INSERT INTO service_request (
			id, patient_name, patient_document, address, contact, studies, status,
			assigned_staff_id, assigned_unit, commission, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		req.ID, req.PatientName, req.PatientDocument, req.Address, req.Contact, req.Studies, req.Status,
		req.AssignedStaffID, req.AssignedUnit, req.Commission, req.Version,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ServiceRequest, error) {
	req, err := scanReq(r.pool.QueryRow(ctx, `SELECT `+reqCols+` FROM service_request WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return req, err
}

func (r *repoPG) List(ctx context.Context, status Status, limit, offset int) ([]*ServiceRequest, int, error) {
	// Empty status matches every row.
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM service_request WHERE ($1 = '' OR status = $1)`,
		string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+reqCols+` FROM service_request
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		string(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectReqs(rows, total)
}

func (r *repoPG) Assign(ctx context.Context, id, staffID uuid.UUID, unit *string, commission *float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE service_request SET
			status='asignado', assigned_staff_id=$2, assigned_unit=$3,
			commission=COALESCE(commission, $4),
			version=version+1, updated_at=NOW()
		WHERE id = $1 AND status = 'pendiente' AND assigned_staff_id IS NULL`,
		id, staffID, unit, commission,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyClaimed
	}
	return nil
}

func (r *repoPG) Advance(ctx context.Context, id uuid.UUID, from, to Status, staffID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE service_request SET
			status=$4, version=version+1, updated_at=NOW()
		WHERE id = $1 AND status = $2 AND assigned_staff_id = $3`,
		id, from, staffID, to,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// Finalize commits the terminal status, the completion timestamp and the
// earning credit atomically. The agent_earning primary key absorbs any
// replayed credit for the same request.
func (r *repoPG) Finalize(ctx context.Context, id uuid.UUID, from Status, staffID uuid.UUID, completedAt time.Time, amount float64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE service_request SET
			status='finalizado', completed_at=$4,
			version=version+1, updated_at=NOW()
		WHERE id = $1 AND status = $2 AND assigned_staff_id = $3`,
		id, from, staffID, completedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO agent_earning (request_id, staff_id, amount)
		VALUES ($1,$2,$3)
		ON CONFLICT (request_id) DO NOTHING`,
		id, staffID, amount,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *repoPG) Release(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE service_request SET
			status='pendiente', assigned_staff_id=NULL, assigned_unit=NULL,
			version=version+1, updated_at=NOW()
		WHERE id = $1 AND status <> 'finalizado' AND assigned_staff_id IS NOT NULL`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (r *repoPG) EarningsForStaff(ctx context.Context, staffID uuid.UUID) (*EarningsSummary, error) {
	summary := EarningsSummary{StaffID: staffID}
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM agent_earning WHERE staff_id = $1`,
		staffID).Scan(&summary.Total, &summary.Completed)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func scanReq(row pgx.Row) (*ServiceRequest, error) {
	var req ServiceRequest
	err := row.Scan(
		&req.ID, &req.PatientName, &req.PatientDocument, &req.Address, &req.Contact, &req.Studies, &req.Status,
		&req.AssignedStaffID, &req.AssignedUnit, &req.Commission, &req.CompletedAt,
		&req.Version, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func collectReqs(rows pgx.Rows, total int) ([]*ServiceRequest, int, error) {
	var reqs []*ServiceRequest
	for rows.Next() {
		req, err := scanReq(rows)
		if err != nil {
			return nil, 0, err
		}
		reqs = append(reqs, req)
	}
	return reqs, total, rows.Err()
}
