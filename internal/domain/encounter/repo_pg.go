package encounter

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

const encCols = `id, patient_name, patient_document, demographics, module, status,
	service_detail, priority, assigned_staff_id, intake,
	scheduled_date, appointment_time, arrived_at, version, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, enc *Encounter) error {
	enc.ID = uuid.New()
	enc.Version = 1
	_, err := r.pool.Exec(ctx, `
		INSERT INTO encounter (
			id, patient_name, patient_document, demographics, module, status,
			service_detail, priority, assigned_staff_id, intake,
			scheduled_date, appointment_time, arrived_at, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		enc.ID, enc.PatientName, enc.PatientDocument, enc.Demographics, enc.Module, enc.Status,
		enc.ServiceDetail, enc.Priority, enc.AssignedStaffID, enc.Intake,
		enc.ScheduledDate, enc.AppointmentTime, enc.ArrivedAt, enc.Version,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Encounter, error) {
	enc, err := scanEnc(r.pool.QueryRow(ctx, `SELECT `+encCols+` FROM encounter WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return enc, err
}

// UpdateWithHistory is a compare-and-swap: the row is written only if
// nobody bumped the version since this encounter was read. The history
// row rides in the same transaction, so a lost race rolls it back and a
// reader polling the status history never sees a failed transition.
func (r *repoPG) UpdateWithHistory(ctx context.Context, enc *Encounter, sh *StatusHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE encounter SET
			status=$3, service_detail=$4, priority=$5, assigned_staff_id=$6,
			scheduled_date=$7, appointment_time=$8,
			version=version+1, updated_at=NOW()
		WHERE id = $1 AND version = $2`,
		enc.ID, enc.Version,
		enc.Status, enc.ServiceDetail, enc.Priority, enc.AssignedStaffID,
		enc.ScheduledDate, enc.AppointmentTime,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, enc.ID); err != nil {
			return err
		}
		return ErrConflict
	}

	sh.ID = uuid.New()
	if _, err := tx.Exec(ctx, `
		INSERT INTO encounter_status_history (id, encounter_id, status, period_start, period_end)
		VALUES ($1,$2,$3,$4,$5)`,
		sh.ID, sh.EncounterID, sh.Status, sh.PeriodStart, sh.PeriodEnd,
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	enc.Version++
	return nil
}

func (r *repoPG) Claim(ctx context.Context, id, staffID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE encounter SET assigned_staff_id=$2, version=version+1, updated_at=NOW()
		WHERE id = $1 AND assigned_staff_id IS NULL AND status <> 'attended'`,
		id, staffID,
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

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Encounter, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM encounter`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+encCols+` FROM encounter ORDER BY arrived_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectEncs(rows, total)
}

func (r *repoPG) ListByPatientDocument(ctx context.Context, document string, limit, offset int) ([]*Encounter, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM encounter WHERE patient_document = $1`, document).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+encCols+` FROM encounter WHERE patient_document = $1 ORDER BY arrived_at DESC LIMIT $2 OFFSET $3`,
		document, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectEncs(rows, total)
}

func (r *repoPG) Queue(ctx context.Context, module Module) ([]*Encounter, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+encCols+` FROM encounter
		WHERE module = $1 AND assigned_staff_id IS NULL AND status <> 'attended'
		ORDER BY
			CASE priority
				WHEN 'critical' THEN 3
				WHEN 'high' THEN 2
				WHEN 'medium' THEN 1
				ELSE 0
			END DESC,
			arrived_at ASC`,
		module)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	encs, _, err := collectEncs(rows, 0)
	return encs, err
}

func (r *repoPG) GetStatusHistory(ctx context.Context, encounterID uuid.UUID) ([]*StatusHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, encounter_id, status, period_start, period_end
		FROM encounter_status_history WHERE encounter_id = $1 ORDER BY period_start`,
		encounterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*StatusHistory
	for rows.Next() {
		var sh StatusHistory
		if err := rows.Scan(&sh.ID, &sh.EncounterID, &sh.Status, &sh.PeriodStart, &sh.PeriodEnd); err != nil {
			return nil, err
		}
		history = append(history, &sh)
	}
	return history, rows.Err()
}

func scanEnc(row pgx.Row) (*Encounter, error) {
	var e Encounter
	err := row.Scan(
		&e.ID, &e.PatientName, &e.PatientDocument, &e.Demographics, &e.Module, &e.Status,
		&e.ServiceDetail, &e.Priority, &e.AssignedStaffID, &e.Intake,
		&e.ScheduledDate, &e.AppointmentTime, &e.ArrivedAt, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEncs(rows pgx.Rows, total int) ([]*Encounter, int, error) {
	var encs []*Encounter
	for rows.Next() {
		enc, err := scanEnc(rows)
		if err != nil {
			return nil, 0, err
		}
		encs = append(encs, enc)
	}
	return encs, total, rows.Err()
}
