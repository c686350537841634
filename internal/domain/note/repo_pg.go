package note

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

const noteCols = `id, patient_id, encounter_id, type, content, author, date,
	is_signed, hash, supersedes, version, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.Version = 1
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clinical_note (
			id, patient_id, encounter_id, type, content, author, date,
			is_signed, hash, supersedes, version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		n.ID, n.PatientID, n.EncounterID, n.Type, n.Content, n.Author, n.Date,
		n.IsSigned, n.Hash, n.Supersedes, n.Version,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	n, err := scanNote(r.pool.QueryRow(ctx, `SELECT `+noteCols+` FROM clinical_note WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return n, err
}

// UpdateDraft rewrites a draft in place. The is_signed predicate keeps a
// signed note untouchable even under a racing sign.
func (r *repoPG) UpdateDraft(ctx context.Context, n *Note) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clinical_note SET
			content=$2, author=$3, date=$4, version=version+1, updated_at=NOW()
		WHERE id = $1 AND NOT is_signed`,
		n.ID, n.Content, n.Author, n.Date,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, n.ID); err != nil {
			return err
		}
		return ErrImmutableNote
	}
	return nil
}

func (r *repoPG) Sign(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clinical_note SET is_signed=TRUE, hash=$2, version=version+1, updated_at=NOW()
		WHERE id = $1 AND NOT is_signed`,
		id, hash,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadySigned
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clinical_note WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+noteCols+` FROM clinical_note WHERE patient_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, total, rows.Err()
}

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(
		&n.ID, &n.PatientID, &n.EncounterID, &n.Type, &n.Content, &n.Author, &n.Date,
		&n.IsSigned, &n.Hash, &n.Supersedes, &n.Version, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
