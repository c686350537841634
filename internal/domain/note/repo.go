package note

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	// UpdateDraft rewrites an unsigned note in place. It returns
	// ErrImmutableNote if the stored note is signed.
	UpdateDraft(ctx context.Context, n *Note) error
	// Sign flips is_signed and freezes the hash, only if the note is
	// still unsigned. Returns ErrAlreadySigned otherwise.
	Sign(ctx context.Context, id uuid.UUID, hash string) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error)
}
