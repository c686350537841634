package encounter

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, enc *Encounter) error
	GetByID(ctx context.Context, id uuid.UUID) (*Encounter, error)
	// UpdateWithHistory persists the encounter with a compare-and-swap on
	// Version and appends the status-history row in the same transaction,
	// so a lost race leaves no trace. It returns ErrConflict when another
	// writer won.
	UpdateWithHistory(ctx context.Context, enc *Encounter, sh *StatusHistory) error
	// Claim sets the assignee only if it is currently unset.
	Claim(ctx context.Context, id, staffID uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Encounter, int, error)
	ListByPatientDocument(ctx context.Context, document string, limit, offset int) ([]*Encounter, int, error)
	// Queue returns unclaimed, non-terminal encounters for a module.
	Queue(ctx context.Context, module Module) ([]*Encounter, error)

	GetStatusHistory(ctx context.Context, encounterID uuid.UUID) ([]*StatusHistory, error)
}
