package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new encounter. The initial status follows the origin:
// a scheduled date makes it a booked visit, telemedicine walk-ins join the
// online queue, everything else starts waiting.
func (s *Service) Create(ctx context.Context, enc *Encounter) error {
	if enc.PatientName == "" {
		return fmt.Errorf("%w: patient_name is required", ErrValidation)
	}
	if !validModules[enc.Module] {
		return fmt.Errorf("%w: unknown module %q", ErrValidation, enc.Module)
	}
	if enc.Priority == "" {
		enc.Priority = PriorityMedium
	}
	if !enc.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, enc.Priority)
	}
	if enc.Module == ModuleTelemedicine && len(enc.Intake) == 0 {
		return fmt.Errorf("%w: telemedicine encounters require an intake form", ErrValidation)
	}

	switch {
	case enc.ScheduledDate != nil:
		enc.Status = StatusScheduled
	case enc.Module == ModuleTelemedicine:
		enc.Status = StatusOnlineQueued
	default:
		enc.Status = StatusWaiting
	}

	if enc.ArrivedAt.IsZero() {
		enc.ArrivedAt = time.Now().UTC()
	}
	return s.repo.Create(ctx, enc)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Encounter, error) {
	return s.repo.GetByID(ctx, id)
}

// Transition moves an encounter to newStatus if the adjacency table allows
// it. detail carries the module-specific in-service subtype ("taking
// samples"). Every successful transition appends a status history row.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, newStatus Status, detail *string) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, newStatus)
	}

	enc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if enc.Status.Terminal() {
		return fmt.Errorf("%w: encounter is attended", ErrInvalidTransition)
	}
	if !CanTransition(enc.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, enc.Status, newStatus)
	}
	if newStatus == StatusOnlineInCall && !enc.Claimed() {
		return fmt.Errorf("%w: online encounter must be claimed before the call starts", ErrInvalidTransition)
	}

	now := time.Now().UTC()
	history := &StatusHistory{
		EncounterID: enc.ID,
		Status:      enc.Status,
		PeriodStart: enc.UpdatedAt,
		PeriodEnd:   now,
	}
	if history.PeriodStart.IsZero() {
		history.PeriodStart = enc.ArrivedAt
	}

	enc.Status = newStatus
	if newStatus == StatusInService && detail != nil {
		enc.ServiceDetail = detail
	}
	return s.repo.UpdateWithHistory(ctx, enc, history)
}

// Claim attaches a caregiver as the sole handler of the encounter. First
// caregiver wins; a losing racer gets ErrAlreadyClaimed immediately.
func (s *Service) Claim(ctx context.Context, id, staffID uuid.UUID) error {
	if staffID == uuid.Nil {
		return fmt.Errorf("%w: staff_id is required", ErrValidation)
	}
	return s.repo.Claim(ctx, id, staffID)
}

// Queue lists unclaimed encounters for a module, critical first, then by
// arrival time.
func (s *Service) Queue(ctx context.Context, module Module) ([]*Encounter, error) {
	if !validModules[module] {
		return nil, fmt.Errorf("%w: unknown module %q", ErrValidation, module)
	}
	encs, err := s.repo.Queue(ctx, module)
	if err != nil {
		return nil, err
	}
	SortQueue(encs)
	return encs, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Encounter, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatientDocument(ctx context.Context, document string, limit, offset int) ([]*Encounter, int, error) {
	return s.repo.ListByPatientDocument(ctx, document, limit, offset)
}

func (s *Service) StatusHistory(ctx context.Context, encounterID uuid.UUID) ([]*StatusHistory, error) {
	return s.repo.GetStatusHistory(ctx, encounterID)
}
