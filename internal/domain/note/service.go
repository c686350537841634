package note

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SaveDraft upserts an unsigned note. A zero id creates a new draft; an
// existing id rewrites the stored draft in place. Signed notes reject the
// write with ErrImmutableNote.
func (s *Service) SaveDraft(ctx context.Context, n *Note) (uuid.UUID, error) {
	if n.PatientID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if !n.Type.Valid() {
		return uuid.Nil, fmt.Errorf("%w: unknown note type %q", ErrValidation, n.Type)
	}
	if n.Author == "" {
		return uuid.Nil, fmt.Errorf("%w: author is required", ErrValidation)
	}
	if n.Date.IsZero() {
		n.Date = time.Now().UTC()
	}
	n.IsSigned = false
	n.Hash = nil

	if n.ID == uuid.Nil {
		if err := s.repo.Create(ctx, n); err != nil {
			return uuid.Nil, err
		}
		return n.ID, nil
	}

	existing, err := s.repo.GetByID(ctx, n.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if existing.IsSigned {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrImmutableNote, n.ID)
	}
	if err := s.repo.UpdateDraft(ctx, n); err != nil {
		return uuid.Nil, err
	}
	return n.ID, nil
}

// Sign certifies a note: the mandatory fields for its document type must
// be present, the certification hash is computed and frozen, and the note
// becomes immutable forever.
func (s *Service) Sign(ctx context.Context, id uuid.UUID) (string, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if n.IsSigned {
		return "", fmt.Errorf("%w: %s", ErrAlreadySigned, id)
	}
	if missing := n.MissingFields(); len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrIncompleteNote, strings.Join(missing, ", "))
	}

	hash := n.CertificationHash()
	if err := s.repo.Sign(ctx, id, hash); err != nil {
		return "", err
	}
	return hash, nil
}

// Supersede is the only sanctioned way to amend a signed note: a new draft
// is created referencing the old id, and the old note stays frozen.
func (s *Service) Supersede(ctx context.Context, oldID uuid.UUID, amendment *Note) (uuid.UUID, error) {
	old, err := s.repo.GetByID(ctx, oldID)
	if err != nil {
		return uuid.Nil, err
	}
	if !old.IsSigned {
		return uuid.Nil, fmt.Errorf("%w: note %s is a draft, edit it in place", ErrValidation, oldID)
	}

	amendment.ID = uuid.Nil
	amendment.PatientID = old.PatientID
	if amendment.Type == "" {
		amendment.Type = old.Type
	}
	amendment.Supersedes = &old.ID
	return s.SaveDraft(ctx, amendment)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Note, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
