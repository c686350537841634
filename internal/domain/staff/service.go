package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, m *Member) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if m.Role == "" {
		return fmt.Errorf("%w: role is required", ErrValidation)
	}
	if m.Status == "" {
		m.Status = StatusActive
	}
	if m.Status != StatusActive && m.Status != StatusInactive {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, m.Status)
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Member) error {
	if _, err := s.repo.GetByID(ctx, m.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return s.repo.List(ctx, limit, offset)
}
