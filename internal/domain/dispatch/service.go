package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mediflow/mediflow/internal/domain/staff"
)

// StaffDirectory is the slice of the staff registry the engine needs to
// gate assignments. *staff.Service satisfies it.
type StaffDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*staff.Member, error)
}

type Service struct {
	repo       Repository
	staff      StaffDirectory
	baseTariff float64
}

func NewService(repo Repository, dir StaffDirectory, baseTariff float64) *Service {
	return &Service{repo: repo, staff: dir, baseTariff: baseTariff}
}

// Create registers a new pending request. The engine never assigns on its
// own initiative, so every request starts unclaimed.
func (s *Service) Create(ctx context.Context, req *ServiceRequest) error {
	if req.PatientName == "" {
		return fmt.Errorf("%w: patient_name is required", ErrValidation)
	}
	if req.Address == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}
	var studies []json.RawMessage
	if err := json.Unmarshal(req.Studies, &studies); err != nil || len(studies) == 0 {
		return fmt.Errorf("%w: at least one study is required", ErrValidation)
	}

	req.Status = StatusPending
	req.AssignedStaffID = nil
	req.AssignedUnit = nil
	req.Commission = nil
	req.CompletedAt = nil
	return s.repo.Create(ctx, req)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ServiceRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status Status, limit, offset int) ([]*ServiceRequest, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.repo.List(ctx, status, limit, offset)
}

// Assign hands a pending request to a staff member on a dispatcher's
// behalf. An explicit commission, when given, wins over the base tariff a
// later self-claim would have applied; once set it is never changed.
func (s *Service) Assign(ctx context.Context, requestID, staffID uuid.UUID, unit string, commission *float64) error {
	if unit == "" {
		return fmt.Errorf("%w: unit is required", ErrValidation)
	}
	if commission != nil && *commission < 0 {
		return fmt.Errorf("%w: commission must not be negative", ErrValidation)
	}
	if err := s.checkEligible(ctx, staffID); err != nil {
		return err
	}
	if err := s.checkPending(ctx, requestID); err != nil {
		return err
	}
	return s.repo.Assign(ctx, requestID, staffID, &unit, commission)
}

// Accept is the agent-side pull: same precondition and effect as Assign,
// but the commission is fixed to the base tariff unless a dispatcher
// already set one.
func (s *Service) Accept(ctx context.Context, requestID, staffID uuid.UUID) error {
	if err := s.checkEligible(ctx, staffID); err != nil {
		return err
	}
	if err := s.checkPending(ctx, requestID); err != nil {
		return err
	}
	tariff := s.baseTariff
	return s.repo.Assign(ctx, requestID, staffID, nil, &tariff)
}

// Advance moves the request exactly one step forward along the pipeline.
// Only the assigned staff member may advance, and the commission is
// credited to their wallet when the request reaches its terminal status.
func (s *Service) Advance(ctx context.Context, requestID, staffID uuid.UUID) (Status, error) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	if req.Status.Terminal() {
		return "", fmt.Errorf("%w: request %s", ErrTerminalState, requestID)
	}
	if !req.AssignedTo(staffID) {
		return "", fmt.Errorf("%w: request %s", ErrNotAssigned, requestID)
	}
	next, ok := req.Status.Next()
	if !ok {
		// An assigned request always has a successor; a missing one means
		// the stored status is inconsistent.
		return "", fmt.Errorf("%w: request %s has no successor from %q", ErrConflict, requestID, req.Status)
	}

	if next.Terminal() {
		amount := s.baseTariff
		if req.Commission != nil {
			amount = *req.Commission
		}
		if err := s.repo.Finalize(ctx, requestID, req.Status, staffID, time.Now().UTC(), amount); err != nil {
			return "", err
		}
		return next, nil
	}

	if err := s.repo.Advance(ctx, requestID, req.Status, next, staffID); err != nil {
		return "", err
	}
	return next, nil
}

// Release returns a non-terminal request to pending so it can be
// reassigned. The assignee and unit are cleared; a commission that was
// already fixed stays.
func (s *Service) Release(ctx context.Context, requestID uuid.UUID) error {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status.Terminal() {
		return fmt.Errorf("%w: request %s", ErrTerminalState, requestID)
	}
	if req.AssignedStaffID == nil {
		return fmt.Errorf("%w: request %s", ErrNotAssigned, requestID)
	}
	return s.repo.Release(ctx, requestID)
}

func (s *Service) Earnings(ctx context.Context, staffID uuid.UUID) (*EarningsSummary, error) {
	return s.repo.EarningsForStaff(ctx, staffID)
}

func (s *Service) checkEligible(ctx context.Context, staffID uuid.UUID) error {
	member, err := s.staff.Get(ctx, staffID)
	if err != nil {
		if errors.Is(err, staff.ErrNotFound) {
			return fmt.Errorf("%w: staff %s", ErrNotEligible, staffID)
		}
		return err
	}
	if !member.EligibleForDispatch() {
		return fmt.Errorf("%w: staff %s", ErrNotEligible, staffID)
	}
	return nil
}

// checkPending surfaces the precise business error before the conditional
// update runs; the update predicate still decides any race.
func (s *Service) checkPending(ctx context.Context, requestID uuid.UUID) error {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status.Terminal() {
		return fmt.Errorf("%w: request %s", ErrTerminalState, requestID)
	}
	if req.Status != StatusPending || req.AssignedStaffID != nil {
		return fmt.Errorf("%w: request %s", ErrAlreadyClaimed, requestID)
	}
	return nil
}
