package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, req *ServiceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*ServiceRequest, error)
	// List returns requests newest first, optionally filtered by status
	// (empty status means all).
	List(ctx context.Context, status Status, limit, offset int) ([]*ServiceRequest, int, error)

	// Assign sets the assignee only while the request is still pending and
	// unclaimed. An existing commission is never overwritten.
	Assign(ctx context.Context, id, staffID uuid.UUID, unit *string, commission *float64) error
	// Advance moves the request from one status to the next only if it is
	// still in the expected status and held by the expected staff member.
	Advance(ctx context.Context, id uuid.UUID, from, to Status, staffID uuid.UUID) error
	// Finalize is the terminal advance: the status update, completion
	// timestamp and earning credit commit in one transaction, keyed by the
	// request id so a replay can never double-count.
	Finalize(ctx context.Context, id uuid.UUID, from Status, staffID uuid.UUID, completedAt time.Time, amount float64) error
	// Release returns a non-terminal assigned request to pending.
	Release(ctx context.Context, id uuid.UUID) error

	EarningsForStaff(ctx context.Context, staffID uuid.UUID) (*EarningsSummary, error)
}
