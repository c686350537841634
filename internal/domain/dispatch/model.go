package dispatch

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the position of a service request in the field pipeline.
type Status string

const (
	StatusPending    Status = "pendiente"
	StatusAssigned   Status = "asignado"
	StatusEnRoute    Status = "en-camino"
	StatusInProgress Status = "en-proceso"
	StatusCollected  Status = "recolectado"
	StatusCompleted  Status = "finalizado"
)

// pipeline maps each status to its single forward successor. Pending is
// absent because leaving it requires an assignment, and completed is
// absent because it is terminal.
var pipeline = map[Status]Status{
	StatusAssigned:   StatusEnRoute,
	StatusEnRoute:    StatusInProgress,
	StatusInProgress: StatusCollected,
	StatusCollected:  StatusCompleted,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusEnRoute, StatusInProgress, StatusCollected, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Terminal() bool { return s == StatusCompleted }

// Next returns the successor status, or false when s has none.
func (s Status) Next() (Status, bool) {
	next, ok := pipeline[s]
	return next, ok
}

// ServiceRequest is a dispatchable unit of field work, typically a
// home-service sample collection.
type ServiceRequest struct {
	ID              uuid.UUID       `json:"id"`
	PatientName     string          `json:"patient_name"`
	PatientDocument *string         `json:"patient_document,omitempty"`
	Address         string          `json:"address"`
	Contact         json.RawMessage `json:"contact,omitempty"`
	Studies         json.RawMessage `json:"studies"`
	Status          Status          `json:"status"`
	AssignedStaffID *uuid.UUID      `json:"assigned_staff_id,omitempty"`
	AssignedUnit    *string         `json:"assigned_unit,omitempty"`
	Commission      *float64        `json:"commission,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AssignedTo reports whether staffID currently holds the request.
func (r *ServiceRequest) AssignedTo(staffID uuid.UUID) bool {
	return r.AssignedStaffID != nil && *r.AssignedStaffID == staffID
}

// Earning is the commission credited for one completed request. The
// request id is the primary key, which makes crediting idempotent.
type Earning struct {
	RequestID  uuid.UUID `json:"request_id"`
	StaffID    uuid.UUID `json:"staff_id"`
	Amount     float64   `json:"amount"`
	CreditedAt time.Time `json:"credited_at"`
}

// EarningsSummary is the wallet view for one field agent.
type EarningsSummary struct {
	StaffID   uuid.UUID `json:"staff_id"`
	Total     float64   `json:"total"`
	Completed int       `json:"completed"`
}
