package staff

import (
	"time"

	"github.com/google/uuid"
)

// Status gates whether a staff member can work at all.
type Status string

const (
	StatusActive   Status = "activo"
	StatusInactive Status = "inactivo"
)

// Member is an addressable agent: physicians, lab technicians, dispatchers
// and field agents all live here.
type Member struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Role               string    `db:"role" json:"role"`
	HomeServiceEnabled bool      `db:"home_service_enabled" json:"home_service_enabled"`
	Status             Status    `db:"status" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// EligibleForDispatch reports whether the member may take field work.
func (m *Member) EligibleForDispatch() bool {
	return m.HomeServiceEnabled && m.Status == StatusActive
}
