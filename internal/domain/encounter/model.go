package encounter

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an encounter.
type Status string

const (
	StatusScheduled     Status = "scheduled"
	StatusWaiting       Status = "waiting"
	StatusInService     Status = "in-service"
	StatusResultsReady  Status = "results-ready"
	StatusOnlineQueued  Status = "online-queued"
	StatusOnlineWaiting Status = "online-waiting"
	StatusOnlineInCall  Status = "online-in-call"
	StatusAttended      Status = "attended"
)

// Module is the clinical line that owns an encounter.
type Module string

const (
	ModuleOutpatient      Module = "outpatient"
	ModuleEmergency       Module = "emergency"
	ModuleHospitalization Module = "hospitalization"
	ModuleAuxiliary       Module = "auxiliary"
	ModuleTelemedicine    Module = "telemedicine"
	ModuleHomeService     Module = "home-service"
)

var validModules = map[Module]bool{
	ModuleOutpatient:      true,
	ModuleEmergency:       true,
	ModuleHospitalization: true,
	ModuleAuxiliary:       true,
	ModuleTelemedicine:    true,
	ModuleHomeService:     true,
}

// Priority orders the waiting queue. It never preempts an in-service encounter.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns the ordering weight of the priority; higher sorts first.
func (p Priority) Rank() int { return priorityRank[p] }

func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// statusGraph is the single adjacency table every screen goes through.
// Attended is terminal and reachable from every non-terminal status.
var statusGraph = map[Status][]Status{
	StatusScheduled:     {StatusWaiting, StatusAttended},
	StatusWaiting:       {StatusInService, StatusAttended},
	StatusInService:     {StatusResultsReady, StatusAttended},
	StatusResultsReady:  {StatusAttended},
	StatusOnlineQueued:  {StatusOnlineWaiting, StatusOnlineInCall, StatusAttended},
	StatusOnlineWaiting: {StatusOnlineInCall, StatusAttended},
	StatusOnlineInCall:  {StatusAttended},
	StatusAttended:      {},
}

func (s Status) Valid() bool {
	_, ok := statusGraph[s]
	return ok
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool { return s == StatusAttended }

// CanTransition reports whether the adjacency table allows from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range statusGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Encounter is one active episode of care for a patient.
//
// Patient identity beyond the name and document number lives in the opaque
// Demographics payload; unknown keys in stored records are preserved as-is.
type Encounter struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	PatientName     string          `db:"patient_name" json:"patient_name"`
	PatientDocument *string         `db:"patient_document" json:"patient_document,omitempty"`
	Demographics    json.RawMessage `db:"demographics" json:"demographics,omitempty"`
	Module          Module          `db:"module" json:"module"`
	Status          Status          `db:"status" json:"status"`
	ServiceDetail   *string         `db:"service_detail" json:"service_detail,omitempty"`
	Priority        Priority        `db:"priority" json:"priority"`
	AssignedStaffID *uuid.UUID      `db:"assigned_staff_id" json:"assigned_staff_id,omitempty"`
	Intake          json.RawMessage `db:"intake" json:"intake,omitempty"`
	ScheduledDate   *time.Time      `db:"scheduled_date" json:"scheduled_date,omitempty"`
	AppointmentTime *string         `db:"appointment_time" json:"appointment_time,omitempty"`
	ArrivedAt       time.Time       `db:"arrived_at" json:"arrived_at"`
	Version         int             `db:"version" json:"version"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Claimed reports whether a caregiver already owns this encounter.
func (e *Encounter) Claimed() bool { return e.AssignedStaffID != nil }

// StatusHistory records one completed stay in a status.
type StatusHistory struct {
	ID          uuid.UUID `db:"id" json:"id"`
	EncounterID uuid.UUID `db:"encounter_id" json:"encounter_id"`
	Status      Status    `db:"status" json:"status"`
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`
}

// SortQueue orders encounters by priority descending, then arrival ascending.
// The sort is stable so equal entries keep their insertion order.
func SortQueue(encs []*Encounter) {
	sort.SliceStable(encs, func(i, j int) bool {
		if encs[i].Priority.Rank() != encs[j].Priority.Rank() {
			return encs[i].Priority.Rank() > encs[j].Priority.Rank()
		}
		return encs[i].ArrivedAt.Before(encs[j].ArrivedAt)
	})
}
