package note

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type is the document kind of a clinical note. Each type has its own
// mandatory content fields; everything else in the payload is opaque.
type Type string

const (
	TypeProgress     Type = "progress"
	TypePrescription Type = "prescription"
	TypeLabResult    Type = "lab-result"
	TypeReferral     Type = "referral"
	TypeConsent      Type = "consent"
)

// requiredFields lists the content keys each document type must carry
// before it can be signed. The collaborator form defines the full schema;
// the core only checks presence.
var requiredFields = map[Type][]string{
	TypeProgress:     {"subjective", "assessment", "plan"},
	TypePrescription: {"medications"},
	TypeLabResult:    {"studies", "results"},
	TypeReferral:     {"destination", "reason"},
	TypeConsent:      {"procedure", "granted"},
}

func (t Type) Valid() bool {
	_, ok := requiredFields[t]
	return ok
}

// Note is one documented clinical act. A draft may be rewritten in place;
// once signed, content, author and hash never change again.
type Note struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	PatientID   uuid.UUID       `db:"patient_id" json:"patient_id"`
	EncounterID *uuid.UUID      `db:"encounter_id" json:"encounter_id,omitempty"`
	Type        Type            `db:"type" json:"type"`
	Content     json.RawMessage `db:"content" json:"content"`
	Author      string          `db:"author" json:"author"`
	Date        time.Time       `db:"date" json:"date"`
	IsSigned    bool            `db:"is_signed" json:"is_signed"`
	Hash        *string         `db:"hash" json:"hash,omitempty"`
	Supersedes  *uuid.UUID      `db:"supersedes" json:"supersedes,omitempty"`
	Version     int             `db:"version" json:"version"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// MissingFields returns the mandatory content keys absent or null in the
// note's payload.
func (n *Note) MissingFields() []string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(n.Content, &payload); err != nil {
		return requiredFields[n.Type]
	}

	var missing []string
	for _, field := range requiredFields[n.Type] {
		raw, ok := payload[field]
		if !ok || string(raw) == "null" {
			missing = append(missing, field)
		}
	}
	return missing
}

// CertificationHash computes the token frozen into the note at signing.
// It covers identity, type, author, date and the full content payload.
func (n *Note) CertificationHash() string {
	h := sha256.New()
	h.Write([]byte(n.ID.String()))
	h.Write([]byte{'|'})
	h.Write([]byte(n.Type))
	h.Write([]byte{'|'})
	h.Write([]byte(n.Author))
	h.Write([]byte{'|'})
	h.Write([]byte(n.Date.UTC().Format(time.RFC3339)))
	h.Write([]byte{'|'})
	h.Write(n.Content)
	return hex.EncodeToString(h.Sum(nil))
}
