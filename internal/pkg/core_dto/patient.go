package core_dto

import (
	"github.com/goccy/go-json"
)

type Patient struct {
	ID          string   `json:"_id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	BloodGroup  string   `json:"bloodGroup,omitempty"`
	Allergies   []string `json:"allergies,omitempty"`
	Status      string   `json:"status,omitempty"`

	// MedicalHistory arrives as a plain string, a JSON-encoded string, a
	// structured list, or a single object. Kept raw here; normalization
	// happens in the booking service.
	MedicalHistory json.RawMessage `json:"medicalHistory,omitempty"`
}

// MedicalHistoryEntry is the normalized structured form of one history record.
type MedicalHistoryEntry struct {
	Condition   string   `json:"condition"`
	Date        string   `json:"date,omitempty"`
	Medications []string `json:"medications,omitempty"`
}
