package responses

import "medibook-service/internal/pkg/core_dto"

// SlotAvailability is the resolved availability for one (doctor, date) pair.
// Assumed is set when the upstream payload matched no recognized shape and
// the full fixed slot set was exposed as a fallback, which may overstate
// availability.
type SlotAvailability struct {
	DoctorID  string   `json:"doctorId"`
	Date      string   `json:"date"`
	Available []string `json:"available"`
	Assumed   bool     `json:"assumed,omitempty"`
}

type BookingResult struct {
	AppointmentID    string `json:"appointmentId,omitempty"`
	Status           string `json:"status"`
	PatientActivated bool   `json:"patientActivated,omitempty"`
	Message          string `json:"message"`
}

// SelectedPatient is the derived view produced when an existing patient is
// chosen from search results: normalized history, its text rendering, and
// the form field values.
type SelectedPatient struct {
	PatientID     string                         `json:"patientId"`
	Name          string                         `json:"name"`
	Email         string                         `json:"email"`
	Phone         string                         `json:"phone"`
	DateOfBirth   string                         `json:"dateOfBirth"`
	Age           int                            `json:"age"`
	Gender        string                         `json:"gender"`
	BloodGroup    string                         `json:"bloodGroup"`
	Allergies     string                         `json:"allergies"`
	History       []core_dto.MedicalHistoryEntry `json:"history"`
	StoredHistory string                         `json:"storedHistory"`
}
