package models

import "time"

// BookingAttempt is the audit document written for every submission attempt,
// success or failure. Writes are best-effort and never block the booking path.
type BookingAttempt struct {
	ID               string    `bson:"_id"`
	RequestID        string    `bson:"request_id,omitempty"`
	DoctorID         string    `bson:"doctor_id"`
	HospitalID       string    `bson:"hospital_id"`
	PatientID        string    `bson:"patient_id,omitempty"`
	Date             string    `bson:"date"`
	Time             string    `bson:"time"`
	Status           string    `bson:"status"`
	Outcome          string    `bson:"outcome"`
	UpstreamStatus   int       `bson:"upstream_status,omitempty"`
	AppointmentID    string    `bson:"appointment_id,omitempty"`
	Message          string    `bson:"message,omitempty"`
	PatientActivated bool      `bson:"patient_activated,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
}

const (
	BookingOutcomeSuccess = "success"
	BookingOutcomeFailed  = "failed"
)
