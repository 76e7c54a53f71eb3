package core_dto

// Appointment is the submission payload sent to the hospital core API. When
// PatientID is empty the upstream creates the patient record from the
// embedded detail snapshot.
type Appointment struct {
	DoctorID   string         `json:"doctorId"`
	HospitalID string         `json:"hospitalId"`
	PatientID  string         `json:"patientId,omitempty"`
	Patient    PatientDetails `json:"patientDetails"`
	Date       string         `json:"date"`
	Time       string         `json:"time"`
	Type       string         `json:"type"`
	Notes      string         `json:"notes,omitempty"`
	Status     string         `json:"status"`
}

type PatientDetails struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	DateOfBirth    string   `json:"dateOfBirth"`
	Gender         string   `json:"gender"`
	BloodGroup     string   `json:"bloodGroup,omitempty"`
	Allergies      []string `json:"allergies,omitempty"`
	MedicalHistory string   `json:"medicalHistory,omitempty"`
}

// BookingOutcome is the decoded result of a create-appointment call. The
// upstream answers in several shapes, so every recognizable signal is carried
// separately and interpretation is left to the submitter.
type BookingOutcome struct {
	StatusCode       int
	HasBody          bool
	SuccessFlag      bool
	HasSuccessFlag   bool
	AppointmentID    string
	Message          string
	PatientActivated bool
}
