package requests

type CreateBookingRequest struct {
	DoctorID   string `json:"doctorId" validate:"required"`
	HospitalID string `json:"hospitalId"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string `json:"time" validate:"required,time_slot"`
	Type       string `json:"type" validate:"required,appointment_type"`
	Notes      string `json:"notes"`

	PatientID string `json:"patientId"`

	// New-patient details, required when PatientID is empty.
	PatientName        string `json:"patientName"`
	PatientEmail       string `json:"patientEmail"`
	PatientPhone       string `json:"patientPhone"`
	PatientDateOfBirth string `json:"patientDateOfBirth"`
	PatientGender      string `json:"patientGender"`
	PatientBloodGroup  string `json:"patientBloodGroup"`

	// Comma-separated free text, tokenized before submission.
	Allergies string `json:"allergies"`

	// Stored history text plus newly entered free text, merged on submit.
	StoredMedicalHistory string `json:"storedMedicalHistory"`
	NewMedicalHistory    string `json:"newMedicalHistory"`

	QuickBook bool `json:"quickBook"`
	FollowUp  bool `json:"followUp"`
}

type PatientSearchRequest struct {
	Query string `json:"query"`
}
