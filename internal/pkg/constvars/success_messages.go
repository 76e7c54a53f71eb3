package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Booking messages
	BookingCreatedSuccess          = "appointment booked successfully"
	BookingCreatedPatientActivated = "appointment booked successfully, the patient record was re-activated"
	GetAvailabilitySuccess         = "get slot availability successfully"
	GetHospitalSuccess             = "get hospital successfully"
	GetDoctorsSuccess              = "get doctors successfully"
	SearchPatientsSuccess          = "search patients successfully"
	HealthCheckSuccess             = "service healthy"
)
