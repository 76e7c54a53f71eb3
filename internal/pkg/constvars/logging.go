package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingSessionDataKey    = "session_data"
	LoggingDoctorIDKey       = "doctor_id"
	LoggingHospitalIDKey     = "hospital_id"
	LoggingPatientIDKey      = "patient_id"
	LoggingAppointmentIDKey  = "appointment_id"
	LoggingDateKey           = "date"
	LoggingQueryKey          = "query"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingResponseLengthKey = "response_length"
)
