package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_AUTH_TOKEN_KEY           ContextKey = "auth_token"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "MDBK_SVC_"
)

const (
	ResourceHospital    = "hospitals"
	ResourceDoctor      = "doctors"
	ResourcePatient     = "patients"
	ResourceAppointment = "appointments"
	ResourceSlot        = "slots"
)

const (
	MediBookRoleStaff  = "Staff"
	MediBookRoleDoctor = "Doctor"
	MediBookRoleAdmin  = "Admin"
)
