package models

// Session is the authenticated identity stored in redis, keyed by the
// session id carried inside the bearer JWT.
type Session struct {
	SessionID  string `json:"session_id"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	HospitalID string `json:"hospital_id,omitempty"`
	Token      string `json:"token,omitempty"`
}
