package constvars

// The clinic schedule has two daily windows of six half-hour slots each,
// 09:00-11:30 and 14:00-16:30. Every booking flow shares this set; the order
// here is the canonical display order.
var TimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

const (
	AppointmentTypeConsultation = "consultation"
	AppointmentTypeFollowUp     = "followup"
	AppointmentTypeCheckup      = "checkup"
	AppointmentTypeEmergency    = "emergency"
)

const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
)

const (
	// Patient search waits this long after the last keystroke before
	// issuing a request.
	PatientSearchDebounceMillis = 500

	// Delay before the best-effort re-sync that follows an upstream 500.
	SubmitResyncDelayMillis = 1000
)

const (
	BookingAuditCollection = "booking_attempts"
)
