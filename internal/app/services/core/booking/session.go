package booking

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/core_dto"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Hooks are invoked on a successful submission, OnSuccess strictly before
// OnClose. Either may be nil.
type Hooks struct {
	OnSuccess func()
	OnClose   func()
}

type SessionOptions struct {
	// DefaultStatus the submission is created with: pending for
	// staff-initiated sessions, confirmed for doctor-initiated ones.
	DefaultStatus string

	// ResolveHospitalOnStart runs the hospital-resolution step (preset id
	// or the staff member's own hospital) before doctors are listed.
	ResolveHospitalOnStart bool
	HospitalID             string

	QuickBook bool
	FollowUp  bool

	Hooks Hooks

	// SearchDebounce and ResyncDelay exist so tests can compress time;
	// zero values take the fixed defaults.
	SearchDebounce time.Duration
	ResyncDelay    time.Duration
}

// Session holds the in-memory state of one booking form instance. All state
// is local to the session; the only cross-session resources are the stateless
// usecase and its clients.
type Session struct {
	mu      sync.Mutex
	usecase contracts.BookingUsecase
	opts    SessionOptions
	log     *zap.Logger

	form     requests.CreateBookingRequest
	hospital *core_dto.Hospital
	doctors  []core_dto.Doctor

	available []string
	assumed   bool

	searchQuery   string
	searchResults []core_dto.Patient
	searchTimer   *time.Timer

	// slotGeneration implements last-request-wins for slot resolution:
	// only the result of the most recently issued request is applied.
	slotGeneration atomic.Uint64

	submitting atomic.Bool
}

// NewStaffSession builds a staff-initiated booking session: submissions
// default to pending and the staff member's hospital is resolved up front.
func NewStaffSession(usecase contracts.BookingUsecase, hooks Hooks, logger *zap.Logger) *Session {
	return newSession(usecase, SessionOptions{
		DefaultStatus:          constvars.AppointmentStatusPending,
		ResolveHospitalOnStart: true,
		Hooks:                  hooks,
	}, logger)
}

// NewDoctorSession builds a doctor-initiated booking session: submissions
// default to confirmed and the quick-book / follow-up variants pre-select
// the appointment type.
func NewDoctorSession(usecase contracts.BookingUsecase, hospitalID string, quickBook, followUp bool, hooks Hooks, logger *zap.Logger) *Session {
	return newSession(usecase, SessionOptions{
		DefaultStatus: constvars.AppointmentStatusConfirmed,
		HospitalID:    hospitalID,
		QuickBook:     quickBook,
		FollowUp:      followUp,
		Hooks:         hooks,
	}, logger)
}

func NewSession(usecase contracts.BookingUsecase, opts SessionOptions, logger *zap.Logger) *Session {
	return newSession(usecase, opts, logger)
}

func newSession(usecase contracts.BookingUsecase, opts SessionOptions, logger *zap.Logger) *Session {
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = constvars.PatientSearchDebounceMillis * time.Millisecond
	}
	if opts.ResyncDelay <= 0 {
		opts.ResyncDelay = constvars.SubmitResyncDelayMillis * time.Millisecond
	}

	s := &Session{
		usecase: usecase,
		opts:    opts,
		log:     logger,
	}
	s.form.HospitalID = opts.HospitalID
	s.form.QuickBook = opts.QuickBook
	s.form.FollowUp = opts.FollowUp
	s.form.Type = constvars.AppointmentTypeConsultation
	if opts.FollowUp {
		s.form.Type = constvars.AppointmentTypeFollowUp
	}
	return s
}

// Start resolves the hospital (when the session is configured to) and then
// the doctor list as a dependent follow-up fetch. Failures leave the session
// usable with empty datasets.
func (s *Session) Start(ctx context.Context) {
	if s.opts.ResolveHospitalOnStart || s.opts.HospitalID != "" {
		hospital, err := s.usecase.ResolveHospital(ctx, s.opts.HospitalID)
		if err != nil {
			s.log.Warn("booking session failed to resolve hospital", zap.Error(err))
			return
		}
		s.mu.Lock()
		s.hospital = hospital
		s.form.HospitalID = hospital.ID
		s.mu.Unlock()
	}

	s.mu.Lock()
	hospitalID := s.form.HospitalID
	s.mu.Unlock()
	if hospitalID == "" {
		return
	}

	doctors, err := s.usecase.ListDoctors(ctx, hospitalID)
	if err != nil {
		s.log.Warn("booking session failed to list doctors", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.doctors = doctors
	s.mu.Unlock()
}

// SetDoctor changes the selected doctor and re-resolves availability.
func (s *Session) SetDoctor(ctx context.Context, doctorID string) {
	s.mu.Lock()
	s.form.DoctorID = doctorID
	s.mu.Unlock()
	s.resolveSlots(ctx)
}

// SetDate changes the appointment date and re-resolves availability.
func (s *Session) SetDate(ctx context.Context, date string) {
	s.mu.Lock()
	s.form.Date = date
	s.mu.Unlock()
	s.resolveSlots(ctx)
}

func (s *Session) resolveSlots(ctx context.Context) {
	generation := s.slotGeneration.Add(1)

	s.mu.Lock()
	doctorID, date := s.form.DoctorID, s.form.Date
	s.mu.Unlock()

	availability, err := s.usecase.ResolveSlots(ctx, doctorID, date)
	if err != nil {
		s.log.Warn("booking session slot resolution failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer request was issued while this one was in flight; its result
	// wins and this one is discarded.
	if generation != s.slotGeneration.Load() {
		return
	}

	s.available = availability.Available
	s.assumed = availability.Assumed

	if s.form.Time != "" && !ContainsSlot(s.available, s.form.Time) {
		s.form.Time = ""
	}
}

// AvailableSlots returns the last applied resolution; assumed reports the
// all-available fallback, which may overstate availability.
func (s *Session) AvailableSlots() (slots []string, assumed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots = make([]string, len(s.available))
	copy(slots, s.available)
	return slots, s.assumed
}

// SelectTime picks a slot; it must be a member of the resolved available set.
func (s *Session) SelectTime(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ContainsSlot(s.available, slot) {
		return exceptions.ErrBookingSlotNotAvailable(nil)
	}
	s.form.Time = slot
	return nil
}

func (s *Session) SelectedTime() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Time
}

// SetSearchQuery debounces patient search: a blank query resets results
// immediately, any other value schedules a fetch after the quiet period,
// cancelling the previously scheduled one. A late result for a superseded
// query is never applied.
func (s *Session) SetSearchQuery(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}

	s.searchQuery = query
	if query == "" {
		s.searchResults = nil
		return
	}

	s.searchTimer = time.AfterFunc(s.opts.SearchDebounce, func() {
		results, err := s.usecase.SearchPatients(ctx, query)
		if err != nil {
			results = []core_dto.Patient{}
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		// The query moved on while the fetch was in flight; drop the
		// stale result.
		if s.searchQuery != query {
			return
		}
		s.searchResults = results
	})
}

func (s *Session) SearchResults() []core_dto.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]core_dto.Patient, len(s.searchResults))
	copy(results, s.searchResults)
	return results
}

// SelectPatient loads an existing patient into the form: fields populated,
// stored history derived, the new-history input cleared, and the search UI
// closed.
func (s *Session) SelectPatient(patient *core_dto.Patient) *responses.SelectedPatient {
	selected := s.usecase.SelectPatient(patient)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.form.PatientID = selected.PatientID
	s.form.PatientName = selected.Name
	s.form.PatientEmail = selected.Email
	s.form.PatientPhone = selected.Phone
	s.form.PatientDateOfBirth = selected.DateOfBirth
	s.form.PatientGender = selected.Gender
	s.form.PatientBloodGroup = selected.BloodGroup
	s.form.Allergies = selected.Allergies
	s.form.StoredMedicalHistory = selected.StoredHistory
	s.form.NewMedicalHistory = ""

	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
	s.searchQuery = ""
	s.searchResults = nil

	return selected
}

func (s *Session) SetNewPatient(name, email, phone, dateOfBirth, gender, bloodGroup, allergies string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.PatientID = ""
	s.form.PatientName = name
	s.form.PatientEmail = email
	s.form.PatientPhone = phone
	s.form.PatientDateOfBirth = dateOfBirth
	s.form.PatientGender = gender
	s.form.PatientBloodGroup = bloodGroup
	s.form.Allergies = allergies
	s.form.StoredMedicalHistory = ""
}

func (s *Session) SetNewHistoryText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.NewMedicalHistory = text
}

func (s *Session) SetType(appointmentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Type = appointmentType
}

func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Notes = notes
}

// CanSubmit reports whether every submission precondition is met: doctor,
// hospital, date, time, and either an existing patient id or a new-patient
// name.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.DoctorID != "" &&
		s.form.HospitalID != "" &&
		s.form.Date != "" &&
		s.form.Time != "" &&
		(s.form.PatientID != "" || s.form.PatientName != "")
}

// Submit runs the booking submission. At most one submission may be in
// flight; the guard holds from the moment submission starts until it
// resolves either way. On success the form is reset and OnSuccess fires
// before OnClose. An upstream 500 schedules a delayed best-effort re-sync
// through OnSuccess without blocking the returned error.
func (s *Session) Submit(ctx context.Context) (*responses.BookingResult, error) {
	if !s.CanSubmit() {
		return nil, exceptions.ErrBookingPreconditions(errors.New("submission attempted with unmet preconditions"))
	}

	if !s.submitting.CompareAndSwap(false, true) {
		return nil, exceptions.ErrBookingInFlight(nil)
	}
	defer s.submitting.Store(false)

	s.mu.Lock()
	request := s.form
	s.mu.Unlock()

	result, err := s.usecase.SubmitBooking(ctx, &request, s.opts.DefaultStatus)
	if err != nil {
		var customErr *exceptions.CustomError
		if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusInternalServerError {
			// The upstream may have recorded the booking despite the
			// 500; re-sync the caller's view shortly without hiding
			// the error already surfaced.
			if s.opts.Hooks.OnSuccess != nil {
				time.AfterFunc(s.opts.ResyncDelay, s.opts.Hooks.OnSuccess)
			}
		}
		return nil, err
	}

	s.Reset()

	if s.opts.Hooks.OnSuccess != nil {
		s.opts.Hooks.OnSuccess()
	}
	if s.opts.Hooks.OnClose != nil {
		s.opts.Hooks.OnClose()
	}

	return result, nil
}

// Submitting reports whether a submission is currently in flight.
func (s *Session) Submitting() bool {
	return s.submitting.Load()
}

// Reset clears the form back to the session defaults, keeping the resolved
// hospital and doctor list.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	hospitalID := s.form.HospitalID
	s.form = requests.CreateBookingRequest{
		HospitalID: hospitalID,
		QuickBook:  s.opts.QuickBook,
		FollowUp:   s.opts.FollowUp,
		Type:       constvars.AppointmentTypeConsultation,
	}
	if s.opts.FollowUp {
		s.form.Type = constvars.AppointmentTypeFollowUp
	}
	s.available = nil
	s.assumed = false
	s.searchQuery = ""
	s.searchResults = nil
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
}
