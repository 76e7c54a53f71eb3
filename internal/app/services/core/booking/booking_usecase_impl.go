package booking

import (
	"context"
	"errors"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/core_dto"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type BookingUsecaseOptions struct {
	// AvailabilityCacheTTL of zero disables the redis cache.
	AvailabilityCacheTTL time.Duration
}

type bookingUsecase struct {
	hospitals       contracts.HospitalClient
	doctors         contracts.DoctorClient
	slots           contracts.SlotClient
	patients        contracts.PatientClient
	appointments    contracts.AppointmentClient
	redisRepository contracts.RedisRepository
	audit           contracts.BookingAuditRepository
	events          contracts.BookingEventPublisher
	options         BookingUsecaseOptions
	log             *zap.Logger
}

func NewBookingUsecase(
	hospitals contracts.HospitalClient,
	doctors contracts.DoctorClient,
	slots contracts.SlotClient,
	patients contracts.PatientClient,
	appointments contracts.AppointmentClient,
	redisRepository contracts.RedisRepository,
	audit contracts.BookingAuditRepository,
	events contracts.BookingEventPublisher,
	options BookingUsecaseOptions,
	logger *zap.Logger,
) contracts.BookingUsecase {
	return &bookingUsecase{
		hospitals:       hospitals,
		doctors:         doctors,
		slots:           slots,
		patients:        patients,
		appointments:    appointments,
		redisRepository: redisRepository,
		audit:           audit,
		events:          events,
		options:         options,
		log:             logger,
	}
}

// ResolveHospital loads the preset hospital when an id is supplied, otherwise
// the current staff member's assigned hospital.
func (u *bookingUsecase) ResolveHospital(ctx context.Context, hospitalID string) (*core_dto.Hospital, error) {
	if hospitalID != "" {
		return u.hospitals.FindHospitalByID(ctx, hospitalID)
	}
	return u.hospitals.FindMyHospital(ctx)
}

// ListDoctors fetches doctors scoped to the hospital. An empty scoped result
// falls back to the full doctor list filtered client-side by hospital id.
func (u *bookingUsecase) ListDoctors(ctx context.Context, hospitalID string) ([]core_dto.Doctor, error) {
	scoped, err := u.doctors.FindDoctorsByHospitalID(ctx, hospitalID)
	if err == nil && len(scoped) > 0 {
		return scoped, nil
	}
	if err != nil {
		u.log.Warn("bookingUsecase.ListDoctors scoped fetch failed, falling back to full list",
			zap.String(constvars.LoggingHospitalIDKey, hospitalID),
			zap.Error(err),
		)
	}

	all, err := u.doctors.FindAllDoctors(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]core_dto.Doctor, 0, len(all))
	for _, doctor := range all {
		if doctor.Hospital.ID == hospitalID {
			filtered = append(filtered, doctor)
		}
	}
	return filtered, nil
}

// ResolveSlots produces the ordered subset of the fixed slot set that is
// bookable for (doctorID, date). A missing input yields the empty set
// without a request. Unrecognized payloads and fetch failures fall back to
// the full set with Assumed set, since that may overstate availability.
func (u *bookingUsecase) ResolveSlots(ctx context.Context, doctorID, date string) (*responses.SlotAvailability, error) {
	availability := &responses.SlotAvailability{
		DoctorID:  doctorID,
		Date:      date,
		Available: []string{},
	}
	if doctorID == "" || date == "" {
		return availability, nil
	}

	cacheKey := fmt.Sprintf("availability:%s:%s", doctorID, date)
	if u.redisRepository != nil && u.options.AvailabilityCacheTTL > 0 {
		if raw, err := u.redisRepository.Get(ctx, cacheKey); err == nil {
			cached := new(responses.SlotAvailability)
			if err := json.Unmarshal([]byte(raw), cached); err == nil {
				return cached, nil
			}
		}
	}

	response, err := u.slots.FindSlots(ctx, doctorID, date)
	if err != nil {
		u.log.Warn("bookingUsecase.ResolveSlots fetch failed, exposing full slot set",
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.String(constvars.LoggingDateKey, date),
			zap.Error(err),
		)
		availability.Available = AllSlots()
		availability.Assumed = true
		return availability, nil
	}

	switch response.Kind {
	case core_dto.SlotResponseAvailable:
		availability.Available = response.Slots
	case core_dto.SlotResponseBooked:
		availability.Available = SubtractSlots(response.Slots)
	default:
		availability.Available = AllSlots()
		availability.Assumed = true
	}

	if !availability.Assumed && u.redisRepository != nil && u.options.AvailabilityCacheTTL > 0 {
		if err := u.redisRepository.Set(ctx, cacheKey, availability, u.options.AvailabilityCacheTTL); err != nil {
			u.log.Warn("bookingUsecase.ResolveSlots cache write failed", zap.Error(err))
		}
	}

	return availability, nil
}

// SearchPatients never surfaces fetch failures; a failed search reads as no
// matches so typing stays uninterrupted.
func (u *bookingUsecase) SearchPatients(ctx context.Context, query string) ([]core_dto.Patient, error) {
	if strings.TrimSpace(query) == "" {
		return []core_dto.Patient{}, nil
	}

	patients, err := u.patients.SearchPatients(ctx, query)
	if err != nil {
		u.log.Warn("bookingUsecase.SearchPatients fetch failed",
			zap.String(constvars.LoggingQueryKey, query),
			zap.Error(err),
		)
		return []core_dto.Patient{}, nil
	}
	return patients, nil
}

// SelectPatient derives the form view for a chosen existing patient:
// normalized history entries, their text rendering kept as stored history,
// and the editable field values.
func (u *bookingUsecase) SelectPatient(patient *core_dto.Patient) *responses.SelectedPatient {
	entries, storedHistory := NormalizeMedicalHistory(patient.MedicalHistory)

	return &responses.SelectedPatient{
		PatientID:     patient.ID,
		Name:          patient.Name,
		Email:         patient.Email,
		Phone:         patient.Phone,
		DateOfBirth:   patient.DateOfBirth,
		Age:           utils.CalculateAge(patient.DateOfBirth),
		Gender:        patient.Gender,
		BloodGroup:    patient.BloodGroup,
		Allergies:     strings.Join(patient.Allergies, ", "),
		History:       entries,
		StoredHistory: storedHistory,
	}
}

// SubmitBooking assembles the appointment payload, submits it and interprets
// the heterogeneous upstream outcome per the success-detection rules.
func (u *bookingUsecase) SubmitBooking(ctx context.Context, request *requests.CreateBookingRequest, defaultStatus string) (*responses.BookingResult, error) {
	if err := validatePreconditions(request); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	if request.HospitalID == "" {
		hospital, err := u.ResolveHospital(ctx, "")
		if err != nil {
			return nil, err
		}
		request.HospitalID = hospital.ID
	}

	availability, err := u.ResolveSlots(ctx, request.DoctorID, request.Date)
	if err == nil && !availability.Assumed && !ContainsSlot(availability.Available, request.Time) {
		return nil, exceptions.ErrBookingSlotNotAvailable(nil)
	}

	payload := &core_dto.Appointment{
		DoctorID:   request.DoctorID,
		HospitalID: request.HospitalID,
		PatientID:  request.PatientID,
		Patient: core_dto.PatientDetails{
			Name:           request.PatientName,
			Email:          request.PatientEmail,
			Phone:          request.PatientPhone,
			DateOfBirth:    request.PatientDateOfBirth,
			Gender:         request.PatientGender,
			BloodGroup:     request.PatientBloodGroup,
			Allergies:      utils.ParseAllergies(request.Allergies),
			MedicalHistory: MergeMedicalHistory(request.StoredMedicalHistory, request.NewMedicalHistory),
		},
		Date:   request.Date,
		Time:   request.Time,
		Type:   request.Type,
		Notes:  request.Notes,
		Status: defaultStatus,
	}

	outcome, err := u.appointments.CreateAppointment(ctx, payload)
	if err != nil {
		u.recordAttempt(ctx, request, defaultStatus, nil, models.BookingOutcomeFailed, err.Error())
		return nil, err
	}

	result, err := interpretOutcome(outcome, defaultStatus)
	if err != nil {
		u.recordAttempt(ctx, request, defaultStatus, outcome, models.BookingOutcomeFailed, err.Error())
		return nil, err
	}

	u.recordAttempt(ctx, request, defaultStatus, outcome, models.BookingOutcomeSuccess, result.Message)

	if u.events != nil {
		if err := u.events.PublishBookingConfirmed(ctx, result, request); err != nil {
			u.log.Warn("bookingUsecase.SubmitBooking event publish failed",
				zap.String(constvars.LoggingAppointmentIDKey, result.AppointmentID),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

// interpretOutcome applies the success-detection rules: an explicit success
// flag, a created-resource id, or a 201 all count as success, even on an
// otherwise failing status. A 2xx answer with no recognizable indicator is
// an invalid response format.
func interpretOutcome(outcome *core_dto.BookingOutcome, defaultStatus string) (*responses.BookingResult, error) {
	success := (outcome.HasSuccessFlag && outcome.SuccessFlag) ||
		outcome.AppointmentID != "" ||
		outcome.StatusCode == constvars.StatusCreated

	if success {
		message := constvars.BookingCreatedSuccess
		if outcome.PatientActivated {
			message = constvars.BookingCreatedPatientActivated
		}
		return &responses.BookingResult{
			AppointmentID:    outcome.AppointmentID,
			Status:           defaultStatus,
			PatientActivated: outcome.PatientActivated,
			Message:          message,
		}, nil
	}

	if outcome.StatusCode >= constvars.StatusOK && outcome.StatusCode < 300 {
		return nil, exceptions.ErrBookingInvalidResponse(nil)
	}

	return nil, exceptions.ErrBookingRejected(outcome.StatusCode, outcome.Message)
}

func validatePreconditions(request *requests.CreateBookingRequest) error {
	var missing []string
	if request.DoctorID == "" {
		missing = append(missing, "doctor")
	}
	if request.Date == "" {
		missing = append(missing, "date")
	}
	if request.Time == "" {
		missing = append(missing, "time")
	}
	if request.PatientID == "" && request.PatientName == "" {
		missing = append(missing, "patient")
	}
	if len(missing) > 0 {
		return exceptions.ErrBookingPreconditions(errors.New("missing " + strings.Join(missing, ", ")))
	}
	return nil
}

func (u *bookingUsecase) recordAttempt(ctx context.Context, request *requests.CreateBookingRequest, status string, outcome *core_dto.BookingOutcome, result, message string) {
	if u.audit == nil {
		return
	}

	attempt := &models.BookingAttempt{
		RequestID:  utils.RequestIDFromContext(ctx),
		DoctorID:   request.DoctorID,
		HospitalID: request.HospitalID,
		PatientID:  request.PatientID,
		Date:       request.Date,
		Time:       request.Time,
		Status:     status,
		Outcome:    result,
		Message:    message,
	}
	if outcome != nil {
		attempt.UpstreamStatus = outcome.StatusCode
		attempt.AppointmentID = outcome.AppointmentID
		attempt.PatientActivated = outcome.PatientActivated
	}

	if err := u.audit.RecordAttempt(ctx, attempt); err != nil {
		u.log.Warn("bookingUsecase.recordAttempt audit write failed", zap.Error(err))
	}
}
