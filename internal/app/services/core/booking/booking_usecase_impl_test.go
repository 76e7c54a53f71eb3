package booking

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/core_dto"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeHospitalClient struct {
	hospital *core_dto.Hospital
	err      error
}

func (f *fakeHospitalClient) FindHospitalByID(ctx context.Context, hospitalID string) (*core_dto.Hospital, error) {
	return f.hospital, f.err
}

func (f *fakeHospitalClient) FindMyHospital(ctx context.Context) (*core_dto.Hospital, error) {
	return f.hospital, f.err
}

type fakeDoctorClient struct {
	scoped    []core_dto.Doctor
	scopedErr error
	all       []core_dto.Doctor
	allErr    error
}

func (f *fakeDoctorClient) FindDoctorsByHospitalID(ctx context.Context, hospitalID string) ([]core_dto.Doctor, error) {
	return f.scoped, f.scopedErr
}

func (f *fakeDoctorClient) FindAllDoctors(ctx context.Context) ([]core_dto.Doctor, error) {
	return f.all, f.allErr
}

type fakeSlotClient struct {
	response *core_dto.SlotResponse
	err      error
	calls    int
}

func (f *fakeSlotClient) FindSlots(ctx context.Context, doctorID, date string) (*core_dto.SlotResponse, error) {
	f.calls++
	return f.response, f.err
}

type fakePatientClient struct {
	patients []core_dto.Patient
	err      error
	calls    int
	lastQ    string
}

func (f *fakePatientClient) SearchPatients(ctx context.Context, query string) ([]core_dto.Patient, error) {
	f.calls++
	f.lastQ = query
	return f.patients, f.err
}

type fakeAppointmentClient struct {
	outcome  *core_dto.BookingOutcome
	err      error
	received *core_dto.Appointment
}

func (f *fakeAppointmentClient) CreateAppointment(ctx context.Context, request *core_dto.Appointment) (*core_dto.BookingOutcome, error) {
	f.received = request
	return f.outcome, f.err
}

type usecaseFixture struct {
	hospitals    *fakeHospitalClient
	doctors      *fakeDoctorClient
	slots        *fakeSlotClient
	patients     *fakePatientClient
	appointments *fakeAppointmentClient
	usecase      contracts.BookingUsecase
}

func newUsecaseFixture() *usecaseFixture {
	f := &usecaseFixture{
		hospitals:    &fakeHospitalClient{hospital: &core_dto.Hospital{ID: "hosp-1", Name: "City General"}},
		doctors:      &fakeDoctorClient{},
		slots:        &fakeSlotClient{response: &core_dto.SlotResponse{Kind: core_dto.SlotResponseBooked}},
		patients:     &fakePatientClient{},
		appointments: &fakeAppointmentClient{},
	}
	f.usecase = NewBookingUsecase(
		f.hospitals, f.doctors, f.slots, f.patients, f.appointments,
		nil, nil, nil,
		BookingUsecaseOptions{},
		zap.NewNop(),
	)
	return f
}

func validBookingRequest() *requests.CreateBookingRequest {
	return &requests.CreateBookingRequest{
		DoctorID:    "doc-1",
		HospitalID:  "hosp-1",
		Date:        "2026-09-01",
		Time:        "09:30",
		Type:        constvars.AppointmentTypeConsultation,
		PatientName: "Jane Roe",
	}
}

func TestResolveSlots(t *testing.T) {
	t.Run("EmptyInputsYieldEmptySetWithoutRequest", func(t *testing.T) {
		f := newUsecaseFixture()

		for _, pair := range [][2]string{{"", "2026-09-01"}, {"doc-1", ""}, {"", ""}} {
			availability, err := f.usecase.ResolveSlots(context.Background(), pair[0], pair[1])
			assert.NoError(t, err)
			assert.Empty(t, availability.Available)
			assert.False(t, availability.Assumed)
		}
		assert.Zero(t, f.slots.calls)
	})

	t.Run("BookedListSubtractedInCanonicalOrder", func(t *testing.T) {
		f := newUsecaseFixture()
		f.slots.response = &core_dto.SlotResponse{
			Kind:  core_dto.SlotResponseBooked,
			Slots: []string{"09:00", "14:00"},
		}

		availability, err := f.usecase.ResolveSlots(context.Background(), "doc-1", "2026-09-01")

		assert.NoError(t, err)
		assert.Equal(t, []string{
			"09:30", "10:00", "10:30", "11:00", "11:30",
			"14:30", "15:00", "15:30", "16:00", "16:30",
		}, availability.Available)
		assert.False(t, availability.Assumed)
	})

	t.Run("ExplicitAvailableListUsedVerbatim", func(t *testing.T) {
		f := newUsecaseFixture()
		f.slots.response = &core_dto.SlotResponse{
			Kind:  core_dto.SlotResponseAvailable,
			Slots: []string{"10:00", "15:30"},
		}

		availability, err := f.usecase.ResolveSlots(context.Background(), "doc-1", "2026-09-01")

		assert.NoError(t, err)
		assert.Equal(t, []string{"10:00", "15:30"}, availability.Available)
		assert.False(t, availability.Assumed)
	})

	t.Run("UnknownPayloadFallsBackToFullSetAssumed", func(t *testing.T) {
		f := newUsecaseFixture()
		f.slots.response = &core_dto.SlotResponse{Kind: core_dto.SlotResponseUnknown}

		availability, err := f.usecase.ResolveSlots(context.Background(), "doc-1", "2026-09-01")

		assert.NoError(t, err)
		assert.Equal(t, constvars.TimeSlots, availability.Available)
		assert.True(t, availability.Assumed)
	})

	t.Run("FetchFailureFallsBackToFullSetAssumed", func(t *testing.T) {
		f := newUsecaseFixture()
		f.slots.err = errors.New("connection refused")

		availability, err := f.usecase.ResolveSlots(context.Background(), "doc-1", "2026-09-01")

		assert.NoError(t, err)
		assert.Equal(t, constvars.TimeSlots, availability.Available)
		assert.True(t, availability.Assumed)
	})
}

func TestListDoctors(t *testing.T) {
	t.Run("ScopedResultPreferred", func(t *testing.T) {
		f := newUsecaseFixture()
		f.doctors.scoped = []core_dto.Doctor{{ID: "doc-1"}}

		doctors, err := f.usecase.ListDoctors(context.Background(), "hosp-1")

		assert.NoError(t, err)
		assert.Len(t, doctors, 1)
	})

	t.Run("EmptyScopedResultFallsBackToFilteredFullList", func(t *testing.T) {
		f := newUsecaseFixture()
		f.doctors.all = []core_dto.Doctor{
			{ID: "doc-1", Hospital: core_dto.HospitalRef{ID: "hosp-1"}},
			{ID: "doc-2", Hospital: core_dto.HospitalRef{ID: "hosp-2"}},
		}

		doctors, err := f.usecase.ListDoctors(context.Background(), "hosp-1")

		assert.NoError(t, err)
		assert.Len(t, doctors, 1)
		assert.Equal(t, "doc-1", doctors[0].ID)
	})

	t.Run("ScopedErrorFallsBackToFullList", func(t *testing.T) {
		f := newUsecaseFixture()
		f.doctors.scopedErr = errors.New("boom")
		f.doctors.all = []core_dto.Doctor{
			{ID: "doc-3", Hospital: core_dto.HospitalRef{ID: "hosp-1"}},
		}

		doctors, err := f.usecase.ListDoctors(context.Background(), "hosp-1")

		assert.NoError(t, err)
		assert.Len(t, doctors, 1)
	})
}

func TestSearchPatients(t *testing.T) {
	t.Run("BlankQuerySkipsRequest", func(t *testing.T) {
		f := newUsecaseFixture()

		patients, err := f.usecase.SearchPatients(context.Background(), "   ")

		assert.NoError(t, err)
		assert.Empty(t, patients)
		assert.Zero(t, f.patients.calls)
	})

	t.Run("FetchFailureReadsAsNoMatches", func(t *testing.T) {
		f := newUsecaseFixture()
		f.patients.err = errors.New("timeout")

		patients, err := f.usecase.SearchPatients(context.Background(), "jane")

		assert.NoError(t, err)
		assert.Empty(t, patients)
	})
}

func TestSubmitBooking(t *testing.T) {
	t.Run("SuccessFlagWins", func(t *testing.T) {
		f := newUsecaseFixture()
		f.appointments.outcome = &core_dto.BookingOutcome{
			StatusCode:     constvars.StatusOK,
			HasBody:        true,
			HasSuccessFlag: true,
			SuccessFlag:    true,
		}

		result, err := f.usecase.SubmitBooking(context.Background(), validBookingRequest(), constvars.AppointmentStatusPending)

		assert.NoError(t, err)
		assert.Equal(t, constvars.AppointmentStatusPending, result.Status)
		assert.Equal(t, constvars.BookingCreatedSuccess, result.Message)
	})

	t.Run("CreatedIDCountsAsSuccessEvenOnFailingStatus", func(t *testing.T) {
		f := newUsecaseFixture()
		f.appointments.outcome = &core_dto.BookingOutcome{
			StatusCode:    constvars.StatusBadRequest,
			HasBody:       true,
			AppointmentID: "appt-9",
		}

		result, err := f.usecase.SubmitBooking(context.Background(), validBookingRequest(), constvars.AppointmentStatusConfirmed)

		assert.NoError(t, err)
		assert.Equal(t, "appt-9", result.AppointmentID)
	})

	t.Run("BareCreatedStatusCountsAsSuccess", func(t *testing.T) {
		f := newUsecaseFixture()
		f.appointments.outcome = &core_dto.BookingOutcome{StatusCode: constvars.StatusCreated}

		result, err := f.usecase.SubmitBooking(context.Background(), validBookingRequest(), constvars.AppointmentStatusPending)

		assert.NoError(t, err)
		assert.NotNil(t, result)
	})

	t.Run("EmptyObjectWithOKStatusIsInvalidResponse", func(t *testing.T) {
		f := newUsecaseFixture()
		f.appointments.outcome = &core_dto.BookingOutcome{
			StatusCode: constvars.StatusOK,
			HasBody:    true,
		}

		_, err := f.usecase.SubmitBooking(context.Background(), validBookingRequest(), constvars.AppointmentStatusPending)

		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.ErrClientInvalidBookingResponse, customErr.ClientMessage)
	})

	t.Run("RejectionMirrorsUpstreamStatusAndMessage", func(t *testing.T) {
		f := newUsecaseFixture()
		f.appointments.outcome = &core_dto.BookingOutcome{
			StatusCode: constvars.StatusInternalServerError,
			HasBody:    true,
			Message:    "database unavailable",
		}

		_, err := f.usecase.SubmitBooking(context.Background(), validBookingRequest(), constvars.AppointmentStatusPending)

		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusInternalServerError, customErr.StatusCode)
		assert.Equal(t, "database unavailable", customErr.ClientMessage)
	})

	t.Run("PatientActivatedChangesMessage", func(t *testing.T) {
		f := newUsecaseFixture()
		f.appointments.outcome = &core_dto.BookingOutcome{
			StatusCode:       constvars.StatusCreated,
			HasBody:          true,
			AppointmentID:    "appt-1",
			PatientActivated: true,
		}

		result, err := f.usecase.SubmitBooking(context.Background(), validBookingRequest(), constvars.AppointmentStatusPending)

		assert.NoError(t, err)
		assert.True(t, result.PatientActivated)
		assert.Equal(t, constvars.BookingCreatedPatientActivated, result.Message)
	})

	t.Run("SlotConflictRejectedBeforeSubmission", func(t *testing.T) {
		f := newUsecaseFixture()
		f.slots.response = &core_dto.SlotResponse{
			Kind:  core_dto.SlotResponseBooked,
			Slots: []string{"09:30"},
		}

		_, err := f.usecase.SubmitBooking(context.Background(), validBookingRequest(), constvars.AppointmentStatusPending)

		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)
		assert.Nil(t, f.appointments.received)
	})

	t.Run("AssumedAvailabilityDoesNotBlockSubmission", func(t *testing.T) {
		f := newUsecaseFixture()
		f.slots.err = errors.New("upstream down")
		f.appointments.outcome = &core_dto.BookingOutcome{StatusCode: constvars.StatusCreated}

		_, err := f.usecase.SubmitBooking(context.Background(), validBookingRequest(), constvars.AppointmentStatusPending)

		assert.NoError(t, err)
		assert.NotNil(t, f.appointments.received)
	})

	t.Run("MissingFieldsRejectedWithoutRequest", func(t *testing.T) {
		f := newUsecaseFixture()
		request := validBookingRequest()
		request.Time = ""
		request.PatientName = ""

		_, err := f.usecase.SubmitBooking(context.Background(), request, constvars.AppointmentStatusPending)

		assert.Error(t, err)
		assert.Nil(t, f.appointments.received)
	})

	t.Run("PayloadCarriesTokenizedAllergiesAndMergedHistory", func(t *testing.T) {
		f := newUsecaseFixture()
		f.appointments.outcome = &core_dto.BookingOutcome{StatusCode: constvars.StatusCreated}
		request := validBookingRequest()
		request.Allergies = "penicillin, dust ,, latex"
		request.StoredMedicalHistory = "Condition: Asthma"
		request.NewMedicalHistory = "Complains of chest pain"

		_, err := f.usecase.SubmitBooking(context.Background(), request, constvars.AppointmentStatusPending)

		assert.NoError(t, err)
		assert.Equal(t, []string{"penicillin", "dust", "latex"}, f.appointments.received.Patient.Allergies)
		assert.Equal(t, "Condition: Asthma\n\nComplains of chest pain", f.appointments.received.Patient.MedicalHistory)
	})

	t.Run("EmptyHospitalResolvedBeforeSubmission", func(t *testing.T) {
		f := newUsecaseFixture()
		f.appointments.outcome = &core_dto.BookingOutcome{StatusCode: constvars.StatusCreated}
		request := validBookingRequest()
		request.HospitalID = ""

		_, err := f.usecase.SubmitBooking(context.Background(), request, constvars.AppointmentStatusPending)

		assert.NoError(t, err)
		assert.Equal(t, "hosp-1", f.appointments.received.HospitalID)
	})
}
