package booking

import (
	"context"
	"errors"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/core_dto"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeUsecase is a scriptable stand-in driven by per-method function fields;
// unset fields fall back to benign defaults.
type fakeUsecase struct {
	mu sync.Mutex

	resolveHospitalFn func(ctx context.Context, hospitalID string) (*core_dto.Hospital, error)
	listDoctorsFn     func(ctx context.Context, hospitalID string) ([]core_dto.Doctor, error)
	resolveSlotsFn    func(ctx context.Context, doctorID, date string) (*responses.SlotAvailability, error)
	searchPatientsFn  func(ctx context.Context, query string) ([]core_dto.Patient, error)
	submitBookingFn   func(ctx context.Context, request *requests.CreateBookingRequest, defaultStatus string) (*responses.BookingResult, error)

	searchQueries []string
}

func (f *fakeUsecase) ResolveHospital(ctx context.Context, hospitalID string) (*core_dto.Hospital, error) {
	if f.resolveHospitalFn != nil {
		return f.resolveHospitalFn(ctx, hospitalID)
	}
	return &core_dto.Hospital{ID: "hosp-1"}, nil
}

func (f *fakeUsecase) ListDoctors(ctx context.Context, hospitalID string) ([]core_dto.Doctor, error) {
	if f.listDoctorsFn != nil {
		return f.listDoctorsFn(ctx, hospitalID)
	}
	return []core_dto.Doctor{{ID: "doc-1"}}, nil
}

func (f *fakeUsecase) ResolveSlots(ctx context.Context, doctorID, date string) (*responses.SlotAvailability, error) {
	if f.resolveSlotsFn != nil {
		return f.resolveSlotsFn(ctx, doctorID, date)
	}
	return &responses.SlotAvailability{DoctorID: doctorID, Date: date, Available: AllSlots()}, nil
}

func (f *fakeUsecase) SearchPatients(ctx context.Context, query string) ([]core_dto.Patient, error) {
	f.mu.Lock()
	f.searchQueries = append(f.searchQueries, query)
	f.mu.Unlock()
	if f.searchPatientsFn != nil {
		return f.searchPatientsFn(ctx, query)
	}
	return []core_dto.Patient{{ID: "pat-" + query}}, nil
}

func (f *fakeUsecase) SelectPatient(patient *core_dto.Patient) *responses.SelectedPatient {
	entries, stored := NormalizeMedicalHistory(patient.MedicalHistory)
	return &responses.SelectedPatient{
		PatientID:     patient.ID,
		Name:          patient.Name,
		History:       entries,
		StoredHistory: stored,
	}
}

func (f *fakeUsecase) SubmitBooking(ctx context.Context, request *requests.CreateBookingRequest, defaultStatus string) (*responses.BookingResult, error) {
	if f.submitBookingFn != nil {
		return f.submitBookingFn(ctx, request, defaultStatus)
	}
	return &responses.BookingResult{AppointmentID: "appt-1", Status: defaultStatus}, nil
}

func (f *fakeUsecase) recordedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	queries := make([]string, len(f.searchQueries))
	copy(queries, f.searchQueries)
	return queries
}

func newTestSession(usecase *fakeUsecase, hooks Hooks) *Session {
	return NewSession(usecase, SessionOptions{
		DefaultStatus:  constvars.AppointmentStatusPending,
		HospitalID:     "hosp-1",
		Hooks:          hooks,
		SearchDebounce: 20 * time.Millisecond,
		ResyncDelay:    30 * time.Millisecond,
	}, zap.NewNop())
}

func fillSubmittableForm(s *Session) {
	s.SetDoctor(context.Background(), "doc-1")
	s.SetDate(context.Background(), "2026-09-01")
	_ = s.SelectTime("09:00")
	s.SetNewPatient("Jane Roe", "", "", "", "", "", "")
}

func TestSessionSearchDebounce(t *testing.T) {
	t.Run("RapidTypingIssuesOneRequestWithLastValue", func(t *testing.T) {
		usecase := &fakeUsecase{}
		s := newTestSession(usecase, Hooks{})

		s.SetSearchQuery(context.Background(), "j")
		s.SetSearchQuery(context.Background(), "ja")
		s.SetSearchQuery(context.Background(), "jane")

		time.Sleep(60 * time.Millisecond)

		assert.Equal(t, []string{"jane"}, usecase.recordedQueries())
		results := s.SearchResults()
		assert.Len(t, results, 1)
		assert.Equal(t, "pat-jane", results[0].ID)
	})

	t.Run("BlankQueryResetsImmediatelyWithoutRequest", func(t *testing.T) {
		usecase := &fakeUsecase{}
		s := newTestSession(usecase, Hooks{})

		s.SetSearchQuery(context.Background(), "jane")
		time.Sleep(60 * time.Millisecond)
		assert.NotEmpty(t, s.SearchResults())

		s.SetSearchQuery(context.Background(), "")
		assert.Empty(t, s.SearchResults())

		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, []string{"jane"}, usecase.recordedQueries())
	})

	t.Run("FetchFailureShowsEmptyResults", func(t *testing.T) {
		usecase := &fakeUsecase{
			searchPatientsFn: func(ctx context.Context, query string) ([]core_dto.Patient, error) {
				return nil, errors.New("timeout")
			},
		}
		s := newTestSession(usecase, Hooks{})

		s.SetSearchQuery(context.Background(), "jane")
		time.Sleep(60 * time.Millisecond)

		assert.Empty(t, s.SearchResults())
	})

	t.Run("StaleResultForSupersededQueryDiscarded", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan string, 2)
		usecase := &fakeUsecase{}
		usecase.searchPatientsFn = func(ctx context.Context, query string) ([]core_dto.Patient, error) {
			started <- query
			if query == "slow" {
				<-release
			}
			return []core_dto.Patient{{ID: "pat-" + query}}, nil
		}
		s := newTestSession(usecase, Hooks{})

		s.SetSearchQuery(context.Background(), "slow")
		<-started

		s.SetSearchQuery(context.Background(), "fast")
		<-started
		time.Sleep(20 * time.Millisecond)

		close(release)
		time.Sleep(20 * time.Millisecond)

		results := s.SearchResults()
		assert.Len(t, results, 1)
		assert.Equal(t, "pat-fast", results[0].ID)
	})
}

func TestSessionSlotResolution(t *testing.T) {
	t.Run("LateResultForSupersededDoctorDiscarded", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		usecase := &fakeUsecase{}
		usecase.resolveSlotsFn = func(ctx context.Context, doctorID, date string) (*responses.SlotAvailability, error) {
			if doctorID == "doc-slow" {
				close(started)
				<-release
				return &responses.SlotAvailability{Available: []string{"09:00"}}, nil
			}
			return &responses.SlotAvailability{Available: []string{"14:00"}}, nil
		}
		s := newTestSession(usecase, Hooks{})

		done := make(chan struct{})
		go func() {
			s.SetDoctor(context.Background(), "doc-slow")
			close(done)
		}()
		<-started

		s.SetDoctor(context.Background(), "doc-fast")

		close(release)
		<-done

		slots, _ := s.AvailableSlots()
		assert.Equal(t, []string{"14:00"}, slots)
	})

	t.Run("SelectedTimeClearedWhenNoLongerAvailable", func(t *testing.T) {
		available := []string{"09:00", "09:30"}
		usecase := &fakeUsecase{}
		usecase.resolveSlotsFn = func(ctx context.Context, doctorID, date string) (*responses.SlotAvailability, error) {
			return &responses.SlotAvailability{Available: available}, nil
		}
		s := newTestSession(usecase, Hooks{})

		s.SetDoctor(context.Background(), "doc-1")
		assert.NoError(t, s.SelectTime("09:00"))

		available = []string{"14:00"}
		s.SetDate(context.Background(), "2026-09-02")

		assert.Empty(t, s.SelectedTime())
	})

	t.Run("SelectedTimeKeptWhenStillAvailable", func(t *testing.T) {
		usecase := &fakeUsecase{}
		s := newTestSession(usecase, Hooks{})

		s.SetDoctor(context.Background(), "doc-1")
		assert.NoError(t, s.SelectTime("09:00"))
		s.SetDate(context.Background(), "2026-09-02")

		assert.Equal(t, "09:00", s.SelectedTime())
	})

	t.Run("SelectingUnavailableTimeRejected", func(t *testing.T) {
		usecase := &fakeUsecase{}
		usecase.resolveSlotsFn = func(ctx context.Context, doctorID, date string) (*responses.SlotAvailability, error) {
			return &responses.SlotAvailability{Available: []string{"09:00"}}, nil
		}
		s := newTestSession(usecase, Hooks{})
		s.SetDoctor(context.Background(), "doc-1")

		assert.Error(t, s.SelectTime("14:00"))
	})
}

func TestSessionSubmit(t *testing.T) {
	t.Run("SingleSubmissionInFlight", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		usecase := &fakeUsecase{}
		usecase.submitBookingFn = func(ctx context.Context, request *requests.CreateBookingRequest, defaultStatus string) (*responses.BookingResult, error) {
			close(started)
			<-release
			return &responses.BookingResult{AppointmentID: "appt-1"}, nil
		}
		s := newTestSession(usecase, Hooks{})
		fillSubmittableForm(s)

		firstDone := make(chan error, 1)
		go func() {
			_, err := s.Submit(context.Background())
			firstDone <- err
		}()
		<-started

		_, err := s.Submit(context.Background())
		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)

		close(release)
		assert.NoError(t, <-firstDone)
	})

	t.Run("SuccessFiresOnSuccessThenOnCloseAndResetsForm", func(t *testing.T) {
		var order []string
		usecase := &fakeUsecase{}
		s := newTestSession(usecase, Hooks{
			OnSuccess: func() { order = append(order, "success") },
			OnClose:   func() { order = append(order, "close") },
		})
		fillSubmittableForm(s)

		result, err := s.Submit(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, "appt-1", result.AppointmentID)
		assert.Equal(t, []string{"success", "close"}, order)
		assert.False(t, s.CanSubmit())
		assert.Empty(t, s.SelectedTime())
	})

	t.Run("UnmetPreconditionsRejectedWithoutSubmission", func(t *testing.T) {
		submitted := false
		usecase := &fakeUsecase{}
		usecase.submitBookingFn = func(ctx context.Context, request *requests.CreateBookingRequest, defaultStatus string) (*responses.BookingResult, error) {
			submitted = true
			return nil, nil
		}
		s := newTestSession(usecase, Hooks{})

		_, err := s.Submit(context.Background())

		assert.Error(t, err)
		assert.False(t, submitted)
	})

	t.Run("UpstreamServerErrorSchedulesDelayedResync", func(t *testing.T) {
		var mu sync.Mutex
		var order []string
		usecase := &fakeUsecase{}
		usecase.submitBookingFn = func(ctx context.Context, request *requests.CreateBookingRequest, defaultStatus string) (*responses.BookingResult, error) {
			return nil, exceptions.ErrBookingRejected(constvars.StatusInternalServerError, "")
		}
		s := newTestSession(usecase, Hooks{
			OnSuccess: func() {
				mu.Lock()
				order = append(order, "success")
				mu.Unlock()
			},
			OnClose: func() {
				mu.Lock()
				order = append(order, "close")
				mu.Unlock()
			},
		})
		fillSubmittableForm(s)

		_, err := s.Submit(context.Background())
		assert.Error(t, err)

		mu.Lock()
		assert.Empty(t, order)
		mu.Unlock()

		time.Sleep(60 * time.Millisecond)

		mu.Lock()
		assert.Equal(t, []string{"success"}, order)
		mu.Unlock()

		assert.True(t, s.CanSubmit())
	})

	t.Run("NonServerErrorDoesNotResync", func(t *testing.T) {
		var mu sync.Mutex
		fired := false
		usecase := &fakeUsecase{}
		usecase.submitBookingFn = func(ctx context.Context, request *requests.CreateBookingRequest, defaultStatus string) (*responses.BookingResult, error) {
			return nil, exceptions.ErrBookingRejected(constvars.StatusBadRequest, "bad payload")
		}
		s := newTestSession(usecase, Hooks{
			OnSuccess: func() {
				mu.Lock()
				fired = true
				mu.Unlock()
			},
		})
		fillSubmittableForm(s)

		_, err := s.Submit(context.Background())
		assert.Error(t, err)

		time.Sleep(60 * time.Millisecond)
		mu.Lock()
		assert.False(t, fired)
		mu.Unlock()
	})

	t.Run("DoctorSessionSubmitsConfirmedStatus", func(t *testing.T) {
		var gotStatus string
		usecase := &fakeUsecase{}
		usecase.submitBookingFn = func(ctx context.Context, request *requests.CreateBookingRequest, defaultStatus string) (*responses.BookingResult, error) {
			gotStatus = defaultStatus
			return &responses.BookingResult{AppointmentID: "appt-1", Status: defaultStatus}, nil
		}
		s := NewDoctorSession(usecase, "hosp-1", false, true, Hooks{}, zap.NewNop())
		fillSubmittableForm(s)

		_, err := s.Submit(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, constvars.AppointmentStatusConfirmed, gotStatus)
	})
}

func TestSessionSelectPatient(t *testing.T) {
	usecase := &fakeUsecase{}
	s := newTestSession(usecase, Hooks{})

	s.SetNewHistoryText("pending note")
	s.SetSearchQuery(context.Background(), "jane")
	time.Sleep(60 * time.Millisecond)
	assert.NotEmpty(t, s.SearchResults())

	selected := s.SelectPatient(&core_dto.Patient{
		ID:             "pat-1",
		Name:           "Jane Roe",
		MedicalHistory: []byte(`[{"condition":"Asthma","date":"2021-01-01"}]`),
	})

	assert.Equal(t, "pat-1", selected.PatientID)
	assert.Equal(t, "Condition: Asthma\nDate: 1/1/2021", selected.StoredHistory)
	assert.Empty(t, s.SearchResults())
}

func TestSessionDefaults(t *testing.T) {
	t.Run("FollowUpPreselectsType", func(t *testing.T) {
		usecase := &fakeUsecase{}
		s := NewDoctorSession(usecase, "hosp-1", false, true, Hooks{}, zap.NewNop())
		s.mu.Lock()
		assert.Equal(t, constvars.AppointmentTypeFollowUp, s.form.Type)
		s.mu.Unlock()
	})

	t.Run("StaffSessionResolvesHospitalOnStart", func(t *testing.T) {
		resolved := false
		usecase := &fakeUsecase{
			resolveHospitalFn: func(ctx context.Context, hospitalID string) (*core_dto.Hospital, error) {
				resolved = true
				assert.Empty(t, hospitalID)
				return &core_dto.Hospital{ID: "hosp-9"}, nil
			},
		}
		s := NewStaffSession(usecase, Hooks{}, zap.NewNop())
		s.Start(context.Background())

		assert.True(t, resolved)
		s.mu.Lock()
		assert.Equal(t, "hosp-9", s.form.HospitalID)
		s.mu.Unlock()
	})
}
