package controllers

import (
	"context"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type BookingController struct {
	Log            *zap.Logger
	BookingUsecase contracts.BookingUsecase
}

var (
	bookingControllerInstance *BookingController
	onceBookingController     sync.Once
)

func NewBookingController(logger *zap.Logger, bookingUsecase contracts.BookingUsecase) *BookingController {
	onceBookingController.Do(func() {
		instance := &BookingController{
			Log:            logger,
			BookingUsecase: bookingUsecase,
		}
		bookingControllerInstance = instance
	})
	return bookingControllerInstance
}

func (ctrl *BookingController) FindMyHospital(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BookingController.FindMyHospital requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	hospital, err := ctrl.BookingUsecase.ResolveHospital(ctx, "")
	if err != nil {
		ctrl.Log.Error("BookingController.FindMyHospital error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetHospitalSuccess, hospital)
}

func (ctrl *BookingController) FindHospitalByID(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BookingController.FindHospitalByID requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	hospitalID := chi.URLParam(r, "hospitalID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	hospital, err := ctrl.BookingUsecase.ResolveHospital(ctx, hospitalID)
	if err != nil {
		ctrl.Log.Error("BookingController.FindHospitalByID error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingHospitalIDKey, hospitalID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetHospitalSuccess, hospital)
}

func (ctrl *BookingController) FindDoctors(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BookingController.FindDoctors requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	hospitalID := r.URL.Query().Get("hospital_id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	doctors, err := ctrl.BookingUsecase.ListDoctors(ctx, hospitalID)
	if err != nil {
		ctrl.Log.Error("BookingController.FindDoctors error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingHospitalIDKey, hospitalID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDoctorsSuccess, doctors)
}

// FindAvailability never fails on upstream trouble; the usecase degrades to
// the assumed full set instead, and the Assumed field tells the caller so.
func (ctrl *BookingController) FindAvailability(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BookingController.FindAvailability requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	doctorID := r.URL.Query().Get("doctor_id")
	date := r.URL.Query().Get("date")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	availability, err := ctrl.BookingUsecase.ResolveSlots(ctx, doctorID, date)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAvailabilitySuccess, availability)
}

func (ctrl *BookingController) SearchPatients(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BookingController.SearchPatients requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	query := r.URL.Query().Get("q")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	patients, err := ctrl.BookingUsecase.SearchPatients(ctx, query)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	results := make([]interface{}, 0, len(patients))
	for i := range patients {
		results = append(results, ctrl.BookingUsecase.SelectPatient(&patients[i]))
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SearchPatientsSuccess, results)
}

// CreateBooking handles staff submissions; the appointment is created as
// pending and the hospital defaults to the staff member's own when the
// request leaves it empty.
func (ctrl *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctrl.createBooking(w, r, constvars.AppointmentStatusPending)
}

// CreateDoctorBooking handles doctor submissions, created directly as
// confirmed. The quick-book and follow-up variants pre-select the
// appointment type when the request leaves it empty.
func (ctrl *BookingController) CreateDoctorBooking(w http.ResponseWriter, r *http.Request) {
	ctrl.createBooking(w, r, constvars.AppointmentStatusConfirmed)
}

func (ctrl *BookingController) createBooking(w http.ResponseWriter, r *http.Request, defaultStatus string) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		ctrl.Log.Error("BookingController.createBooking requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	request := new(requests.CreateBookingRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if request.Type == "" {
		request.Type = constvars.AppointmentTypeConsultation
		if request.FollowUp {
			request.Type = constvars.AppointmentTypeFollowUp
		}
	}

	if request.HospitalID == "" {
		if session, ok := r.Context().Value(constvars.CONTEXT_SESSION_DATA_KEY).(*models.Session); ok {
			request.HospitalID = session.HospitalID
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := ctrl.BookingUsecase.SubmitBooking(ctx, request, defaultStatus)
	if err != nil {
		ctrl.Log.Error("BookingController.createBooking error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
			zap.Error(err),
		)
		if errors.Is(err, context.DeadlineExceeded) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("BookingController.createBooking succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, result.AppointmentID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, result.Message, result)
}
