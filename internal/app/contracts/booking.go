package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/core_dto"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

type BookingUsecase interface {
	ResolveHospital(ctx context.Context, hospitalID string) (*core_dto.Hospital, error)
	ListDoctors(ctx context.Context, hospitalID string) ([]core_dto.Doctor, error)
	ResolveSlots(ctx context.Context, doctorID, date string) (*responses.SlotAvailability, error)
	SearchPatients(ctx context.Context, query string) ([]core_dto.Patient, error)
	SelectPatient(patient *core_dto.Patient) *responses.SelectedPatient
	SubmitBooking(ctx context.Context, request *requests.CreateBookingRequest, defaultStatus string) (*responses.BookingResult, error)
}

type BookingAuditRepository interface {
	RecordAttempt(ctx context.Context, attempt *models.BookingAttempt) error
}

type BookingEventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, result *responses.BookingResult, request *requests.CreateBookingRequest) error
}
