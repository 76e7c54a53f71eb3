package contracts

import (
	"context"
	"medibook-service/internal/pkg/core_dto"
)

type HospitalClient interface {
	FindHospitalByID(ctx context.Context, hospitalID string) (*core_dto.Hospital, error)
	FindMyHospital(ctx context.Context) (*core_dto.Hospital, error)
}

type DoctorClient interface {
	FindDoctorsByHospitalID(ctx context.Context, hospitalID string) ([]core_dto.Doctor, error)
	FindAllDoctors(ctx context.Context) ([]core_dto.Doctor, error)
}

type SlotClient interface {
	FindSlots(ctx context.Context, doctorID, date string) (*core_dto.SlotResponse, error)
}

type PatientClient interface {
	SearchPatients(ctx context.Context, query string) ([]core_dto.Patient, error)
}

type AppointmentClient interface {
	CreateAppointment(ctx context.Context, request *core_dto.Appointment) (*core_dto.BookingOutcome, error)
}
