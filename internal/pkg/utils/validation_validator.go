package utils

import (
	"medibook-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("time_slot", validateTimeSlot)
	validate.RegisterValidation("appointment_type", validateAppointmentType)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateTimeSlot(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, slot := range constvars.TimeSlots {
		if value == slot {
			return true
		}
	}
	return false
}

func validateAppointmentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.AppointmentTypeConsultation,
		constvars.AppointmentTypeFollowUp,
		constvars.AppointmentTypeCheckup,
		constvars.AppointmentTypeEmergency:
		return true
	}
	return false
}
