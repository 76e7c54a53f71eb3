package constvars

// Validation messages, mapped by validator tag
var CustomValidationErrorMessages = map[string]string{
	"required":         "is required",
	"email":            "must be a valid email",
	"min":              "must be at least %s characters long",
	"max":              "maximum at %s characters long",
	"oneof":            "must be one of [%s]",
	"datetime":         "must be a valid date",
	"time_slot":        "must be one of the fixed clinic time slots",
	"appointment_type": "must be one of consultation, followup, checkup or emergency",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
}
