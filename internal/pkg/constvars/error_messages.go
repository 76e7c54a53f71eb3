package constvars

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"

	ErrClientCannotReachBookingServer = "unable to reach the booking server, please check your connection"
	ErrClientBookingFailed            = "failed to book the appointment, please try again"
	ErrClientInvalidBookingResponse   = "invalid response format from the booking server"
	ErrClientMissingBookingFields     = "please complete all required booking fields"
	ErrClientInvalidTimeSlot          = "the selected time slot is not available"
)

// Error messages for developers
const (
	ErrDevInvalidInput          = "invalid input"
	ErrDevCannotParseJSON       = "cannot parse JSON"
	ErrDevCannotMarshalJSON     = "cannot marshal JSON"
	ErrDevCreateHTTPRequest     = "failed to create HTTP request"
	ErrDevSendHTTPRequest       = "failed to send HTTP request"
	ErrDevValidationFailed      = "validation failed"
	ErrDevInvalidRequestPayload = "invalid request payload"
	ErrDevMissingRequiredFields = "missing required fields"

	// Upstream hospital core API messages
	ErrDevUpstreamGetResource    = "failed to get %s from hospital core API"
	ErrDevUpstreamCreateResource = "failed to create %s on hospital core API"
	ErrDevUpstreamDecodeResponse = "failed to decode %s response from hospital core API"

	// Authentication messages
	ErrDevAuthSigningMethod  = "unexpected signing method"
	ErrDevAuthTokenInvalid   = "invalid token"
	ErrDevAuthTokenMissing   = "token missing"
	ErrDevAuthInvalidSession = "invalid session"
	ErrDevAuthGenerateToken  = "failed to generate token"

	// Database messages
	ErrDevDBFailedToInsertDocument = "failed to insert document into database"
	ErrDevDBFailedToFindDocument   = "failed when do find document on database"

	// Redis messages
	ErrDevRedisSet    = "failed to store value into redis"
	ErrDevRedisGet    = "failed to get value from redis"
	ErrDevRedisDelete = "failed to delete value from redis"

	// Messaging
	ErrDevPublishBookingEvent = "failed to publish booking event"

	// Booking workflow messages
	ErrDevBookingPreconditions    = "booking preconditions not met"
	ErrDevBookingInFlight         = "a booking submission is already in flight"
	ErrDevBookingInvalidResponse  = "booking response carries no recognizable success indicator"
	ErrDevBookingSlotNotAvailable = "selected time is not in the resolved available set"

	// Server messages
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevMissingRequestID       = "request ID not found in context"
	ErrDevMissingSessionData     = "session data not found in context"
)
