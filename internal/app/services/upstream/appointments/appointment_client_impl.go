package appointments

import (
	"bytes"
	"context"
	"io"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/core_dto"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type appointmentClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewAppointmentClient(baseUrl string, logger *zap.Logger) contracts.AppointmentClient {
	return &appointmentClient{
		BaseUrl: baseUrl + "/" + constvars.ResourceAppointment,
		Log:     logger,
	}
}

// CreateAppointment submits the booking payload. A network-level failure is
// the only error; any HTTP response, whatever its status, is decoded into a
// BookingOutcome and interpretation is left to the booking usecase.
func (c *appointmentClient) CreateAppointment(ctx context.Context, request *core_dto.Appointment) (*core_dto.BookingOutcome, error) {
	requestID := utils.RequestIDFromContext(ctx)
	c.Log.Info("appointmentClient.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, request.DoctorID),
		zap.String(constvars.LoggingDateKey, request.Date),
	)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.BaseUrl, bytes.NewBuffer(requestJSON))
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	if token := utils.AuthTokenFromContext(ctx); token != "" {
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		c.Log.Error("appointmentClient.CreateAppointment error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrCreateUpstreamResource(err, constvars.ResourceAppointment)
	}

	outcome := DecodeBookingOutcome(resp.StatusCode, bodyBytes)

	c.Log.Info("appointmentClient.CreateAppointment upstream answered",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingStatusCodeKey, outcome.StatusCode),
		zap.String(constvars.LoggingAppointmentIDKey, outcome.AppointmentID),
	)
	return outcome, nil
}

// DecodeBookingOutcome extracts every recognizable signal from the upstream
// body without judging success or failure.
func DecodeBookingOutcome(statusCode int, body []byte) *core_dto.BookingOutcome {
	outcome := &core_dto.BookingOutcome{
		StatusCode: statusCode,
		HasBody:    len(body) > 0 && gjson.ValidBytes(body),
	}
	if !outcome.HasBody {
		return outcome
	}

	parsed := gjson.ParseBytes(body)

	if success := parsed.Get("success"); success.Exists() {
		outcome.HasSuccessFlag = true
		outcome.SuccessFlag = success.Bool()
	}

	for _, key := range []string{"_id", "appointment._id", "data._id", "appointmentId"} {
		if id := parsed.Get(key); id.Exists() && id.String() != "" {
			outcome.AppointmentID = id.String()
			break
		}
	}

	outcome.Message = parsed.Get("message").String()
	outcome.PatientActivated = parsed.Get("patientActivated").Bool()

	return outcome
}
