package slots

import (
	"context"
	"fmt"
	"io"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/core_dto"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type slotClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewSlotClient(baseUrl string, logger *zap.Logger) contracts.SlotClient {
	return &slotClient{
		BaseUrl: baseUrl + "/" + constvars.ResourceAppointment + "/" + constvars.ResourceSlot,
		Log:     logger,
	}
}

func (c *slotClient) FindSlots(ctx context.Context, doctorID, date string) (*core_dto.SlotResponse, error) {
	requestID := utils.RequestIDFromContext(ctx)

	requestURL := fmt.Sprintf("%s?doctorId=%s&date=%s", c.BaseUrl, url.QueryEscape(doctorID), url.QueryEscape(date))
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, requestURL, nil)
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
		c.Log.Error("slotClient.FindSlots error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		upstreamErr := fmt.Errorf("upstream responded %d", resp.StatusCode)
		return nil, exceptions.ErrGetUpstreamResource(upstreamErr, constvars.ResourceSlot)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrGetUpstreamResource(err, constvars.ResourceSlot)
	}

	response := DecodeSlotResponse(bodyBytes)
	if response.Kind == core_dto.SlotResponseUnknown {
		c.Log.Warn("slotClient.FindSlots unrecognized availability payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDoctorIDKey, doctorID),
			zap.String(constvars.LoggingDateKey, date),
		)
	}
	return response, nil
}

// DecodeSlotResponse sniffs the availability payload. The upstream answers in
// one of three shapes: an object with an explicit available list, a bare list
// of slot strings, or an object with a booked list. Anything else decodes as
// Unknown so the caller can apply its all-available fallback.
func DecodeSlotResponse(body []byte) *core_dto.SlotResponse {
	if !gjson.ValidBytes(body) {
		return &core_dto.SlotResponse{Kind: core_dto.SlotResponseUnknown}
	}

	parsed := gjson.ParseBytes(body)

	if parsed.IsArray() {
		return &core_dto.SlotResponse{
			Kind:  core_dto.SlotResponseAvailable,
			Slots: resultToStrings(parsed),
		}
	}

	for _, key := range []string{"availableSlots", "available"} {
		if list := parsed.Get(key); list.IsArray() {
			return &core_dto.SlotResponse{
				Kind:  core_dto.SlotResponseAvailable,
				Slots: resultToStrings(list),
			}
		}
	}

	for _, key := range []string{"bookedSlots", "booked"} {
		if list := parsed.Get(key); list.IsArray() {
			return &core_dto.SlotResponse{
				Kind:  core_dto.SlotResponseBooked,
				Slots: resultToStrings(list),
			}
		}
	}

	return &core_dto.SlotResponse{Kind: core_dto.SlotResponseUnknown}
}

func resultToStrings(result gjson.Result) []string {
	items := result.Array()
	slots := make([]string, 0, len(items))
	for _, item := range items {
		slots = append(slots, item.String())
	}
	return slots
}
