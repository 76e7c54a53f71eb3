package doctors

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

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type doctorClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewDoctorClient(baseUrl string, logger *zap.Logger) contracts.DoctorClient {
	return &doctorClient{
		BaseUrl: baseUrl + "/" + constvars.ResourceDoctor,
		Log:     logger,
	}
}

func (c *doctorClient) FindDoctorsByHospitalID(ctx context.Context, hospitalID string) ([]core_dto.Doctor, error) {
	return c.fetchDoctors(ctx, fmt.Sprintf("%s?hospital=%s", c.BaseUrl, url.QueryEscape(hospitalID)))
}

func (c *doctorClient) FindAllDoctors(ctx context.Context) ([]core_dto.Doctor, error) {
	return c.fetchDoctors(ctx, c.BaseUrl)
}

func (c *doctorClient) fetchDoctors(ctx context.Context, requestURL string) ([]core_dto.Doctor, error) {
	requestID := utils.RequestIDFromContext(ctx)

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
		c.Log.Error("doctorClient.fetchDoctors error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrGetUpstreamResource(err, constvars.ResourceDoctor)
	}

	if resp.StatusCode != constvars.StatusOK {
		upstreamErr := fmt.Errorf("upstream responded %d: %s", resp.StatusCode, gjson.GetBytes(bodyBytes, "message").String())
		return nil, exceptions.ErrGetUpstreamResource(upstreamErr, constvars.ResourceDoctor)
	}

	// The doctor list arrives either bare or wrapped under "data" or
	// "doctors".
	payload := bodyBytes
	if data := gjson.GetBytes(bodyBytes, "data"); data.IsArray() {
		payload = []byte(data.Raw)
	} else if list := gjson.GetBytes(bodyBytes, "doctors"); list.IsArray() {
		payload = []byte(list.Raw)
	}

	var doctors []core_dto.Doctor
	if err := json.Unmarshal(payload, &doctors); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceDoctor)
	}

	c.Log.Info("doctorClient.fetchDoctors succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(doctors)),
	)
	return doctors, nil
}
