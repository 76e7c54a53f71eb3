package patients

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

type patientClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewPatientClient(baseUrl string, logger *zap.Logger) contracts.PatientClient {
	return &patientClient{
		BaseUrl: baseUrl + "/" + constvars.ResourcePatient,
		Log:     logger,
	}
}

// SearchPatients matches the free-text query against name, email and phone.
func (c *patientClient) SearchPatients(ctx context.Context, query string) ([]core_dto.Patient, error) {
	requestID := utils.RequestIDFromContext(ctx)

	requestURL := fmt.Sprintf("%s/search?q=%s", c.BaseUrl, url.QueryEscape(query))
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
		c.Log.Error("patientClient.SearchPatients error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrGetUpstreamResource(err, constvars.ResourcePatient)
	}

	if resp.StatusCode != constvars.StatusOK {
		upstreamErr := fmt.Errorf("upstream responded %d: %s", resp.StatusCode, gjson.GetBytes(bodyBytes, "message").String())
		return nil, exceptions.ErrGetUpstreamResource(upstreamErr, constvars.ResourcePatient)
	}

	payload := bodyBytes
	if data := gjson.GetBytes(bodyBytes, "data"); data.IsArray() {
		payload = []byte(data.Raw)
	} else if list := gjson.GetBytes(bodyBytes, "patients"); list.IsArray() {
		payload = []byte(list.Raw)
	}

	var patients []core_dto.Patient
	if err := json.Unmarshal(payload, &patients); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	c.Log.Info("patientClient.SearchPatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingResponseLengthKey, len(patients)),
	)
	return patients, nil
}
