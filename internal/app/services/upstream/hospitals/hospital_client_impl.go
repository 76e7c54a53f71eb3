package hospitals

import (
	"fmt"
	"io"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/core_dto"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"

	"context"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type hospitalClient struct {
	BaseUrl string
	Log     *zap.Logger
}

func NewHospitalClient(baseUrl string, logger *zap.Logger) contracts.HospitalClient {
	return &hospitalClient{
		BaseUrl: baseUrl + "/" + constvars.ResourceHospital,
		Log:     logger,
	}
}

func (c *hospitalClient) FindHospitalByID(ctx context.Context, hospitalID string) (*core_dto.Hospital, error) {
	return c.fetchHospital(ctx, fmt.Sprintf("%s/%s", c.BaseUrl, hospitalID))
}

func (c *hospitalClient) FindMyHospital(ctx context.Context) (*core_dto.Hospital, error) {
	return c.fetchHospital(ctx, c.BaseUrl+"/mine")
}

func (c *hospitalClient) fetchHospital(ctx context.Context, url string) (*core_dto.Hospital, error) {
	requestID := utils.RequestIDFromContext(ctx)
	c.Log.Info("hospitalClient.fetchHospital called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
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
		c.Log.Error("hospitalClient.fetchHospital error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrGetUpstreamResource(err, constvars.ResourceHospital)
	}

	if resp.StatusCode != constvars.StatusOK {
		upstreamErr := fmt.Errorf("upstream responded %d: %s", resp.StatusCode, gjson.GetBytes(bodyBytes, "message").String())
		return nil, exceptions.ErrGetUpstreamResource(upstreamErr, constvars.ResourceHospital)
	}

	// Some deployments wrap the resource in a {success, data} envelope.
	payload := bodyBytes
	if data := gjson.GetBytes(bodyBytes, "data"); data.Exists() {
		payload = []byte(data.Raw)
	}

	hospital := new(core_dto.Hospital)
	if err := json.Unmarshal(payload, hospital); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceHospital)
	}

	c.Log.Info("hospitalClient.fetchHospital succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingHospitalIDKey, hospital.ID),
	)
	return hospital, nil
}
