package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	appshipping "github.com/garmentcrm/backend/internal/application/shipping"
	"github.com/garmentcrm/backend/internal/infrastructure/config"
)

// EasyPostClient buys shipping labels through the EasyPost API. The
// shipment and rate references on a package are EasyPost object IDs
// produced during rate quoting.
type EasyPostClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewEasyPostClient creates a new EasyPost client
func NewEasyPostClient(cfg config.CarrierConfig, logger *zap.Logger) *EasyPostClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &EasyPostClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type buyRequest struct {
	Rate buyRate `json:"rate"`
}

type buyRate struct {
	ID string `json:"id"`
}

type buyResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	TrackingCode string `json:"tracking_code"`
	PostageLabel struct {
		LabelURL string `json:"label_url"`
	} `json:"postage_label"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// BuyLabel purchases the label for a quoted shipment at the given rate
func (c *EasyPostClient) BuyLabel(ctx context.Context, shipmentRef, rateRef string) (*appshipping.LabelData, error) {
	if shipmentRef == "" || rateRef == "" {
		return nil, fmt.Errorf("shipment and rate references are required")
	}

	body, err := json.Marshal(buyRequest{Rate: buyRate{ID: rateRef}})
	if err != nil {
		return nil, fmt.Errorf("encoding buy request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/shipments/%s/buy", c.baseURL, shipmentRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building buy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling carrier: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading carrier response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("carrier rejected label purchase: %s (%s)",
				apiErr.Error.Message, apiErr.Error.Code)
		}
		return nil, fmt.Errorf("carrier returned status %d", resp.StatusCode)
	}

	var bought buyResponse
	if err := json.Unmarshal(payload, &bought); err != nil {
		return nil, fmt.Errorf("decoding carrier response: %w", err)
	}
	if bought.TrackingCode == "" {
		return nil, fmt.Errorf("carrier response missing tracking code for shipment %s", shipmentRef)
	}

	c.logger.Info("label purchased",
		zap.String("shipment", shipmentRef),
		zap.String("tracking_code", bought.TrackingCode))

	return &appshipping.LabelData{
		TrackingCode:   bought.TrackingCode,
		LabelURL:       bought.PostageLabel.LabelURL,
		ShipmentStatus: bought.Status,
	}, nil
}
