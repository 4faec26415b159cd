package provider

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tnqbao/gau-stream-overlay/config"
	"github.com/tnqbao/gau-stream-overlay/entity"
	"github.com/tnqbao/gau-stream-overlay/provider/dto"
	"github.com/tnqbao/gau-stream-overlay/schema"
)

// ErrOverlayNotFound is returned for 404 responses: a missing record and a
// malformed identifier are indistinguishable to the client.
var ErrOverlayNotFound = errors.New("overlay not found")

type OverlayServiceProvider struct {
	OverlayServiceURL string `json:"overlay_service_url"`

	client *http.Client
}

func NewOverlayServiceProvider(config *config.EnvConfig) *OverlayServiceProvider {
	url := config.ExternalService.OverlayServiceURL
	if url == "" {
		panic("Overlay service URL is not configured")
	}

	return &OverlayServiceProvider{
		OverlayServiceURL: url,
		client:            &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *OverlayServiceProvider) ListOverlays() ([]entity.Overlay, error) {
	url := fmt.Sprintf("%s/api/overlays/", p.OverlayServiceURL)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeServiceError(resp)
	}

	var overlays []entity.Overlay
	if err := json.NewDecoder(resp.Body).Decode(&overlays); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return overlays, nil
}

func (p *OverlayServiceProvider) GetOverlay(id string) (*entity.Overlay, error) {
	url := fmt.Sprintf("%s/api/overlays/%s", p.OverlayServiceURL, id)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeServiceError(resp)
	}

	var overlay entity.Overlay
	if err := json.NewDecoder(resp.Body).Decode(&overlay); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &overlay, nil
}

func (p *OverlayServiceProvider) CreateOverlay(draft *schema.Draft) (*entity.Overlay, error) {
	url := fmt.Sprintf("%s/api/overlays/", p.OverlayServiceURL)

	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeServiceError(resp)
	}

	var overlay entity.Overlay
	if err := json.NewDecoder(resp.Body).Decode(&overlay); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &overlay, nil
}

func (p *OverlayServiceProvider) UpdateOverlay(id string, patch *schema.Draft) (*entity.Overlay, error) {
	url := fmt.Sprintf("%s/api/overlays/%s", p.OverlayServiceURL, id)

	body, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeServiceError(resp)
	}

	var overlay entity.Overlay
	if err := json.NewDecoder(resp.Body).Decode(&overlay); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &overlay, nil
}

// DeleteOverlay returns the confirmed id of the removed record.
func (p *OverlayServiceProvider) DeleteOverlay(id string) (string, error) {
	url := fmt.Sprintf("%s/api/overlays/%s", p.OverlayServiceURL, id)

	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeServiceError(resp)
	}

	var confirmation dto.DeleteOverlayResponse
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return confirmation.ID, nil
}

// decodeServiceError maps 400 back to the shared ValidationError so the
// editor can surface the same field messages the server produced, and 404 to
// ErrOverlayNotFound.
func decodeServiceError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return ErrOverlayNotFound
	}

	if resp.StatusCode == http.StatusBadRequest {
		var errResp dto.ErrorResponse
		if err := json.Unmarshal(raw, &errResp); err == nil && len(errResp.Violations) > 0 {
			validationErr := &schema.ValidationError{}
			for _, v := range errResp.Violations {
				validationErr.Violations = append(validationErr.Violations, schema.Violation{
					Field:   v.Field,
					Message: v.Message,
				})
			}
			return validationErr
		}
	}

	return fmt.Errorf("overlay service returned %d: %s", resp.StatusCode, string(raw))
}
