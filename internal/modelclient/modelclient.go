// Package modelclient talks to the external model scoring API. The API
// provides the two metric families the service cannot compute locally:
// language-model perplexity and the model-estimated quality markers.
package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/originlytics/originlytics/internal/errors"
	"github.com/originlytics/originlytics/internal/resilience"
)

// ServiceName is the identifier used for degradation tracking and retry
// policy lookup.
const ServiceName = "model-api"

// Estimates are the model-estimated quality markers, each on a 0-100
// scale where higher reads more AI-like.
type Estimates struct {
	VocabularyNaturalness float64 `json:"vocabularyNaturalness"`
	SentenceFlow          float64 `json:"sentenceFlow"`
	Originality           float64 `json:"originality"`
}

type perplexityResponse struct {
	Perplexity float64 `json:"perplexity"`
}

type scoreRequest struct {
	Text string `json:"text"`
}

// Client calls the model scoring API with pooled connections, circuit
// breaking, and retries.
type Client struct {
	baseURL string
	apiKey  string
	pool    *resilience.ConnectionPool
}

// NewClient creates a model API client. An empty baseURL yields an
// unconfigured client; callers must check IsConfigured before use.
func NewClient(baseURL, apiKey string) *Client {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 3,
	})

	pool := resilience.NewConnectionPool(10, 20, 30*time.Second, cb)

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		pool:    pool,
	}
}

// IsConfigured reports whether a model API endpoint is set. Without one
// the analyzer runs on local metrics only.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// Perplexity scores the text's predictability under the upstream language
// model. Returns a 0-100 score where higher means more predictable.
func (c *Client) Perplexity(ctx context.Context, text string) (float64, error) {
	var out perplexityResponse
	if err := c.post(ctx, "/v1/perplexity", text, &out); err != nil {
		return 0, err
	}

	if out.Perplexity < 0 || out.Perplexity > 100 {
		return 0, errors.NewExternalAPIError(ServiceName,
			fmt.Errorf("perplexity score %.2f out of range", out.Perplexity))
	}

	return out.Perplexity, nil
}

// Estimate fetches the model-estimated quality markers for the text.
func (c *Client) Estimate(ctx context.Context, text string) (Estimates, error) {
	var out Estimates
	if err := c.post(ctx, "/v1/estimate", text, &out); err != nil {
		return Estimates{}, err
	}
	return out, nil
}

// HealthCheck probes the model API. Used by the degradation manager.
func (c *Client) HealthCheck(ctx context.Context) error {
	headers := c.headers()

	resp, err := c.pool.DoRequest(ctx, http.MethodGet, c.baseURL+"/health", headers, nil)
	if err != nil {
		return errors.NewExternalAPIError(ServiceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewExternalAPIError(ServiceName,
			fmt.Errorf("health check returned status %d", resp.StatusCode))
	}
	return nil
}

// post sends a scoring request and decodes the response, retrying
// transient failures.
func (c *Client) post(ctx context.Context, path, text string, out interface{}) error {
	if !c.IsConfigured() {
		return errors.NewConfigurationError("model API endpoint not configured", nil)
	}

	payload, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return errors.NewInternalError("failed to encode model API request", err)
	}

	url := c.baseURL + path
	headers := c.headers()

	return resilience.RetryWithPolicy(ctx, resilience.StandardRetryPolicy, func() error {
		resp, err := c.pool.DoRequest(ctx, http.MethodPost, url, headers, bytes.NewReader(payload))
		if err != nil {
			return errors.NewExternalAPIError(ServiceName, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				// Client errors are not retryable.
				return errors.NewValidationError(fmt.Sprintf("model API rejected request: status %d", resp.StatusCode))
			}
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return errors.NewExternalAPIError(ServiceName,
				fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.NewExternalAPIError(ServiceName,
				fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	})
}

func (c *Client) headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "OriginLytics/1.0",
	}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}
	return headers
}

// GetPoolStats returns connection pool statistics
func (c *Client) GetPoolStats() map[string]interface{} {
	return c.pool.GetStats()
}

// Close closes the underlying connection pool
func (c *Client) Close() error {
	return c.pool.Close()
}
