package modelclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsConfigured(t *testing.T) {
	assert.False(t, NewClient("", "").IsConfigured())
	assert.True(t, NewClient("http://localhost:9000", "").IsConfigured())
}

func TestPerplexity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/perplexity", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req scoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sample text", req.Text)

		json.NewEncoder(w).Encode(map[string]float64{"perplexity": 72.5})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	defer client.Close()

	score, err := client.Perplexity(context.Background(), "sample text")
	require.NoError(t, err)
	assert.Equal(t, 72.5, score)
}

func TestPerplexityRejectsOutOfRangeScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"perplexity": 140})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	defer client.Close()

	_, err := client.Perplexity(context.Background(), "sample text")
	assert.Error(t, err)
}

func TestEstimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/estimate", r.URL.Path)
		json.NewEncoder(w).Encode(Estimates{
			VocabularyNaturalness: 61,
			SentenceFlow:          55,
			Originality:           48,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	defer client.Close()

	est, err := client.Estimate(context.Background(), "sample text")
	require.NoError(t, err)
	assert.Equal(t, 61.0, est.VocabularyNaturalness)
	assert.Equal(t, 55.0, est.SentenceFlow)
	assert.Equal(t, 48.0, est.Originality)
}

func TestPostRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"perplexity": 33})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	defer client.Close()

	score, err := client.Perplexity(context.Background(), "sample text")
	require.NoError(t, err)
	assert.Equal(t, 33.0, score)
	assert.Equal(t, 3, attempts)
}

func TestPostDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	defer client.Close()

	_, err := client.Perplexity(context.Background(), "sample text")
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestUnconfiguredClientFailsFast(t *testing.T) {
	client := NewClient("", "")
	defer client.Close()

	_, err := client.Perplexity(context.Background(), "sample text")
	assert.Error(t, err)

	_, err = client.Estimate(context.Background(), "sample text")
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	defer client.Close()

	assert.NoError(t, client.HealthCheck(context.Background()))
}
