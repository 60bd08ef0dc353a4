// Package analysis orchestrates the full detection pipeline: local metric
// extraction, emotion profiling, best-effort model API calls, and the
// ensemble evaluation that combines everything into one report.
package analysis

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/originlytics/originlytics/internal/emotion"
	"github.com/originlytics/originlytics/internal/ensemble"
	"github.com/originlytics/originlytics/internal/errors"
	"github.com/originlytics/originlytics/internal/modelclient"
	"github.com/originlytics/originlytics/internal/resilience"
	"github.com/originlytics/originlytics/internal/textstats"
)

// MaxTextLength caps analyze input size.
const MaxTextLength = 100_000

// Report is the full analysis result returned to API clients.
type Report struct {
	ensemble.Result
	WordCount        int               `json:"wordCount"`
	ModelMetricsUsed bool              `json:"modelMetricsUsed"`
	Emotion          *emotion.Analysis `json:"emotionDetails,omitempty"`
	ComputeTimeMS    int64             `json:"computeTimeMs"`
}

// Analyzer runs the detection pipeline. The model client is optional;
// without it, or when the model API is degraded, analysis proceeds on
// local metrics alone.
type Analyzer struct {
	model *modelclient.Client
}

// NewAnalyzer creates an analyzer backed by the given model client.
// model may be nil.
func NewAnalyzer(model *modelclient.Client) *Analyzer {
	return &Analyzer{model: model}
}

// Analyze scores the text and assembles the report. It returns an error
// only for invalid input; upstream model failures degrade to a
// local-metrics-only report instead of failing the request.
func (a *Analyzer) Analyze(ctx context.Context, text string) (Report, error) {
	if strings.TrimSpace(text) == "" {
		return Report{}, errors.NewValidationError("text must not be empty")
	}
	if len(text) > MaxTextLength {
		return Report{}, errors.NewValidationError("text exceeds maximum length", MaxTextLength)
	}

	start := time.Now()

	doc := textstats.NewDocument(text)
	raw := textstats.Extract(text)

	var emotionDetails *emotion.Analysis
	if doc.WordCount() >= textstats.MinWords {
		if analysis, ok := emotion.Analyze(text); ok {
			emotionDetails = &analysis
			raw[ensemble.MetricEmotionalVariance] = analysis.Variance
		}
	}

	modelUsed := false
	if doc.WordCount() >= textstats.MinWords {
		modelUsed = a.collectModelMetrics(ctx, text, raw)
	}

	result := ensemble.Evaluate(raw, doc.WordCount())

	return Report{
		Result:           result,
		WordCount:        doc.WordCount(),
		ModelMetricsUsed: modelUsed,
		Emotion:          emotionDetails,
		ComputeTimeMS:    time.Since(start).Milliseconds(),
	}, nil
}

// collectModelMetrics fetches perplexity and the model-estimated markers
// concurrently. Failures are recorded against the model API's health and
// the affected metrics stay absent.
func (a *Analyzer) collectModelMetrics(ctx context.Context, text string, raw ensemble.RawMetrics) bool {
	if a.model == nil || !a.model.IsConfigured() {
		return false
	}
	if !resilience.IsServiceAvailable(modelclient.ServiceName) {
		slog.Warn("Model API unavailable, serving local metrics only")
		return false
	}

	var (
		wg         sync.WaitGroup
		perplexity float64
		estimates  modelclient.Estimates
		perpErr    error
		estErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		perplexity, perpErr = a.model.Perplexity(ctx, text)
	}()
	go func() {
		defer wg.Done()
		estimates, estErr = a.model.Estimate(ctx, text)
	}()
	wg.Wait()

	used := false

	if perpErr != nil {
		resilience.RecordError(modelclient.ServiceName, perpErr)
		slog.Warn("Perplexity scoring failed", "error", perpErr)
	} else {
		resilience.RecordRequest(modelclient.ServiceName, true)
		raw[ensemble.MetricPerplexity] = perplexity
		used = true
	}

	if estErr != nil {
		resilience.RecordError(modelclient.ServiceName, estErr)
		slog.Warn("Model estimation failed", "error", estErr)
	} else {
		resilience.RecordRequest(modelclient.ServiceName, true)
		raw[ensemble.MetricVocabularyNaturalness] = estimates.VocabularyNaturalness
		raw[ensemble.MetricSentenceFlow] = estimates.SentenceFlow
		raw[ensemble.MetricOriginality] = estimates.Originality
		used = true
	}

	return used
}
