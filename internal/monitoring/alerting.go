package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// AlertSeverity represents the severity level of an alert
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityError    AlertSeverity = "error"
	SeverityCritical AlertSeverity = "critical"
)

// AlertStatus represents the status of an alert
type AlertStatus string

const (
	StatusActive     AlertStatus = "active"
	StatusResolved   AlertStatus = "resolved"
	StatusSuppressed AlertStatus = "suppressed"
)

// Alert represents a monitoring alert
type Alert struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Severity    AlertSeverity     `json:"severity"`
	Status      AlertStatus       `json:"status"`
	Service     string            `json:"service"`
	Labels      map[string]string `json:"labels,omitempty"`
	Value       float64           `json:"value,omitempty"`
	Threshold   float64           `json:"threshold,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
	FiredAt     time.Time         `json:"fired_at"`
}

// AlertRule defines a rule for generating alerts
type AlertRule struct {
	Name        string
	Query       string  // metric name to evaluate
	Threshold   float64 // Threshold value
	Operator    string  // "gt", "lt", "eq", "ne", "gte", "lte"
	Severity    AlertSeverity
	Service     string
	Description string
	Labels      map[string]string
	For         time.Duration // condition must clear for this long before resolving
}

// AlertNotifier defines the interface for sending alert notifications
type AlertNotifier interface {
	SendAlert(ctx context.Context, alert *Alert) error
	ResolveAlert(ctx context.Context, alert *Alert) error
}

// SlackNotifier sends alerts to a Slack incoming webhook
type SlackNotifier struct {
	WebhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		WebhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SlackNotifier) post(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// SendAlert sends an alert to Slack
func (s *SlackNotifier) SendAlert(ctx context.Context, alert *Alert) error {
	text := fmt.Sprintf(":rotating_light: [%s] %s - %s (value %.2f, threshold %.2f)",
		alert.Severity, alert.Name, alert.Description, alert.Value, alert.Threshold)
	return s.post(ctx, text)
}

// ResolveAlert sends a resolution notification to Slack
func (s *SlackNotifier) ResolveAlert(ctx context.Context, alert *Alert) error {
	text := fmt.Sprintf(":white_check_mark: Resolved: %s", alert.Name)
	return s.post(ctx, text)
}

// AlertManager evaluates rules against live metrics and notifies
type AlertManager struct {
	mu            sync.Mutex
	rules         []AlertRule
	alerts        map[string]*Alert
	notifiers     []AlertNotifier
	logger        *Logger
	metrics       *Metrics
	checkInterval time.Duration
}

// NewAlertManager creates a new alert manager bound to the given metrics
func NewAlertManager(logger *Logger, metrics *Metrics, checkInterval time.Duration) *AlertManager {
	return &AlertManager{
		rules:         []AlertRule{},
		alerts:        make(map[string]*Alert),
		notifiers:     []AlertNotifier{},
		logger:        logger,
		metrics:       metrics,
		checkInterval: checkInterval,
	}
}

// AddRule adds an alert rule
func (am *AlertManager) AddRule(rule AlertRule) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.rules = append(am.rules, rule)
}

// AddNotifier adds a notifier
func (am *AlertManager) AddNotifier(notifier AlertNotifier) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.notifiers = append(am.notifiers, notifier)
}

// Start begins the alert evaluation loop
func (am *AlertManager) Start(ctx context.Context) {
	ticker := time.NewTicker(am.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			am.evaluateRules(ctx)
		}
	}
}

// evaluateRules evaluates all alert rules
func (am *AlertManager) evaluateRules(ctx context.Context) {
	am.mu.Lock()
	rules := make([]AlertRule, len(am.rules))
	copy(rules, am.rules)
	am.mu.Unlock()

	for _, rule := range rules {
		am.evaluateRule(ctx, rule)
	}
}

// evaluateRule evaluates a single alert rule against current metrics
func (am *AlertManager) evaluateRule(ctx context.Context, rule AlertRule) {
	currentValue, ok := am.metricValue(rule.Query)
	if !ok {
		am.logger.SystemLogger("unknown_alert_query", fmt.Sprintf("Unknown query type: %s", rule.Query))
		return
	}

	alertKey := fmt.Sprintf("%s:%s", rule.Service, rule.Name)

	am.mu.Lock()
	alert, exists := am.alerts[alertKey]

	conditionMet := checkCondition(currentValue, rule.Operator, rule.Threshold)

	switch {
	case conditionMet && !exists:
		alert = &Alert{
			ID:          alertKey,
			Name:        rule.Name,
			Description: rule.Description,
			Severity:    rule.Severity,
			Status:      StatusActive,
			Service:     rule.Service,
			Labels:      rule.Labels,
			Value:       currentValue,
			Threshold:   rule.Threshold,
			CreatedAt:   time.Now(),
			FiredAt:     time.Now(),
		}
		am.alerts[alertKey] = alert
		am.mu.Unlock()
		am.fireAlert(ctx, alert)
		return
	case conditionMet && alert.Status != StatusActive:
		alert.Status = StatusActive
		alert.FiredAt = time.Now()
		alert.Value = currentValue
		am.mu.Unlock()
		am.fireAlert(ctx, alert)
		return
	case !conditionMet && exists && alert.Status == StatusActive:
		if time.Since(alert.FiredAt) > rule.For {
			now := time.Now()
			alert.Status = StatusResolved
			alert.ResolvedAt = &now
			am.mu.Unlock()
			am.resolveAlert(ctx, alert)
			return
		}
	}
	am.mu.Unlock()
}

// metricValue resolves a rule query against live metrics
func (am *AlertManager) metricValue(query string) (float64, bool) {
	switch query {
	case "error_rate":
		requests := atomic.LoadInt64(&am.metrics.RequestCount)
		errors := atomic.LoadInt64(&am.metrics.ErrorCount)
		if requests == 0 {
			return 0, true
		}
		return float64(errors) / float64(requests) * 100, true
	case "p95_response_time_ms":
		return float64(am.metrics.GetPercentileResponseTime(95)) / 1e6, true
	case "heap_usage_percent":
		heapAlloc := atomic.LoadInt64(&am.metrics.HeapAlloc)
		heapSys := atomic.LoadInt64(&am.metrics.HeapSys)
		if heapSys == 0 {
			return 0, true
		}
		return float64(heapAlloc) / float64(heapSys) * 100, true
	default:
		return 0, false
	}
}

// checkCondition checks if a condition is met
func checkCondition(value float64, operator string, threshold float64) bool {
	switch operator {
	case "gt":
		return value > threshold
	case "lt":
		return value < threshold
	case "eq":
		return value == threshold
	case "ne":
		return value != threshold
	case "gte":
		return value >= threshold
	case "lte":
		return value <= threshold
	default:
		return false
	}
}

// fireAlert fires an alert to all notifiers
func (am *AlertManager) fireAlert(ctx context.Context, alert *Alert) {
	am.logger.SystemLogger("alert_fired", fmt.Sprintf("Alert %s fired with severity %s", alert.Name, alert.Severity))

	for _, notifier := range am.notifiers {
		go func(n AlertNotifier) {
			if err := n.SendAlert(ctx, alert); err != nil {
				am.logger.SystemLogger("alert_notification_failed", fmt.Sprintf("Failed to send alert %s: %v", alert.Name, err))
			}
		}(notifier)
	}
}

// resolveAlert resolves an alert with all notifiers
func (am *AlertManager) resolveAlert(ctx context.Context, alert *Alert) {
	am.logger.SystemLogger("alert_resolved", fmt.Sprintf("Alert %s resolved", alert.Name))

	for _, notifier := range am.notifiers {
		go func(n AlertNotifier) {
			if err := n.ResolveAlert(ctx, alert); err != nil {
				am.logger.SystemLogger("alert_resolution_failed", fmt.Sprintf("Failed to resolve alert %s: %v", alert.Name, err))
			}
		}(notifier)
	}
}

// GetAlerts returns all current alerts
func (am *AlertManager) GetAlerts() map[string]*Alert {
	am.mu.Lock()
	defer am.mu.Unlock()

	alerts := make(map[string]*Alert)
	for k, v := range am.alerts {
		alerts[k] = v
	}
	return alerts
}

// GetActiveAlerts returns only active alerts
func (am *AlertManager) GetActiveAlerts() map[string]*Alert {
	am.mu.Lock()
	defer am.mu.Unlock()

	activeAlerts := make(map[string]*Alert)
	for k, v := range am.alerts {
		if v.Status == StatusActive {
			activeAlerts[k] = v
		}
	}
	return activeAlerts
}

// SilenceAlert silences an alert
func (am *AlertManager) SilenceAlert(alertID string, duration time.Duration) {
	am.mu.Lock()
	defer am.mu.Unlock()

	if alert, exists := am.alerts[alertID]; exists {
		alert.Status = StatusSuppressed
		am.logger.SystemLogger("alert_silenced", fmt.Sprintf("Alert %s silenced for %v", alert.Name, duration))
	}
}

// DefaultAlertRules are the rules installed at startup
var DefaultAlertRules = []AlertRule{
	{
		Name:        "HighErrorRate",
		Query:       "error_rate",
		Threshold:   10.0,
		Operator:    "gt",
		Severity:    SeverityWarning,
		Service:     "api",
		Description: "Error rate is above 10%",
		For:         5 * time.Minute,
		Labels: map[string]string{
			"team": "backend",
		},
	},
	{
		Name:        "SlowResponseTime",
		Query:       "p95_response_time_ms",
		Threshold:   1000.0,
		Operator:    "gt",
		Severity:    SeverityWarning,
		Service:     "api",
		Description: "p95 response time is above 1000ms",
		For:         2 * time.Minute,
		Labels: map[string]string{
			"team": "backend",
		},
	},
	{
		Name:        "HighMemoryUsage",
		Query:       "heap_usage_percent",
		Threshold:   90.0,
		Operator:    "gt",
		Severity:    SeverityCritical,
		Service:     "system",
		Description: "Heap usage is above 90%",
		For:         1 * time.Minute,
		Labels: map[string]string{
			"team": "platform",
		},
	},
}

// Global alert manager instance
var globalAlertManager *AlertManager

// InitGlobalAlertManager initializes the global alert manager with default rules
func InitGlobalAlertManager(logger *Logger, metrics *Metrics, checkInterval time.Duration) {
	globalAlertManager = NewAlertManager(logger, metrics, checkInterval)

	for _, rule := range DefaultAlertRules {
		globalAlertManager.AddRule(rule)
	}
}

// GetGlobalAlertManager returns the global alert manager
func GetGlobalAlertManager() *AlertManager {
	return globalAlertManager
}

// StartGlobalAlerting starts the global alert manager
func StartGlobalAlerting(ctx context.Context) {
	if globalAlertManager != nil {
		go globalAlertManager.Start(ctx)
	}
}
