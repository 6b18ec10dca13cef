// Package model defines the domain payloads stored by the caching layer.
// Fields use msgpack tags because the cache serializes with msgpack; the
// same types marshal to JSON for the HTTP surface.
package model

import "time"

// Alert severities as reported by the detection pipeline.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Fraud alert types.
const (
	FraudTypeSIMBox  = "sim_box"
	FraudTypeSIMSwap = "sim_swap"
	FraudTypeDDoS    = "ddos"
)

// Alert is a single fraud alert raised against a subscriber number.
type Alert struct {
	ID          string    `msgpack:"id" json:"id"`
	Type        string    `msgpack:"type" json:"type"`
	Severity    string    `msgpack:"severity" json:"severity"`
	PhoneNumber string    `msgpack:"phone_number" json:"phoneNumber"`
	FraudScore  float64   `msgpack:"fraud_score" json:"fraudScore"`
	Status      string    `msgpack:"status" json:"status"`
	DetectedAt  time.Time `msgpack:"detected_at" json:"detectedAt"`
}

// IsCritical reports whether the alert carries critical severity.
func (a Alert) IsCritical() bool {
	return a.Severity == SeverityCritical
}

// Incident groups related alerts into one operator-facing case.
type Incident struct {
	ID        string    `msgpack:"id" json:"id"`
	Title     string    `msgpack:"title" json:"title"`
	Severity  string    `msgpack:"severity" json:"severity"`
	AlertIDs  []string  `msgpack:"alert_ids" json:"alertIds"`
	OpenedAt  time.Time `msgpack:"opened_at" json:"openedAt"`
	UpdatedAt time.Time `msgpack:"updated_at" json:"updatedAt"`
}

// DashboardMetrics is the headline view on the operations dashboard.
type DashboardMetrics struct {
	ActiveThreats   int     `msgpack:"active_threats" json:"activeThreats"`
	RevenueAtRisk   float64 `msgpack:"revenue_at_risk" json:"revenueAtRisk"`
	NetworkHealth   float64 `msgpack:"network_health" json:"networkHealth"`
	SLACompliance   float64 `msgpack:"sla_compliance" json:"slaCompliance"`
	BlockedAttempts int     `msgpack:"blocked_attempts" json:"blockedAttempts"`
}

// FraudStats aggregates detection counts per fraud type.
type FraudStats struct {
	TotalAlerts   int            `msgpack:"total_alerts" json:"totalAlerts"`
	ByType        map[string]int `msgpack:"by_type" json:"byType"`
	BySeverity    map[string]int `msgpack:"by_severity" json:"bySeverity"`
	DetectionRate float64        `msgpack:"detection_rate" json:"detectionRate"`
}

// TimelinePoint is one bucket of the fraud-activity timeline.
type TimelinePoint struct {
	Timestamp  time.Time `msgpack:"timestamp" json:"timestamp"`
	AlertCount int       `msgpack:"alert_count" json:"alertCount"`
	FraudScore float64   `msgpack:"fraud_score" json:"fraudScore"`
}

// NetworkMetrics is a snapshot of live traffic measurements.
type NetworkMetrics struct {
	CallVolume     int       `msgpack:"call_volume" json:"callVolume"`
	SMSVolume      int       `msgpack:"sms_volume" json:"smsVolume"`
	DataThroughput float64   `msgpack:"data_throughput" json:"dataThroughput"`
	PacketLoss     float64   `msgpack:"packet_loss" json:"packetLoss"`
	SampledAt      time.Time `msgpack:"sampled_at" json:"sampledAt"`
}

// Anomaly is a deviation from the traffic baseline flagged by the
// network monitor.
type Anomaly struct {
	ID         string    `msgpack:"id" json:"id"`
	Metric     string    `msgpack:"metric" json:"metric"`
	Deviation  float64   `msgpack:"deviation" json:"deviation"`
	DetectedAt time.Time `msgpack:"detected_at" json:"detectedAt"`
}

// Prediction is the ML model's verdict for one alert.
type Prediction struct {
	AlertID    string    `msgpack:"alert_id" json:"alertId"`
	Model      string    `msgpack:"model" json:"model"`
	Confidence float64   `msgpack:"confidence" json:"confidence"`
	Label      string    `msgpack:"label" json:"label"`
	ScoredAt   time.Time `msgpack:"scored_at" json:"scoredAt"`
}

// CorrelationResult links alerts the correlation engine considers one
// coordinated campaign.
type CorrelationResult struct {
	ID         string   `msgpack:"id" json:"id"`
	AlertIDs   []string `msgpack:"alert_ids" json:"alertIds"`
	Pattern    string   `msgpack:"pattern" json:"pattern"`
	Confidence float64  `msgpack:"confidence" json:"confidence"`
}

// EngineStatus reports the correlation engine's processing state.
type EngineStatus struct {
	Running     bool      `msgpack:"running" json:"running"`
	QueueDepth  int       `msgpack:"queue_depth" json:"queueDepth"`
	LastRunAt   time.Time `msgpack:"last_run_at" json:"lastRunAt"`
	RulesLoaded int       `msgpack:"rules_loaded" json:"rulesLoaded"`
}

// Investigation is an analyst case file over one or more incidents.
type Investigation struct {
	ID         string    `msgpack:"id" json:"id"`
	Subject    string    `msgpack:"subject" json:"subject"`
	Analyst    string    `msgpack:"analyst" json:"analyst"`
	Status     string    `msgpack:"status" json:"status"`
	AlertIDs   []string  `msgpack:"alert_ids" json:"alertIds"`
	OpenedAt   time.Time `msgpack:"opened_at" json:"openedAt"`
	ResolvedAt time.Time `msgpack:"resolved_at,omitempty" json:"resolvedAt,omitempty"`
}

// Component is one monitored piece of the platform (ingest, scorer,
// correlation engine, API, database).
type Component struct {
	Name      string    `msgpack:"name" json:"name"`
	Status    string    `msgpack:"status" json:"status"`
	Latency   float64   `msgpack:"latency_ms" json:"latencyMs"`
	CheckedAt time.Time `msgpack:"checked_at" json:"checkedAt"`
}

// Session is an authenticated user session blob.
type Session struct {
	UserID    string    `msgpack:"user_id" json:"userId"`
	Username  string    `msgpack:"username" json:"username"`
	Roles     []string  `msgpack:"roles" json:"roles"`
	IssuedAt  time.Time `msgpack:"issued_at" json:"issuedAt"`
	ExpiresAt time.Time `msgpack:"expires_at" json:"expiresAt"`
}
