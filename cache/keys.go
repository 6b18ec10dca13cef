package cache

// Root is the namespace prefix shared by every key the platform writes.
// Keeping all keys under one root makes bulk invalidation and operational
// inspection (KEYS fraudwatch:*) safe on a shared redis instance.
const Root = "fraudwatch"

// Category identifies one logical cache bucket. The set is closed: every
// key the platform writes belongs to exactly one category, so the key
// namespace is exhaustively enumerable and collision-free by construction.
type Category int

const (
	DashboardMetrics Category = iota
	ThreatCount
	RevenueAtRisk
	NetworkHealth
	SLAStatus
	ActiveAlerts
	CriticalAlerts
	AlertDetail
	IncidentList
	IncidentDetail
	SIMBoxAlerts
	SIMSwapAlerts
	DDoSAlerts
	FraudTimeline
	FraudStats
	MLPrediction
	CorrelationResults
	CorrelationEngine
	InvestigationList
	InvestigationDetail
	NetworkTraffic
	TrafficBaseline
	NetworkAnomalies
	SystemComponents
	ComponentStatus
	SystemUptime
	UserSession
	UserPermissions
	RateLimit
	EndpointCounter
	HTTPResponse
)

// slugs are colon-free and unique, which makes EntityKey injective: the
// first two colon-separated segments of any key always recover (Root, slug)
// and the remainder is the entity id verbatim.
var slugs = [...]string{
	DashboardMetrics:    "dashboard-metrics",
	ThreatCount:         "threat-count",
	RevenueAtRisk:       "revenue-at-risk",
	NetworkHealth:       "network-health",
	SLAStatus:           "sla-status",
	ActiveAlerts:        "active-alerts",
	CriticalAlerts:      "critical-alerts",
	AlertDetail:         "alert-detail",
	IncidentList:        "incident-list",
	IncidentDetail:      "incident-detail",
	SIMBoxAlerts:        "simbox-alerts",
	SIMSwapAlerts:       "simswap-alerts",
	DDoSAlerts:          "ddos-alerts",
	FraudTimeline:       "fraud-timeline",
	FraudStats:          "fraud-stats",
	MLPrediction:        "ml-prediction",
	CorrelationResults:  "correlation-results",
	CorrelationEngine:   "correlation-engine",
	InvestigationList:   "investigation-list",
	InvestigationDetail: "investigation-detail",
	NetworkTraffic:      "network-traffic",
	TrafficBaseline:     "traffic-baseline",
	NetworkAnomalies:    "network-anomalies",
	SystemComponents:    "system-components",
	ComponentStatus:     "component-status",
	SystemUptime:        "system-uptime",
	UserSession:         "user-session",
	UserPermissions:     "user-permissions",
	RateLimit:           "rate-limit",
	EndpointCounter:     "endpoint-counter",
	HTTPResponse:        "http",
}

// String returns the category's key segment.
func (c Category) String() string {
	if c < 0 || int(c) >= len(slugs) {
		return "unknown"
	}
	return slugs[c]
}

// Key builds the canonical key for a category with no entity id,
// e.g. Key(ActiveAlerts) == "fraudwatch:active-alerts".
func Key(c Category) string {
	return Root + ":" + c.String()
}

// EntityKey builds the canonical key for a per-entity category,
// e.g. EntityKey(MLPrediction, "a-17") == "fraudwatch:ml-prediction:a-17".
// The id is embedded verbatim; validation of ids happens at the facade
// boundary, not here. Same inputs always produce the same key and distinct
// (category, id) pairs never collide.
func EntityKey(c Category, id string) string {
	return Key(c) + ":" + id
}

// Pattern builds a glob matching every key in a category, for bulk
// invalidation via Store.Keys.
func Pattern(c Category) string {
	return Key(c) + "*"
}
