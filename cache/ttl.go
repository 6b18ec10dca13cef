package cache

import "time"

// TTL tiers. Every expiring write goes through TTLFor so that adjusting a
// tier here changes every category in that tier at once; no component may
// hardcode a duration inline.
const (
	TierRealTime        = 30 * time.Second
	TierDashboard       = 60 * time.Second
	TierNetwork         = 60 * time.Second
	TierAlerts          = 300 * time.Second
	TierSystemStats     = 300 * time.Second
	TierPredictions     = 180 * time.Second
	TierInvestigations  = 600 * time.Second
	TierSession         = 3600 * time.Second
	TierRateLimitWindow = 60 * time.Second
)

var ttls = map[Category]time.Duration{
	DashboardMetrics:    TierDashboard,
	ThreatCount:         TierRealTime,
	RevenueAtRisk:       TierDashboard,
	NetworkHealth:       TierRealTime,
	SLAStatus:           TierDashboard,
	ActiveAlerts:        TierAlerts,
	CriticalAlerts:      TierRealTime,
	AlertDetail:         TierAlerts,
	IncidentList:        TierAlerts,
	IncidentDetail:      TierAlerts,
	SIMBoxAlerts:        TierAlerts,
	SIMSwapAlerts:       TierAlerts,
	DDoSAlerts:          TierAlerts,
	FraudTimeline:       TierDashboard,
	FraudStats:          TierDashboard,
	MLPrediction:        TierPredictions,
	CorrelationResults:  TierPredictions,
	CorrelationEngine:   TierSystemStats,
	InvestigationList:   TierInvestigations,
	InvestigationDetail: TierInvestigations,
	NetworkTraffic:      TierNetwork,
	TrafficBaseline:     TierNetwork,
	NetworkAnomalies:    TierNetwork,
	SystemComponents:    TierSystemStats,
	ComponentStatus:     TierSystemStats,
	SystemUptime:        TierSystemStats,
	UserSession:         TierSession,
	UserPermissions:     TierSession,
	RateLimit:           TierRateLimitWindow,
	EndpointCounter:     TierRateLimitWindow,
	HTTPResponse:        TierDashboard,
}

// TTLFor returns the tier duration for a category. Falls back to the
// dashboard tier for an out-of-range category, which cannot happen through
// the facade since the category set is closed.
func TTLFor(c Category) time.Duration {
	if d, ok := ttls[c]; ok {
		return d
	}
	return TierDashboard
}
