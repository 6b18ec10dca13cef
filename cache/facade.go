package cache

import (
	"context"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/tollguard/fraudwatch/model"
)

// Facade exposes typed read/write operations per business category. Each
// write applies the category's fixed transform, serializes with msgpack
// and stores under the category's key with its tier TTL; each read returns
// the typed object or an explicit not-present. A payload that fails to
// decode is treated as absent and the corrupt entry is deleted so it is
// not re-parsed on every read.
type Facade struct {
	store Store
	log   *zap.Logger
}

// NewFacade wraps a Store with the typed category operations.
func NewFacade(store Store, log *zap.Logger) *Facade {
	return &Facade{store: store, log: log}
}

// Store returns the underlying Store, shared with the rate limiter and
// response-cache middleware.
func (f *Facade) Store() Store { return f.store }

func write[T any](ctx context.Context, f *Facade, key string, cat Category, v T) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	return f.store.Set(ctx, key, data, TTLFor(cat))
}

func read[T any](ctx context.Context, f *Facade, key string) (T, bool) {
	var v T
	data, ok := f.store.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := msgpack.Unmarshal(data, &v); err != nil {
		f.log.Warn("dropping corrupt cache entry", zap.String("key", key), zap.Error(err))
		if _, derr := f.store.Delete(ctx, key); derr != nil {
			f.log.Warn("failed to drop corrupt cache entry", zap.String("key", key), zap.Error(derr))
		}
		var zero T
		return zero, false
	}
	return v, true
}

// Dashboard ----------------------------------------------------------------

// Demo defaults filled into dashboard metrics when the upstream aggregator
// reports a zero field.
const (
	defaultNetworkHealth = 98.5
	defaultSLACompliance = 99.2
)

// SetDashboardMetrics caches the headline dashboard view. Zero health and
// SLA fields are filled with the platform's demo defaults.
func (f *Facade) SetDashboardMetrics(ctx context.Context, m model.DashboardMetrics) error {
	if m.NetworkHealth == 0 {
		m.NetworkHealth = defaultNetworkHealth
	}
	if m.SLACompliance == 0 {
		m.SLACompliance = defaultSLACompliance
	}
	return write(ctx, f, Key(DashboardMetrics), DashboardMetrics, m)
}

func (f *Facade) DashboardMetrics(ctx context.Context) (model.DashboardMetrics, bool) {
	return read[model.DashboardMetrics](ctx, f, Key(DashboardMetrics))
}

func (f *Facade) SetThreatCount(ctx context.Context, n int) error {
	return write(ctx, f, Key(ThreatCount), ThreatCount, n)
}

func (f *Facade) ThreatCount(ctx context.Context) (int, bool) {
	return read[int](ctx, f, Key(ThreatCount))
}

func (f *Facade) SetRevenueAtRisk(ctx context.Context, amount float64) error {
	return write(ctx, f, Key(RevenueAtRisk), RevenueAtRisk, amount)
}

func (f *Facade) RevenueAtRisk(ctx context.Context) (float64, bool) {
	return read[float64](ctx, f, Key(RevenueAtRisk))
}

func (f *Facade) SetNetworkHealthScore(ctx context.Context, score float64) error {
	return write(ctx, f, Key(NetworkHealth), NetworkHealth, score)
}

func (f *Facade) NetworkHealthScore(ctx context.Context) (float64, bool) {
	return read[float64](ctx, f, Key(NetworkHealth))
}

func (f *Facade) SetSLAStatus(ctx context.Context, compliance float64) error {
	return write(ctx, f, Key(SLAStatus), SLAStatus, compliance)
}

func (f *Facade) SLAStatus(ctx context.Context) (float64, bool) {
	return read[float64](ctx, f, Key(SLAStatus))
}

// Alerts -------------------------------------------------------------------

// SetActiveAlerts caches the active-alerts list and derives the critical
// subset, stored separately on the shorter real-time tier. The subset can
// therefore expire before the full list does; callers finding the critical
// entry absent should recompute from active-alerts rather than conclude
// there are no critical alerts. A failure writing the derived subset is
// logged and does not fail the primary write.
func (f *Facade) SetActiveAlerts(ctx context.Context, alerts []model.Alert) error {
	if err := write(ctx, f, Key(ActiveAlerts), ActiveAlerts, alerts); err != nil {
		return err
	}
	critical := make([]model.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.IsCritical() {
			critical = append(critical, a)
		}
	}
	if err := write(ctx, f, Key(CriticalAlerts), CriticalAlerts, critical); err != nil {
		f.log.Warn("failed to cache derived critical alerts", zap.Error(err))
	}
	return nil
}

func (f *Facade) ActiveAlerts(ctx context.Context) ([]model.Alert, bool) {
	return read[[]model.Alert](ctx, f, Key(ActiveAlerts))
}

// CriticalAlerts returns the derived critical subset. Absence means the
// subset expired, not that no critical alerts exist.
func (f *Facade) CriticalAlerts(ctx context.Context) ([]model.Alert, bool) {
	return read[[]model.Alert](ctx, f, Key(CriticalAlerts))
}

func (f *Facade) SetAlertDetail(ctx context.Context, id string, a model.Alert) error {
	if id == "" {
		return ErrMissingID
	}
	return write(ctx, f, EntityKey(AlertDetail, id), AlertDetail, a)
}

func (f *Facade) AlertDetail(ctx context.Context, id string) (model.Alert, bool, error) {
	if id == "" {
		return model.Alert{}, false, ErrMissingID
	}
	a, ok := read[model.Alert](ctx, f, EntityKey(AlertDetail, id))
	return a, ok, nil
}

func (f *Facade) SetSIMBoxAlerts(ctx context.Context, alerts []model.Alert) error {
	return write(ctx, f, Key(SIMBoxAlerts), SIMBoxAlerts, alerts)
}

func (f *Facade) SIMBoxAlerts(ctx context.Context) ([]model.Alert, bool) {
	return read[[]model.Alert](ctx, f, Key(SIMBoxAlerts))
}

func (f *Facade) SetSIMSwapAlerts(ctx context.Context, alerts []model.Alert) error {
	return write(ctx, f, Key(SIMSwapAlerts), SIMSwapAlerts, alerts)
}

func (f *Facade) SIMSwapAlerts(ctx context.Context) ([]model.Alert, bool) {
	return read[[]model.Alert](ctx, f, Key(SIMSwapAlerts))
}

func (f *Facade) SetDDoSAlerts(ctx context.Context, alerts []model.Alert) error {
	return write(ctx, f, Key(DDoSAlerts), DDoSAlerts, alerts)
}

func (f *Facade) DDoSAlerts(ctx context.Context) ([]model.Alert, bool) {
	return read[[]model.Alert](ctx, f, Key(DDoSAlerts))
}

// Incidents ----------------------------------------------------------------

func (f *Facade) SetIncidentList(ctx context.Context, incidents []model.Incident) error {
	return write(ctx, f, Key(IncidentList), IncidentList, incidents)
}

func (f *Facade) IncidentList(ctx context.Context) ([]model.Incident, bool) {
	return read[[]model.Incident](ctx, f, Key(IncidentList))
}

func (f *Facade) SetIncidentDetail(ctx context.Context, id string, inc model.Incident) error {
	if id == "" {
		return ErrMissingID
	}
	return write(ctx, f, EntityKey(IncidentDetail, id), IncidentDetail, inc)
}

func (f *Facade) IncidentDetail(ctx context.Context, id string) (model.Incident, bool, error) {
	if id == "" {
		return model.Incident{}, false, ErrMissingID
	}
	inc, ok := read[model.Incident](ctx, f, EntityKey(IncidentDetail, id))
	return inc, ok, nil
}

// Fraud statistics ---------------------------------------------------------

func (f *Facade) SetFraudStats(ctx context.Context, s model.FraudStats) error {
	return write(ctx, f, Key(FraudStats), FraudStats, s)
}

func (f *Facade) FraudStats(ctx context.Context) (model.FraudStats, bool) {
	return read[model.FraudStats](ctx, f, Key(FraudStats))
}

func (f *Facade) SetFraudTimeline(ctx context.Context, points []model.TimelinePoint) error {
	return write(ctx, f, Key(FraudTimeline), FraudTimeline, points)
}

func (f *Facade) FraudTimeline(ctx context.Context) ([]model.TimelinePoint, bool) {
	return read[[]model.TimelinePoint](ctx, f, Key(FraudTimeline))
}

// ML / correlation ---------------------------------------------------------

func (f *Facade) SetPrediction(ctx context.Context, alertID string, p model.Prediction) error {
	if alertID == "" {
		return ErrMissingID
	}
	return write(ctx, f, EntityKey(MLPrediction, alertID), MLPrediction, p)
}

func (f *Facade) Prediction(ctx context.Context, alertID string) (model.Prediction, bool, error) {
	if alertID == "" {
		return model.Prediction{}, false, ErrMissingID
	}
	p, ok := read[model.Prediction](ctx, f, EntityKey(MLPrediction, alertID))
	return p, ok, nil
}

func (f *Facade) SetCorrelationResults(ctx context.Context, results []model.CorrelationResult) error {
	return write(ctx, f, Key(CorrelationResults), CorrelationResults, results)
}

func (f *Facade) CorrelationResults(ctx context.Context) ([]model.CorrelationResult, bool) {
	return read[[]model.CorrelationResult](ctx, f, Key(CorrelationResults))
}

func (f *Facade) SetEngineStatus(ctx context.Context, s model.EngineStatus) error {
	return write(ctx, f, Key(CorrelationEngine), CorrelationEngine, s)
}

func (f *Facade) EngineStatus(ctx context.Context) (model.EngineStatus, bool) {
	return read[model.EngineStatus](ctx, f, Key(CorrelationEngine))
}

// Investigations -----------------------------------------------------------

func (f *Facade) SetInvestigationList(ctx context.Context, list []model.Investigation) error {
	return write(ctx, f, Key(InvestigationList), InvestigationList, list)
}

func (f *Facade) InvestigationList(ctx context.Context) ([]model.Investigation, bool) {
	return read[[]model.Investigation](ctx, f, Key(InvestigationList))
}

func (f *Facade) SetInvestigation(ctx context.Context, id string, inv model.Investigation) error {
	if id == "" {
		return ErrMissingID
	}
	return write(ctx, f, EntityKey(InvestigationDetail, id), InvestigationDetail, inv)
}

func (f *Facade) Investigation(ctx context.Context, id string) (model.Investigation, bool, error) {
	if id == "" {
		return model.Investigation{}, false, ErrMissingID
	}
	inv, ok := read[model.Investigation](ctx, f, EntityKey(InvestigationDetail, id))
	return inv, ok, nil
}

// Network ------------------------------------------------------------------

func (f *Facade) SetNetworkTraffic(ctx context.Context, m model.NetworkMetrics) error {
	return write(ctx, f, Key(NetworkTraffic), NetworkTraffic, m)
}

func (f *Facade) NetworkTraffic(ctx context.Context) (model.NetworkMetrics, bool) {
	return read[model.NetworkMetrics](ctx, f, Key(NetworkTraffic))
}

func (f *Facade) SetTrafficBaseline(ctx context.Context, m model.NetworkMetrics) error {
	return write(ctx, f, Key(TrafficBaseline), TrafficBaseline, m)
}

func (f *Facade) TrafficBaseline(ctx context.Context) (model.NetworkMetrics, bool) {
	return read[model.NetworkMetrics](ctx, f, Key(TrafficBaseline))
}

func (f *Facade) SetNetworkAnomalies(ctx context.Context, anomalies []model.Anomaly) error {
	return write(ctx, f, Key(NetworkAnomalies), NetworkAnomalies, anomalies)
}

func (f *Facade) NetworkAnomalies(ctx context.Context) ([]model.Anomaly, bool) {
	return read[[]model.Anomaly](ctx, f, Key(NetworkAnomalies))
}

// System -------------------------------------------------------------------

func (f *Facade) SetSystemComponents(ctx context.Context, components []model.Component) error {
	return write(ctx, f, Key(SystemComponents), SystemComponents, components)
}

func (f *Facade) SystemComponents(ctx context.Context) ([]model.Component, bool) {
	return read[[]model.Component](ctx, f, Key(SystemComponents))
}

func (f *Facade) SetComponentStatus(ctx context.Context, name string, c model.Component) error {
	if name == "" {
		return ErrMissingID
	}
	return write(ctx, f, EntityKey(ComponentStatus, name), ComponentStatus, c)
}

func (f *Facade) ComponentStatus(ctx context.Context, name string) (model.Component, bool, error) {
	if name == "" {
		return model.Component{}, false, ErrMissingID
	}
	c, ok := read[model.Component](ctx, f, EntityKey(ComponentStatus, name))
	return c, ok, nil
}

// SetSystemUptime caches process uptime in seconds.
func (f *Facade) SetSystemUptime(ctx context.Context, seconds float64) error {
	return write(ctx, f, Key(SystemUptime), SystemUptime, seconds)
}

func (f *Facade) SystemUptime(ctx context.Context) (float64, bool) {
	return read[float64](ctx, f, Key(SystemUptime))
}

// Sessions -----------------------------------------------------------------

func (f *Facade) SetSession(ctx context.Context, userID string, s model.Session) error {
	if userID == "" {
		return ErrMissingID
	}
	return write(ctx, f, EntityKey(UserSession, userID), UserSession, s)
}

func (f *Facade) Session(ctx context.Context, userID string) (model.Session, bool, error) {
	if userID == "" {
		return model.Session{}, false, ErrMissingID
	}
	s, ok := read[model.Session](ctx, f, EntityKey(UserSession, userID))
	return s, ok, nil
}

// DeleteSession invalidates a user's session, e.g. on logout.
func (f *Facade) DeleteSession(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrMissingID
	}
	_, err := f.store.Delete(ctx, EntityKey(UserSession, userID))
	return err
}

func (f *Facade) SetPermissions(ctx context.Context, userID string, perms []string) error {
	if userID == "" {
		return ErrMissingID
	}
	return write(ctx, f, EntityKey(UserPermissions, userID), UserPermissions, perms)
}

func (f *Facade) Permissions(ctx context.Context, userID string) ([]string, bool, error) {
	if userID == "" {
		return nil, false, ErrMissingID
	}
	perms, ok := read[[]string](ctx, f, EntityKey(UserPermissions, userID))
	return perms, ok, nil
}

// Invalidation -------------------------------------------------------------

// Clear deletes every key matching a glob pattern and returns the count
// removed. The enumeration is a best-effort snapshot (see Store.Keys), so
// keys written concurrently with the clear may survive it.
func (f *Facade) Clear(ctx context.Context, pattern string) (int64, error) {
	keys, err := f.store.Keys(ctx, pattern)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return f.store.Delete(ctx, keys...)
}

// ClearCategory deletes every key in one category.
func (f *Facade) ClearCategory(ctx context.Context, c Category) (int64, error) {
	return f.Clear(ctx, Pattern(c))
}
