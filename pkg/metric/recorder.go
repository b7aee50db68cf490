package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mchmarny/patientnav/pkg/sidebar"
)

// Namespace prefixes every metric of the service.
const Namespace = "patientnav"

// OtherRoute labels navigations to paths outside the menu.
const OtherRoute = "other"

// Recorder collects sidebar and navigation metrics.
type Recorder struct {
	transitions IncrementalCounter
	navigations IncrementalCounter
	sessions    prometheus.Gauge
	routes      map[string]struct{}
}

// NewRecorder registers the service metrics with reg. Navigation labels are
// limited to routes; anything else is counted as OtherRoute.
func NewRecorder(reg prometheus.Registerer, routes ...string) *Recorder {
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "sessions_active",
		Help:      "Visitor sessions currently holding a sidebar.",
	})
	reg.MustRegister(sessions)

	known := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		known[r] = struct{}{}
	}

	return &Recorder{
		transitions: NewCounter(reg, "sidebar_transitions_total",
			"Sidebar actions by trigger and resulting state.", "action", "from", "to"),
		navigations: NewCounter(reg, "navigations_total",
			"Route changes by destination.", "route"),
		sessions: sessions,
		routes:   known,
	}
}

// Transition implements sidebar.Observer.
func (r *Recorder) Transition(action sidebar.Action, from, to sidebar.State) {
	r.transitions.Increment(string(action), from.String(), to.String())
}

// Navigation counts a route change to path.
func (r *Recorder) Navigation(path string) {
	if _, ok := r.routes[path]; !ok {
		path = OtherRoute
	}
	r.navigations.Increment(path)
}

// SessionsActive sets the live session gauge.
func (r *Recorder) SessionsActive(n int) {
	r.sessions.Set(float64(n))
}
