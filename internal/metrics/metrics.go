package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts lifecycle transitions and notification outcomes.
type Metrics struct {
	ViolationsSubmitted  prometheus.Counter
	ViolationsApproved   prometheus.Counter
	ViolationsRejected   prometheus.Counter
	HazardsSubmitted     prometheus.Counter
	HazardsVerified      prometheus.Counter
	HazardsResolved      prometheus.Counter
	NotificationFailures prometheus.Counter
}

// New registers all counters against reg. Tests pass a fresh registry so
// suites do not collide on the default one.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ViolationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "roadguard_violations_submitted_total",
			Help: "Total number of violation reports submitted",
		}),
		ViolationsApproved: factory.NewCounter(prometheus.CounterOpts{
			Name: "roadguard_violations_approved_total",
			Help: "Total number of violation reports approved",
		}),
		ViolationsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "roadguard_violations_rejected_total",
			Help: "Total number of violation reports rejected",
		}),
		HazardsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "roadguard_hazards_submitted_total",
			Help: "Total number of hazard reports submitted",
		}),
		HazardsVerified: factory.NewCounter(prometheus.CounterOpts{
			Name: "roadguard_hazards_verified_total",
			Help: "Total number of hazard reports verified",
		}),
		HazardsResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "roadguard_hazards_resolved_total",
			Help: "Total number of hazard reports resolved",
		}),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "roadguard_notification_failures_total",
			Help: "Total number of notification deliveries that failed",
		}),
	}
}
