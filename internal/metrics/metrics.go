package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	GatewayRequests *prometheus.CounterVec
	GatewayFailures *prometheus.CounterVec
	MessagesSent    prometheus.Counter
	AuthTransitions *prometheus.CounterVec
}

// New builds the counters and registers them on reg. Passing nil registers
// nothing, which is what tests do.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incordes_gateway_requests_total",
				Help: "Total number of requests issued to the remote gateway",
			},
			[]string{"endpoint", "action"},
		),
		GatewayFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incordes_gateway_failures_total",
				Help: "Total number of gateway requests that failed, by failure kind",
			},
			[]string{"endpoint", "action", "kind"},
		),
		MessagesSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "incordes_messages_sent_total",
				Help: "Total number of successfully sent messages",
			},
		),
		AuthTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "incordes_auth_transitions_total",
				Help: "Total number of auth state transitions",
			},
			[]string{"to"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.GatewayRequests)
		reg.MustRegister(m.GatewayFailures)
		reg.MustRegister(m.MessagesSent)
		reg.MustRegister(m.AuthTransitions)
	}

	return m
}
