package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	UsersRegistered  prometheus.Counter
	LoginAttempts    *prometheus.CounterVec
	AuthRejections   *prometheus.CounterVec
	ProfileMutations *prometheus.CounterVec
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "devconnector_users_registered_total",
			Help: "Total number of users registered",
		}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		AuthRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_auth_rejections_total",
			Help: "Requests rejected by the auth middleware by reason",
		}, []string{"reason"}),
		ProfileMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "devconnector_profile_mutations_total",
			Help: "Profile writes by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncUsersRegistered() {
	m.UsersRegistered.Inc()
}

func (m *Metrics) IncLogin(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncAuthRejection(reason string) {
	m.AuthRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncProfileMutation(kind string) {
	m.ProfileMutations.WithLabelValues(kind).Inc()
}
