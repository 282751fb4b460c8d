package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncUsersRegistered()
	m.IncLogin("success")
	m.IncLogin("invalid_credentials")
	m.IncLogin("invalid_credentials")
	m.IncAuthRejection("no_token")
	m.IncProfileMutation("upsert")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UsersRegistered))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthRejections.WithLabelValues("no_token")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProfileMutations.WithLabelValues("upsert")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
