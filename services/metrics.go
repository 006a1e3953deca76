package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "membergate"

type authMetrics struct {
	logins    *prometheus.CounterVec
	decisions *prometheus.CounterVec
}

func newAuthMetrics(reg prometheus.Registerer) *authMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &authMetrics{
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "authorization_decisions_total",
			Help:      "Authorization decisions by required role and outcome",
		}, []string{"role", "outcome"}),
	}
}

type attendanceMetrics struct {
	checkins prometheus.Counter
}

func newAttendanceMetrics(reg prometheus.Registerer) *attendanceMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &attendanceMetrics{
		checkins: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "checkins_total",
			Help:      "Recorded check-ins",
		}),
	}
}
