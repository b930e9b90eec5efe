package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_auth_gate_decisions_total",
			Help: "Auth gate decisions on protected routes, by outcome",
		},
		[]string{"outcome"}, // proceed, missing, malformed, bad_signature, expired
	)

	credentialAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_auth_credential_attempts_total",
			Help: "Registration and login attempts, by operation and result",
		},
		[]string{"operation", "result"},
	)
)

// Credential attempt results.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// RecordCredentialAttempt counts one register or login attempt.
func RecordCredentialAttempt(operation, result string) {
	credentialAttempts.WithLabelValues(operation, result).Inc()
}

func recordGateDecision(o GateOutcome) {
	if o.Proceed {
		gateDecisions.WithLabelValues("proceed").Inc()
		return
	}
	gateDecisions.WithLabelValues(o.Reason).Inc()
}
