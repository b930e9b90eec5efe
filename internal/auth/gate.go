package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Client-facing rejection messages. The three verification failures collapse
// into one message so a client cannot probe which check failed.
const (
	MessagePassToken      = "pass token"
	MessageTokenIncorrect = "token is incorrect"
)

// bearerPrefix is matched literally and case-sensitively.
const bearerPrefix = "Bearer "

// Rejection reasons, for logs and metrics only.
const (
	ReasonMissing      = "missing"
	ReasonMalformed    = "malformed"
	ReasonBadSignature = "bad_signature"
	ReasonExpired      = "expired"
)

// GateOutcome is the decision for one request: either proceed with Claims,
// or reject with Status and Message.
type GateOutcome struct {
	Proceed bool
	Claims  Claims

	Status  int
	Message string
	// Reason says why a request was rejected. Never sent to the client.
	Reason string
}

func proceed(c Claims) GateOutcome {
	return GateOutcome{Proceed: true, Claims: c}
}

func reject(message, reason string) GateOutcome {
	return GateOutcome{Status: http.StatusUnauthorized, Message: message, Reason: reason}
}

// Evaluate decides whether a request carrying the given Authorization header
// value may proceed. It has no side effects.
//
//	""                    → 401 "pass token"
//	"Token abc"           → 401 "pass token"
//	"Bearer <bad token>"  → 401 "token is incorrect"
//	"Bearer <good token>" → proceed with the token's Claims
func Evaluate(authorization string, secret []byte, now time.Time) GateOutcome {
	token, ok := strings.CutPrefix(authorization, bearerPrefix)
	if !ok {
		return reject(MessagePassToken, ReasonMissing)
	}

	claims, err := VerifyToken(token, secret, now)
	if err != nil {
		return reject(MessageTokenIncorrect, reasonOf(err))
	}
	return proceed(claims)
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	case errors.Is(err, ErrBadSignature):
		return ReasonBadSignature
	default:
		return ReasonMalformed
	}
}

// Gate evaluates requests against a TokenService's secret and clock.
type Gate struct {
	tokens *TokenService
}

func NewGate(tokens *TokenService) *Gate {
	return &Gate{tokens: tokens}
}

// Evaluate runs the pure Evaluate with the service's secret and current time.
func (g *Gate) Evaluate(authorization string) GateOutcome {
	return Evaluate(authorization, g.tokens.secret, g.tokens.now())
}
