package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/api/shared"
	"github.com/internbook/internbook-api/internal/platform/metrics"
	"github.com/internbook/internbook-api/internal/service/auth"
)

// Messages sent to callers on rejection.
const (
	MsgNoToken      = "No token provided"
	MsgInvalidToken = "Invalid token"
)

// Reasons recorded for rejected requests.
const (
	ReasonMissingToken = "missing_token"
	ReasonInvalidToken = "invalid_token"
	ReasonExpiredToken = "expired_token"
	reasonVerified     = "verified"
)

// Outcome is the kind of a Decision.
type Outcome int

const (
	// Allow lets the request through with a verified identity.
	Allow Outcome = iota
	// Reject ends the request with Status and Message.
	Reject
)

// String returns the metrics label for o.
func (o Outcome) String() string {
	if o == Allow {
		return metrics.OutcomeAllow
	}
	return metrics.OutcomeReject
}

// Decision is the result of authorizing one request.
type Decision struct {
	Outcome Outcome

	// InternID is set when Outcome is Allow.
	InternID uuid.UUID

	// Status, Message, Reason and Err are set when Outcome is Reject.
	Status  int
	Message string
	Reason  string
	Err     error
}

func allow(internID uuid.UUID) Decision {
	return Decision{Outcome: Allow, InternID: internID}
}

func reject(status int, message, reason string, err error) Decision {
	return Decision{Outcome: Reject, Status: status, Message: message, Reason: reason, Err: err}
}

// DecisionRecorder receives every decision the gate makes.
type DecisionRecorder interface {
	RecordGateDecision(outcome, reason string)
}

// Gate authorizes requests to protected routes by verifying the bearer
// token in the Authorization header.
type Gate struct {
	tokens   auth.TokenService
	recorder DecisionRecorder
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithDecisionRecorder reports every decision to r.
func WithDecisionRecorder(r DecisionRecorder) GateOption {
	return func(g *Gate) {
		g.recorder = r
	}
}

// NewGate creates a Gate verifying tokens with tokens.
func NewGate(tokens auth.TokenService, opts ...GateOption) *Gate {
	g := &Gate{tokens: tokens}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize decides whether r may proceed. It never writes a response.
//
// The credential is the second space-separated field of the Authorization
// header; the scheme word is not checked. A missing header and a header
// without a second field both reject with MsgNoToken. Every verification
// failure, expiry included, rejects with MsgInvalidToken.
func (g *Gate) Authorize(r *http.Request) Decision {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return reject(http.StatusUnauthorized, MsgNoToken, ReasonMissingToken, auth.ErrMissingToken)
	}

	claims, err := g.tokens.ValidateToken(r.Context(), token)
	if err != nil {
		reason := ReasonInvalidToken
		if errors.Is(err, auth.ErrExpiredToken) {
			reason = ReasonExpiredToken
		}
		return reject(http.StatusUnauthorized, MsgInvalidToken, reason, err)
	}

	return allow(claims.InternID)
}

// Protect is the dispatch step: it runs Authorize and either attaches the
// identity and calls next, or writes the rejection and stops.
func (g *Gate) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Authorize(r)
		g.record(decision)

		switch decision.Outcome {
		case Allow:
			ctx := context.WithValue(r.Context(), shared.InternIDContextKey, decision.InternID)
			next.ServeHTTP(w, r.WithContext(ctx))
		default:
			var opts []shared.ResponseOption
			if decision.Reason == ReasonMissingToken {
				opts = append(opts, shared.WithElevatedLogLevel())
			}
			shared.RespondWithErrorAndLog(w, r, decision.Status, decision.Message, decision.Err, opts...)
		}
	})
}

func (g *Gate) record(d Decision) {
	if g.recorder == nil {
		return
	}
	reason := d.Reason
	if d.Outcome == Allow {
		reason = reasonVerified
	}
	g.recorder.RecordGateDecision(d.Outcome.String(), reason)
}

// bearerToken returns the second space-separated field of header, or ""
// when there is none.
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// GetInternID extracts the verified intern id from the request context.
// Returns the id and a boolean indicating if it was found.
func GetInternID(r *http.Request) (uuid.UUID, bool) {
	internID, ok := r.Context().Value(shared.InternIDContextKey).(uuid.UUID)
	return internID, ok
}
