package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/mocks"
	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/internbook/internbook-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedDecision struct {
	outcome string
	reason  string
}

type fakeRecorder struct {
	mu        sync.Mutex
	decisions []recordedDecision
}

func (f *fakeRecorder) RecordGateDecision(outcome, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, recordedDecision{outcome: outcome, reason: reason})
}

func (f *fakeRecorder) all() []recordedDecision {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedDecision(nil), f.decisions...)
}

// identityHandler echoes the verified intern id and counts its calls.
type identityHandler struct {
	mu    sync.Mutex
	calls int
}

func (h *identityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()

	id, ok := GetInternID(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(id.String()))
}

func (h *identityHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func serve(t *testing.T, h http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	msg, _ := body["message"].(string)
	return msg
}

func TestGateProtect(t *testing.T) {
	tokens := auth.RequireTestTokenService(t)
	internID := uuid.New()
	validHeader := auth.GenerateAuthHeaderForTestingT(t, tokens, internID)
	validToken := strings.TrimPrefix(validHeader, "Bearer ")

	otherSigner, err := auth.NewTokenServiceWithClock(
		"another-secret-that-is-at-least-32-chars", time.Hour, 0, time.Now)
	require.NoError(t, err)
	forged := auth.GenerateAuthHeaderForTestingT(t, otherSigner, internID)

	expired := "Bearer " + auth.GenerateExpiredTokenForTesting(t, auth.TestSecret, internID)

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
		wantReason  string
	}{
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized, wantMessage: MsgNoToken, wantReason: ReasonMissingToken},
		{name: "scheme only", header: "Bearer", wantStatus: http.StatusUnauthorized, wantMessage: MsgNoToken, wantReason: ReasonMissingToken},
		{name: "trailing space", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantMessage: MsgNoToken, wantReason: ReasonMissingToken},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized, wantMessage: MsgInvalidToken, wantReason: ReasonInvalidToken},
		{name: "wrong signature", header: forged, wantStatus: http.StatusUnauthorized, wantMessage: MsgInvalidToken, wantReason: ReasonInvalidToken},
		{name: "expired", header: expired, wantStatus: http.StatusUnauthorized, wantMessage: MsgInvalidToken, wantReason: ReasonExpiredToken},
		{name: "valid", header: validHeader, wantStatus: http.StatusOK, wantReason: reasonVerified},
		{name: "scheme word ignored", header: "Token " + validToken, wantStatus: http.StatusOK, wantReason: reasonVerified},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := &fakeRecorder{}
			next := &identityHandler{}
			h := NewGate(tokens, WithDecisionRecorder(recorder)).Protect(next)

			rec := serve(t, h, tc.header)

			assert.Equal(t, tc.wantStatus, rec.Code)
			decisions := recorder.all()
			require.Len(t, decisions, 1)
			assert.Equal(t, tc.wantReason, decisions[0].reason)

			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, 1, next.count())
				assert.Equal(t, internID.String(), rec.Body.String())
				assert.Equal(t, "allow", decisions[0].outcome)
				return
			}

			assert.Equal(t, 0, next.count(), "downstream handler must not run on reject")
			assert.Equal(t, tc.wantMessage, errorMessage(t, rec))
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, "reject", decisions[0].outcome)
		})
	}
}

func TestGateAuthorizeIsRepeatable(t *testing.T) {
	tokens := auth.RequireTestTokenService(t)
	internID := uuid.New()
	header := auth.GenerateAuthHeaderForTestingT(t, tokens, internID)
	gate := NewGate(tokens)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
		req.Header.Set("Authorization", header)

		d := gate.Authorize(req)
		assert.Equal(t, Allow, d.Outcome)
		assert.Equal(t, internID, d.InternID)
	}
}

func TestGateAuthorizeDoesNotWrite(t *testing.T) {
	tokens := &mocks.MockTokenService{ValidateErr: auth.ErrInvalidToken}
	gate := NewGate(tokens)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")

	d := gate.Authorize(req)
	assert.Equal(t, Reject, d.Outcome)
	assert.Equal(t, http.StatusUnauthorized, d.Status)
	assert.Equal(t, MsgInvalidToken, d.Message)
	assert.ErrorIs(t, d.Err, auth.ErrInvalidToken)
	assert.Equal(t, []string{"abc"}, tokens.ValidateCalls())
}

func TestGateSkipsVerificationWithoutToken(t *testing.T) {
	tokens := &mocks.MockTokenService{}
	h := NewGate(tokens).Protect(&identityHandler{})

	rec := serve(t, h, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, tokens.ValidateCalls())
}

func TestGateIsolatesConcurrentRequests(t *testing.T) {
	tokens := auth.RequireTestTokenService(t)
	next := &identityHandler{}
	h := NewGate(tokens).Protect(next)

	const n = 32
	ids := make([]uuid.UUID, n)
	headers := make([]string, n)
	for i := range ids {
		ids[i] = uuid.New()
		headers[i] = auth.GenerateAuthHeaderForTestingT(t, tokens, ids[i])
	}

	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			req.Header.Set("Authorization", headers[i])
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			results[i] = rec.Body.String()
		}(i)
	}
	wg.Wait()

	for i := range ids {
		assert.Equal(t, ids[i].String(), results[i])
	}
	assert.Equal(t, n, next.count())
}

func TestGateLogsRejection(t *testing.T) {
	logBuf, _ := logger.SetupTestLogger(t)
	h := NewGate(auth.RequireTestTokenService(t)).Protect(&identityHandler{})

	rec := serve(t, h, "Bearer nope")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	logger.AssertLogContains(t, logBuf, MsgInvalidToken)
	assert.NotContains(t, logBuf.String(), "Bearer nope")
}

func TestGetInternID(t *testing.T) {
	_, ok := GetInternID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	id := uuid.New()
	tokens := &mocks.MockTokenService{Claims: &auth.Claims{InternID: id}}
	var got uuid.UUID
	h := NewGate(tokens).Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetInternID(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	req.Header.Set("Authorization", "Bearer any")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "", bearerToken(""))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("Bearer abc def"))
	assert.Equal(t, "", bearerToken("Bearer  abc"))
}
