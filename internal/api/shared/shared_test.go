package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = SetTraceID(ctx)
	id := GetTraceID(ctx)
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")

	assert.NotEqual(t, id, GetTraceID(SetTraceID(context.Background())))
	assert.Equal(t, "fixed", GetTraceID(WithTraceID(ctx, "fixed")))
}

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]interface{}{"message": "success", "data": 123})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["message"])
	assert.Equal(t, float64(123), body["data"])
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-1"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusUnauthorized, "No token provided")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"No token provided","trace_id":"trace-1"}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	buf, _ := logger.SetupTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	w := httptest.NewRecorder()
	err := errors.New("dial postgres://admin:hunter22@db:5432/interns failed")

	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"An unexpected error occurred"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "hunter22")

	logs := buf.String()
	assert.Contains(t, logs, `"level":"ERROR"`)
	assert.Contains(t, logs, "[REDACTED_CREDENTIAL]")
	assert.NotContains(t, logs, "hunter22")
}

func TestRespondWithErrorAndLogLevels(t *testing.T) {
	buf, _ := logger.SetupTestLogger(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithErrorAndLog(httptest.NewRecorder(), req, http.StatusBadRequest, "bad", nil)
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)

	buf.Reset()
	RespondWithErrorAndLog(httptest.NewRecorder(), req, http.StatusUnauthorized, "no", nil, WithElevatedLogLevel())
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid json", body: `{"name":"test"}`},
		{name: "invalid json", body: `{"name":"test",}`, wantErr: true},
		{name: "unknown field", body: `{"name":"test","extra":1}`, wantErr: true},
		{name: "trailing object", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var p payload
			err := DecodeJSON(req, &p)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test", p.Name)
		})
	}

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		assert.ErrorIs(t, DecodeJSON(req, &payload{}), ErrEmptyBody)
	})
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
	}

	assert.NoError(t, ValidateRequest(&req{Email: "a@example.com"}))
	assert.Error(t, ValidateRequest(&req{Email: "nope"}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.Error(t, ValidateRequest(selfValidating{}))
}
