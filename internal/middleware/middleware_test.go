package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestID(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
	})

	t.Run("propagated when present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	})
}

func TestLogging_PassesThrough(t *testing.T) {
	h := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "tea", w.Body.String())
}

func TestLogging_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{status: http.StatusOK, level: zapcore.InfoLevel},
		{status: http.StatusNotFound, level: zapcore.WarnLevel},
		{status: http.StatusInternalServerError, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			prev := logger.Logger
			logger.Logger = zap.New(core)
			t.Cleanup(func() { logger.Logger = prev })

			h := middleware.RequestID(middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/tasks", nil))

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)

			fields := entry.ContextMap()
			assert.EqualValues(t, tt.status, fields["status"])
			assert.Equal(t, "/tasks", fields["path"])
			assert.NotEmpty(t, fields["request_id"])
		})
	}
}

func TestRecover(t *testing.T) {
	h := middleware.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Server error", body["message"])
}

func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	middleware.SecureHeaders(okHandler).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
}

func TestRateLimit(t *testing.T) {
	t.Run("disabled with zero", func(t *testing.T) {
		h := middleware.RateLimit(0)(okHandler)
		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
		}
	})

	t.Run("rejects over limit per client", func(t *testing.T) {
		h := middleware.RateLimit(2)(okHandler)

		send := func(addr string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = addr
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w
		}

		assert.Equal(t, http.StatusOK, send("10.0.0.1:1000").Code)
		second := send("10.0.0.1:1001")
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

		third := send("10.0.0.1:1002")
		assert.Equal(t, http.StatusTooManyRequests, third.Code)
		assert.NotEmpty(t, third.Header().Get("Retry-After"))
		assert.Contains(t, third.Body.String(), `"message"`)

		// другой клиент не затронут
		assert.Equal(t, http.StatusOK, send("10.0.0.2:1000").Code)
	})
}
