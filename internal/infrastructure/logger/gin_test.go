package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serveLogged(t *testing.T, level zapcore.Level, register func(*gin.Engine), target string) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	register(router)

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)
	return w, recorded
}

func requestEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("request served").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LogsServedRequest(t *testing.T) {
	w, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
		r.GET("/api/v1/catalog/compiled", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"drinks": []string{}})
		})
	}, "/api/v1/catalog/compiled")

	require.Equal(t, http.StatusOK, w.Code)
	entry := requestEntry(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "/api/v1/catalog/compiled", fields["path"])
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
}

func TestGinMiddleware_CarriesRequestIDAndQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-7f3a")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/inventory/events", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/api/v1/inventory/events?locations=SGN", nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	fields := requestEntry(t, recorded).ContextMap()
	assert.Equal(t, "req-7f3a", fields["request_id"])
	assert.Contains(t, fields["query"], "locations=SGN")
}

func TestGinMiddleware_CarriesActor(t *testing.T) {
	w, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
		r.GET("/api/v1/inventory/remainders", func(c *gin.Context) {
			// the JWT middleware sets this key on authenticated requests
			c.Set(ginActorKey, "vy")
			c.JSON(http.StatusOK, gin.H{})
		})
	}, "/api/v1/inventory/remainders")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "vy", requestEntry(t, recorded).ContextMap()["actor"])
}

func TestGinMiddleware_WarnsOnClientError(t *testing.T) {
	w, recorded := serveLogged(t, zapcore.WarnLevel, func(r *gin.Engine) {
		r.GET("/api/v1/reports/cashflow", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		})
	}, "/api/v1/reports/cashflow")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, zapcore.WarnLevel, requestEntry(t, recorded).Level)
}

func TestGinMiddleware_ErrorsOnServerError(t *testing.T) {
	w, recorded := serveLogged(t, zapcore.ErrorLevel, func(r *gin.Engine) {
		r.GET("/api/v1/reports/cashflow", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
		})
	}, "/api/v1/reports/cashflow")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, zapcore.ErrorLevel, requestEntry(t, recorded).Level)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("nil catalog")
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/boom", nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() { router.ServeHTTP(w, req) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotEmpty(t, recorded.FilterMessage("panic recovered").All())
}

func TestGetGinLogger(t *testing.T) {
	var fromHandler *zap.Logger
	_, _ = serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
		r.GET("/probe", func(c *gin.Context) {
			fromHandler = GetGinLogger(c)
			c.Status(http.StatusOK)
		})
	}, "/probe")

	assert.NotNil(t, fromHandler)
}

func TestGetGinLogger_Unseeded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var fromHandler *zap.Logger
	router := gin.New()
	router.GET("/probe", func(c *gin.Context) {
		fromHandler = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/probe", nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	require.NotNil(t, fromHandler)
	assert.NotPanics(t, func() { fromHandler.Info("noop") })
}
