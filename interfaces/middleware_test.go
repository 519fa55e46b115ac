package interfaces

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClientLimiterEvictsIdleClients(t *testing.T) {
	cl := NewClientLimiter(1, 1)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	cl.now = func() time.Time { return now }
	cl.lastSweep = now

	assert.True(t, cl.Allow("10.0.0.1"))
	assert.True(t, cl.Allow("10.0.0.2"))
	assert.False(t, cl.Allow("10.0.0.1"))
	require.Len(t, cl.m, 2)

	now = now.Add(clientIdleTTL / 2)
	assert.True(t, cl.Allow("10.0.0.2"))

	// the next sweep drops 10.0.0.1, idle for a full TTL, and keeps 10.0.0.2
	now = now.Add(clientIdleTTL/2 + time.Second)
	assert.True(t, cl.Allow("10.0.0.3"))
	assert.Len(t, cl.m, 2)
	assert.NotContains(t, cl.m, "10.0.0.1")
	assert.Contains(t, cl.m, "10.0.0.2")
	assert.Contains(t, cl.m, "10.0.0.3")
}

func TestPanicIsAccessLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newTestServer(t, RouterOptions{})
	s.handler.Logger = zap.New(core)

	r := NewRouter(s.handler, RouterOptions{})
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	access := logs.FilterMessage("http").All()
	require.Len(t, access, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), access[0].ContextMap()["status"])
	assert.Equal(t, "/boom", access[0].ContextMap()["path"])
	assert.Len(t, logs.FilterMessage("panic").All(), 1)
}
