package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type redisStub struct {
	data map[string]string
}

func newRedisStub() *redisStub {
	return &redisStub{data: make(map[string]string)}
}

func (s *redisStub) install(t *testing.T) {
	t.Helper()
	origGet, origSet, origSetNX, origDel := redisGet, redisSet, redisSetNX, redisDel
	redisGet = func(_ context.Context, key string) (string, error) {
		if v, ok := s.data[key]; ok {
			return v, nil
		}
		return "", errors.New("redis: nil")
	}
	redisSet = func(_ context.Context, key string, value interface{}, _ time.Duration) error {
		s.data[key] = value.(string)
		return nil
	}
	redisSetNX = func(_ context.Context, key string, value interface{}, _ time.Duration) (bool, error) {
		if _, ok := s.data[key]; ok {
			return false, nil
		}
		s.data[key] = value.(string)
		return true, nil
	}
	redisDel = func(_ context.Context, key string) error {
		delete(s.data, key)
		return nil
	}
	t.Cleanup(func() {
		redisGet, redisSet, redisSetNX, redisDel = origGet, origSet, origSetNX, origDel
	})
}

func newIdempotencyRouter(status int, body string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	calls := 0
	r.POST("/pay", IdempotencyMiddleware(), func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"body": body, "calls": calls})
	})
	return r
}

func post(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	stub := newRedisStub()
	stub.install(t)
	r := newIdempotencyRouter(http.StatusOK, "ok")

	w1 := post(r, "")
	w2 := post(r, "")
	require.Equal(t, http.StatusOK, w1.Code)
	require.Equal(t, http.StatusOK, w2.Code)
	require.NotEqual(t, w1.Body.String(), w2.Body.String())
	require.Empty(t, stub.data)
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	stub := newRedisStub()
	stub.install(t)
	r := newIdempotencyRouter(http.StatusOK, "ok")

	w1 := post(r, "key1")
	require.Equal(t, http.StatusOK, w1.Code)
	require.Empty(t, w1.Header().Get("X-Idempotency-Hit"))

	w2 := post(r, "key1")
	require.Equal(t, http.StatusOK, w2.Code)
	require.Equal(t, "true", w2.Header().Get("X-Idempotency-Hit"))
	// same bytes, handler not invoked again
	require.Equal(t, w1.Body.String(), w2.Body.String())
}

func TestIdempotency_ConflictWhileProcessing(t *testing.T) {
	stub := newRedisStub()
	stub.install(t)
	r := newIdempotencyRouter(http.StatusOK, "ok")

	stub.data["idempotency:/pay:key1"] = "processing"
	w := post(r, "key1")
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotency_ErrorResponsesNotCached(t *testing.T) {
	stub := newRedisStub()
	stub.install(t)
	r := newIdempotencyRouter(http.StatusBadRequest, "bad")

	w1 := post(r, "key1")
	require.Equal(t, http.StatusBadRequest, w1.Code)
	// lock released so the client may retry
	require.Empty(t, stub.data)

	w2 := post(r, "key1")
	require.Equal(t, http.StatusBadRequest, w2.Code)
	require.Empty(t, w2.Header().Get("X-Idempotency-Hit"))
}

func TestIdempotency_RedisDownFailsOpen(t *testing.T) {
	origGet, origSetNX := redisGet, redisSetNX
	redisGet = func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	}
	t.Cleanup(func() { redisGet, redisSetNX = origGet, origSetNX })

	r := newIdempotencyRouter(http.StatusOK, "ok")
	w := post(r, "key1")
	require.Equal(t, http.StatusOK, w.Code)
}
