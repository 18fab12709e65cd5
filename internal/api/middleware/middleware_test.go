package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock Locker ──

type mockLocker struct {
	mu       sync.Mutex
	held     string
	lockErr  error
	unlocked []string
}

func (m *mockLocker) TryLock(_ context.Context, _, token string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lockErr != nil {
		return false, m.lockErr
	}
	if m.held != "" {
		return false, nil
	}
	m.held = token
	return true, nil
}

func (m *mockLocker) Unlock(_ context.Context, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held == token {
		m.held = ""
	}
	m.unlocked = append(m.unlocked, token)
	return nil
}

// blockingRouter 写接口在 release 关闭前一直阻塞，entered 在进入处理器时关闭
func blockingRouter(locker Locker) (*gin.Engine, chan struct{}, chan struct{}) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	r := gin.New()
	r.POST("/mutate", MutationLock(locker, zap.NewNop()), func(c *gin.Context) {
		once.Do(func() { close(entered) })
		<-release
		c.Status(http.StatusOK)
	})
	return r, entered, release
}

func assertExclusive(t *testing.T, r *gin.Engine, entered, release chan struct{}) {
	t.Helper()

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		r.ServeHTTP(first, httptest.NewRequest("POST", "/mutate", nil))
		close(done)
	}()
	<-entered

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest("POST", "/mutate", nil))
	if second.Code != http.StatusConflict {
		t.Errorf("expected 409 while another mutation runs, got %d", second.Code)
	}
	if !strings.Contains(second.Body.String(), "17100") {
		t.Errorf("expected code 17100, got %s", second.Body.String())
	}

	close(release)
	<-done
	if first.Code != http.StatusOK {
		t.Errorf("expected first mutation 200, got %d", first.Code)
	}

	third := httptest.NewRecorder()
	r.ServeHTTP(third, httptest.NewRequest("POST", "/mutate", nil))
	if third.Code != http.StatusOK {
		t.Errorf("lock should be released, got %d", third.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// MutationLock
// ═══════════════════════════════════════════════════════════

func TestMutationLock_LocalFallback(t *testing.T) {
	r, entered, release := blockingRouter(nil)
	assertExclusive(t, r, entered, release)
}

func TestMutationLock_Distributed(t *testing.T) {
	locker := &mockLocker{}
	r, entered, release := blockingRouter(locker)
	assertExclusive(t, r, entered, release)

	if len(locker.unlocked) != 2 {
		t.Errorf("expected two unlocks, got %d", len(locker.unlocked))
	}
}

func TestMutationLock_RedisErrorDegrades(t *testing.T) {
	locker := &mockLocker{lockErr: errors.New("redis: i/o timeout")}
	r, entered, release := blockingRouter(locker)
	assertExclusive(t, r, entered, release)
}

// ═══════════════════════════════════════════════════════════
// RequestID / BodyLimit
// ═══════════════════════════════════════════════════════════

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(requestIDHeader, "client-abc")
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "client-abc" || w.Body.String() != "client-abc" {
		t.Errorf("expected client id to be kept, got header %q body %q", got, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", requestIDMaxLen+1))
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); len(got) != 36 {
		t.Errorf("expected generated uuid, got %q", got)
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.POST("/override", BodyLimit(16), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/override", strings.NewReader(`{"class_id":1}`)))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for small body, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/override", strings.NewReader(strings.Repeat("x", 64))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}
