package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func staticChecker(status Status, message string) Checker {
	return NewCustomChecker(func(ctx context.Context) (Status, string, interface{}) {
		return status, message, nil
	})
}

func TestHealthCheck_Check_NoCheckers(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())

	response := hc.Check(context.Background())

	assert.Equal(t, StatusHealthy, response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Empty(t, response.Checks)
}

func TestHealthCheck_Check_WorstStatusWins(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	hc.Register("database", staticChecker(StatusHealthy, "ok"))
	hc.Register("cache", staticChecker(StatusDegraded, "slow"))

	response := hc.Check(context.Background())
	assert.Equal(t, StatusDegraded, response.Status)
	assert.Len(t, response.Checks, 2)

	hc.Register("broker", staticChecker(StatusUnhealthy, "down"))
	response = hc.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, response.Status)
	assert.Len(t, response.Checks, 3)
}

func TestHealthCheck_Check_UsesCache(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	calls := 0
	hc.Register("counter", NewCustomChecker(func(ctx context.Context) (Status, string, interface{}) {
		calls++
		return StatusHealthy, "", nil
	}))

	hc.Check(context.Background())
	hc.Check(context.Background())
	assert.Equal(t, 1, calls)

	hc.SetCacheTTL(0)
	hc.Check(context.Background())
	assert.Equal(t, 2, calls)
}

func TestReadinessHandler(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	hc.SetCacheTTL(0)

	rec := httptest.NewRecorder()
	hc.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	hc.Register("database", staticChecker(StatusUnhealthy, "connection refused"))
	rec = httptest.NewRecorder()
	hc.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body["status"])
}

func TestLivenessHandler(t *testing.T) {
	hc := New("1.0.0", zap.NewNop())
	hc.Register("database", staticChecker(StatusUnhealthy, "down"))

	rec := httptest.NewRecorder()
	hc.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestDatabaseChecker_SQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	check := NewDatabaseChecker(sqlDB).Check(context.Background())

	assert.Equal(t, StatusHealthy, check.Status)
	assert.NotNil(t, check.Metadata)
}

func TestDatabaseChecker_Closed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	check := NewDatabaseChecker(sqlDB).Check(context.Background())

	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.NotEmpty(t, check.Message)
}

func TestRedisChecker_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	check := NewRedisChecker(client).Check(context.Background())

	assert.Equal(t, StatusUnhealthy, check.Status)
}
