package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expense_tracker/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

// setupTestRedis creates a Redis client for testing
// Make sure Redis is running on localhost:6379
func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     "localhost:6379",
		Password: "",
		DB:       1, // Use DB 1 for tests (not default DB 0)
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis not available, skipping test")
	}

	client.FlushDB(ctx)

	return client
}

// setupRateLimitedRouter creates a test Gin router with the rate limiter
// behind a stubbed session gateway.
func setupRateLimitedRouter(redisClient *redis.Client, config *RateLimiterConfig, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if userID != 0 {
		router.Use(func(c *gin.Context) {
			c.Set(auth.UserIDKey, userID)
			c.Next()
		})
	}

	router.Use(RateLimiterMiddleware(redisClient, config))

	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	return router
}

func TestRateLimiter_AllowRequestsUnderLimit(t *testing.T) {
	redisClient := setupTestRedis(t)
	defer redisClient.Close()

	config := &RateLimiterConfig{Capacity: 5, RefillRate: 1.0}
	router := setupRateLimitedRouter(redisClient, config, 1)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "request %d should be allowed", i+1)
	}
}

func TestRateLimiter_BlockRequestsOverLimit(t *testing.T) {
	redisClient := setupTestRedis(t)
	defer redisClient.Close()

	config := &RateLimiterConfig{Capacity: 3, RefillRate: 0.1}
	router := setupRateLimitedRouter(redisClient, config, 2)

	// Exhaust the bucket
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	redisClient := setupTestRedis(t)
	defer redisClient.Close()

	config := &RateLimiterConfig{Capacity: 1, RefillRate: 1.0}
	router := setupRateLimitedRouter(redisClient, config, 3)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/test", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// One token refills after a second.
	time.Sleep(1100 * time.Millisecond)

	req = httptest.NewRequest("GET", "/test", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_FallsBackToClientIP(t *testing.T) {
	redisClient := setupTestRedis(t)
	defer redisClient.Close()

	config := &RateLimiterConfig{Capacity: 2, RefillRate: 0.1}
	// No stubbed user: buckets are keyed by client IP.
	router := setupRateLimitedRouter(redisClient, config, 0)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterKeys(t *testing.T) {
	assert.Equal(t, "rate_limiter:user:42", UserRateLimiterKey(42))
	assert.Equal(t, "rate_limiter:ip:10.0.0.1", IPRateLimiterKey("10.0.0.1"))
}
