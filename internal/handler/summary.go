package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/cache"
	"expense_tracker/internal/expense"
	"expense_tracker/internal/observability"
	"expense_tracker/internal/saving"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Summary holds a user's running totals.
type Summary struct {
	TotalExpenses float64 `json:"totalExpenses"`
	TotalSavings  float64 `json:"totalSavings"`
	Net           float64 `json:"net"`
}

// SummaryHandler serves GET /api/v1/summary. Totals are cached per user
// and invalidated by the expense/saving services on every mutation.
func SummaryHandler(
	expenseService expense.ExpenseServiceInterface,
	savingService saving.SavingServiceInterface,
	redisClient *redis.Client,
) gin.HandlerFunc {
	summaryCache := cache.NewRecordCache(redisClient)

	return func(c *gin.Context) {
		userID, err := auth.GetUserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		cacheKey := cache.UserSummaryKey(userID)
		if data, err := summaryCache.Get(ctx, cacheKey); err == nil && data != nil {
			var summary Summary
			if json.Unmarshal(data, &summary) == nil {
				observability.GlobalMetrics.CacheHitsTotal.WithLabelValues("summary").Inc()
				c.JSON(http.StatusOK, summary)
				return
			}
		}
		observability.GlobalMetrics.CacheMissesTotal.WithLabelValues("summary").Inc()

		totalExpenses, err := expenseService.TotalByUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
			return
		}

		totalSavings, err := savingService.TotalByUser(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
			return
		}

		summary := Summary{
			TotalExpenses: totalExpenses,
			TotalSavings:  totalSavings,
			Net:           totalSavings - totalExpenses,
		}

		if err := summaryCache.Set(ctx, cacheKey, summary); err != nil {
			logrus.WithError(err).Warn("Failed to cache summary")
		}

		c.JSON(http.StatusOK, summary)
	}
}
