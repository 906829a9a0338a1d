package expense

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"expense_tracker/internal/cache"
	"expense_tracker/internal/observability"
	"expense_tracker/internal/utils"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type ExpenseServiceInterface interface {
	Create(expense *Expense) error
	List(userID int, filter Filter) ([]*Expense, error)
	Update(expense *Expense) error
	Delete(id, userID int) error
	TotalByUser(userID int) (float64, error)
}

type ExpenseService struct {
	repo  ExpenseRepositoryInterface
	db    *sql.DB
	cache *cache.RecordCache
}

func NewExpenseService(repo ExpenseRepositoryInterface, db *sql.DB, redisClient *redis.Client) ExpenseServiceInterface {
	return &ExpenseService{
		repo:  repo,
		db:    db,
		cache: cache.NewRecordCache(redisClient),
	}
}

func (s *ExpenseService) Create(expense *Expense) error {
	if err := validate(expense); err != nil {
		return err
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		_, err := s.repo.Create(tx, expense)
		return err
	}); err != nil {
		return err
	}

	s.invalidate(expense.UserID)
	return nil
}

// List returns the user's expenses matching the filter, newest first.
// Unfiltered listings are served from cache when possible.
func (s *ExpenseService) List(userID int, filter Filter) ([]*Expense, error) {
	if !filter.Empty() {
		return s.repo.ListByUser(s.db, userID, filter)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cacheKey := cache.UserExpensesKey(userID)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var expenses []*Expense
		if json.Unmarshal(cachedData, &expenses) == nil {
			observability.GlobalMetrics.CacheHitsTotal.WithLabelValues("expenses").Inc()
			return expenses, nil
		}
	}
	observability.GlobalMetrics.CacheMissesTotal.WithLabelValues("expenses").Inc()

	expenses, err := s.repo.ListByUser(s.db, userID, filter)
	if err != nil {
		return nil, err
	}

	// Set cache (ignore error, a cache miss is not critical)
	if err := s.cache.Set(ctx, cacheKey, expenses); err != nil {
		logrus.WithError(err).Warn("Failed to cache expense list")
	}

	return expenses, nil
}

func (s *ExpenseService) Update(expense *Expense) error {
	if err := validate(expense); err != nil {
		return err
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Update(tx, expense)
	}); err != nil {
		return err
	}

	s.invalidate(expense.UserID)
	return nil
}

func (s *ExpenseService) Delete(id, userID int) error {
	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Delete(tx, id, userID)
	}); err != nil {
		return err
	}

	s.invalidate(userID)
	return nil
}

func (s *ExpenseService) TotalByUser(userID int) (float64, error) {
	return s.repo.TotalByUser(s.db, userID)
}

func validate(expense *Expense) error {
	if expense.UserID == 0 || expense.Date.IsZero() {
		return fmt.Errorf("invalid expense payload")
	}
	if expense.Amount <= 0 {
		return fmt.Errorf("amount must be a positive number")
	}
	if !ValidCategory(expense.Category) {
		return fmt.Errorf("invalid category: %q", expense.Category)
	}
	return nil
}

func (s *ExpenseService) invalidate(userID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	keys := []string{cache.UserExpensesKey(userID), cache.UserSummaryKey(userID)}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate expense cache")
	}
}
