package saving

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

type SavingServiceInterface interface {
	Create(saving *Saving) error
	List(userID int, filter Filter) ([]*Saving, error)
	Update(saving *Saving) error
	Delete(id, userID int) error
	TotalByUser(userID int) (float64, error)
}

type SavingService struct {
	repo  SavingRepositoryInterface
	db    *sql.DB
	cache *cache.RecordCache
}

func NewSavingService(repo SavingRepositoryInterface, db *sql.DB, redisClient *redis.Client) SavingServiceInterface {
	return &SavingService{
		repo:  repo,
		db:    db,
		cache: cache.NewRecordCache(redisClient),
	}
}

func (s *SavingService) Create(saving *Saving) error {
	if err := validate(saving); err != nil {
		return err
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		_, err := s.repo.Create(tx, saving)
		return err
	}); err != nil {
		return err
	}

	s.invalidate(saving.UserID)
	return nil
}

// List returns the user's savings matching the filter, newest first.
// Unfiltered listings are served from cache when possible.
func (s *SavingService) List(userID int, filter Filter) ([]*Saving, error) {
	if !filter.Empty() {
		return s.repo.ListByUser(s.db, userID, filter)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cacheKey := cache.UserSavingsKey(userID)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var savings []*Saving
		if json.Unmarshal(cachedData, &savings) == nil {
			observability.GlobalMetrics.CacheHitsTotal.WithLabelValues("savings").Inc()
			return savings, nil
		}
	}
	observability.GlobalMetrics.CacheMissesTotal.WithLabelValues("savings").Inc()

	savings, err := s.repo.ListByUser(s.db, userID, filter)
	if err != nil {
		return nil, err
	}

	// Set cache (ignore error, a cache miss is not critical)
	if err := s.cache.Set(ctx, cacheKey, savings); err != nil {
		logrus.WithError(err).Warn("Failed to cache saving list")
	}

	return savings, nil
}

func (s *SavingService) Update(saving *Saving) error {
	if err := validate(saving); err != nil {
		return err
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Update(tx, saving)
	}); err != nil {
		return err
	}

	s.invalidate(saving.UserID)
	return nil
}

func (s *SavingService) Delete(id, userID int) error {
	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Delete(tx, id, userID)
	}); err != nil {
		return err
	}

	s.invalidate(userID)
	return nil
}

func (s *SavingService) TotalByUser(userID int) (float64, error) {
	return s.repo.TotalByUser(s.db, userID)
}

func validate(saving *Saving) error {
	if saving.UserID == 0 || saving.Date.IsZero() {
		return fmt.Errorf("invalid saving payload")
	}
	if saving.Amount <= 0 {
		return fmt.Errorf("amount must be a positive number")
	}
	return nil
}

func (s *SavingService) invalidate(userID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	keys := []string{cache.UserSavingsKey(userID), cache.UserSummaryKey(userID)}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate saving cache")
	}
}
