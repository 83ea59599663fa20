package repositories

import (
	"TheraBill/cache"
	"TheraBill/database"
	"TheraBill/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ProviderCacheExpiry = 7 * 24 * time.Hour
)

type ProviderRepository struct {
	cache *cache.Cache
}

func NewProviderRepository(cache *cache.Cache) *ProviderRepository {
	return &ProviderRepository{cache: cache}
}

func (r *ProviderRepository) Create(ctx context.Context, provider *models.Provider) error {
	lockKey := fmt.Sprintf("provider_lock:%s", provider.Name)
	lockValue := uuid.New().String() // Generate a unique lock value

	// Retry logic for acquiring lock
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second) // Shortened expiry
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	// Check if a provider with the same name already exists
	var existing models.Provider
	if err := database.DB.Where("name = ?", provider.Name).First(&existing).Error; err == nil {
		return fmt.Errorf("provider with the same name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing provider: %w", err)
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(provider).Error; err != nil {
			return fmt.Errorf("failed to create provider: %w", err)
		}
		if err := r.cache.Delete(ctx, r.getProviderCacheKey(provider.ID)); err != nil {
			return fmt.Errorf("failed to delete provider cache: %w", err)
		}
		return r.cache.DeleteAll(ctx, "providers_cache")
	})
}

func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getProviderCacheKey(id)
	cachedProvider, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var provider models.Provider
		if err := json.Unmarshal([]byte(cachedProvider), &provider); err == nil {
			return &provider, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get provider from cache: %v", err)
	}

	var provider models.Provider
	err = database.DB.First(&provider, "provider_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}

	providerJSON, err := json.Marshal(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal provider: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, providerJSON, ProviderCacheExpiry); err != nil {
		log.Printf("Failed to set provider in cache: %v", err)
	}

	return &provider, nil
}

func (r *ProviderRepository) GetAll(ctx context.Context) ([]models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "providers_cache"
	cachedProviders, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var providers []models.Provider
		if err := json.Unmarshal([]byte(cachedProviders), &providers); err == nil {
			return providers, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get providers from cache: %v", err)
	}

	var providers []models.Provider
	err = database.DB.Order("name ASC").Find(&providers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all providers: %w", err)
	}

	providersJSON, err := json.Marshal(providers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal providers: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, providersJSON, ProviderCacheExpiry); err != nil {
		log.Printf("Failed to set providers in cache: %v", err)
	}

	return providers, nil
}

// FindByName looks up a provider by exact name. Returns (nil, nil) when no
// provider matches.
func (r *ProviderRepository) FindByName(ctx context.Context, name string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	err := database.DB.WithContext(ctx).Where("name = ?", name).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find provider by name: %w", err)
	}
	return &provider, nil
}

// FindByCode looks up a provider by practitioner code. Returns (nil, nil)
// when no provider matches.
func (r *ProviderRepository) FindByCode(ctx context.Context, code string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	err := database.DB.WithContext(ctx).Where("code = ?", code).First(&provider).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find provider by code: %w", err)
	}
	return &provider, nil
}

func (r *ProviderRepository) Update(ctx context.Context, provider *models.Provider) error {
	lockKey := fmt.Sprintf("provider_lock:%d", provider.ID)
	lockValue := uuid.New().String() // Generate a unique lock value
	// Retry logic for acquiring lock
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "code", "address", "phone", "fax"}),
	}).Save(provider).Error
	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}

	if err := r.cache.Delete(ctx, r.getProviderCacheKey(provider.ID)); err != nil {
		return fmt.Errorf("failed to delete provider cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "providers_cache")
}

func (r *ProviderRepository) Delete(ctx context.Context, id int64) error {
	lockKey := fmt.Sprintf("provider_lock:%d", id)
	lockValue := uuid.New().String() // Generate a unique lock value
	// Retry logic for acquiring lock
	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second) // Shortened expiry
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	err = database.DB.Delete(&models.Provider{}, "provider_id = ?", id).Error
	if err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}
	if err := r.cache.Delete(ctx, r.getProviderCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete provider cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "providers_cache")
}

func (r *ProviderRepository) getProviderCacheKey(id int64) string {
	return fmt.Sprintf("provider_cache:%d", id)
}
