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
)

const (
	LocationCacheExpiry = 7 * 24 * time.Hour
)

type LocationRepository struct {
	cache *cache.Cache
}

func NewLocationRepository(cache *cache.Cache) *LocationRepository {
	return &LocationRepository{cache: cache}
}

func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	lockKey := fmt.Sprintf("location_lock:%s", location.Name)
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

	var existing models.Location
	if err := database.DB.Where("name = ?", location.Name).First(&existing).Error; err == nil {
		return fmt.Errorf("location with the same name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing location: %w", err)
	}

	err = database.DB.Create(location).Error
	if err != nil {
		return fmt.Errorf("failed to create location: %w", err)
	}
	return r.cache.DeleteAll(ctx, "locations_cache")
}

func (r *LocationRepository) GetAll(ctx context.Context) ([]models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "locations_cache"
	cachedLocations, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var locations []models.Location
		if err := json.Unmarshal([]byte(cachedLocations), &locations); err == nil {
			return locations, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get locations from cache: %v", err)
	}

	var locations []models.Location
	err = database.DB.Order("name ASC").Find(&locations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all locations: %w", err)
	}

	locationsJSON, err := json.Marshal(locations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal locations: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, locationsJSON, LocationCacheExpiry); err != nil {
		log.Printf("Failed to set locations in cache: %v", err)
	}

	return locations, nil
}

// FindByName looks up a location by exact name. Returns (nil, nil) when no
// location matches.
func (r *LocationRepository) FindByName(ctx context.Context, name string) (*models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var location models.Location
	err := database.DB.WithContext(ctx).Where("name = ?", name).First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find location by name: %w", err)
	}
	return &location, nil
}

func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	err := database.DB.Delete(&models.Location{}, "location_id = ?", id).Error
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return r.cache.DeleteAll(ctx, "locations_cache")
}
