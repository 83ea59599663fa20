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
	"gorm.io/gorm"
)

const (
	AuthorizationCacheExpiry = 7 * 24 * time.Hour
)

type AuthorizationRepository struct {
	cache *cache.Cache
}

func NewAuthorizationRepository(cache *cache.Cache) *AuthorizationRepository {
	return &AuthorizationRepository{cache: cache}
}

// Create inserts a new authorization row. Repeated document uploads
// deliberately produce separate rows, so there is no duplicate check here.
func (r *AuthorizationRepository) Create(ctx context.Context, authorization *models.Authorization) error {
	err := database.DB.WithContext(ctx).Create(authorization).Error
	if err != nil {
		return fmt.Errorf("failed to create authorization: %w", err)
	}
	if err := r.cache.DeleteAll(ctx, "authorizations_cache"); err != nil {
		return fmt.Errorf("failed to delete all authorizations cache: %w", err)
	}
	// A new authorization changes the patient's detail view as well
	if err := r.cache.Delete(ctx, fmt.Sprintf("patient_cache:%d", authorization.PatientID)); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "patients_cache")
}

func (r *AuthorizationRepository) GetByID(ctx context.Context, id int64) (*models.Authorization, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getAuthorizationCacheKey(id)
	cachedAuthorization, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var authorization models.Authorization
		if err := json.Unmarshal([]byte(cachedAuthorization), &authorization); err == nil {
			return &authorization, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get authorization from cache: %v", err)
	}

	var authorization models.Authorization
	err = database.DB.First(&authorization, "authorization_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get authorization: %w", err)
	}

	authorizationJSON, err := json.Marshal(authorization)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authorization: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, authorizationJSON, AuthorizationCacheExpiry); err != nil {
		log.Printf("Failed to set authorization in cache: %v", err)
	}

	return &authorization, nil
}

func (r *AuthorizationRepository) GetAll(ctx context.Context) ([]models.Authorization, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "authorizations_cache"
	cachedAuthorizations, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var authorizations []models.Authorization
		if err := json.Unmarshal([]byte(cachedAuthorizations), &authorizations); err == nil {
			return authorizations, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get authorizations from cache: %v", err)
	}

	var authorizations []models.Authorization
	err = database.DB.Order("created_at DESC").Find(&authorizations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all authorizations: %w", err)
	}

	authorizationsJSON, err := json.Marshal(authorizations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal authorizations: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, authorizationsJSON, AuthorizationCacheExpiry); err != nil {
		log.Printf("Failed to set authorizations in cache: %v", err)
	}

	return authorizations, nil
}

// GetByPatient lists a patient's authorizations, most recent first.
func (r *AuthorizationRepository) GetByPatient(ctx context.Context, patientID int64) ([]models.Authorization, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var authorizations []models.Authorization
	err := database.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&authorizations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get authorizations for patient: %w", err)
	}
	return authorizations, nil
}

func (r *AuthorizationRepository) Update(ctx context.Context, authorization *models.Authorization) error {
	err := database.DB.WithContext(ctx).Save(authorization).Error
	if err != nil {
		return fmt.Errorf("failed to update authorization: %w", err)
	}
	if err := r.cache.Delete(ctx, r.getAuthorizationCacheKey(authorization.ID)); err != nil {
		return fmt.Errorf("failed to delete authorization cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "authorizations_cache")
}

func (r *AuthorizationRepository) Delete(ctx context.Context, id int64) error {
	err := database.DB.WithContext(ctx).Delete(&models.Authorization{}, "authorization_id = ?", id).Error
	if err != nil {
		return fmt.Errorf("failed to delete authorization: %w", err)
	}
	if err := r.cache.Delete(ctx, r.getAuthorizationCacheKey(id)); err != nil {
		return fmt.Errorf("failed to delete authorization cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "authorizations_cache")
}

func (r *AuthorizationRepository) DeleteAllCache(ctx context.Context) error {
	return r.cache.DeleteAll(ctx, "authorizations_cache")
}

func (r *AuthorizationRepository) getAuthorizationCacheKey(id int64) string {
	return fmt.Sprintf("authorization_cache:%d", id)
}
