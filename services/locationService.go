package services

import (
	"TheraBill/models"
	"TheraBill/repositories"
	"context"
)

type LocationService struct {
	repository *repositories.LocationRepository
}

func NewLocationService(repository *repositories.LocationRepository) *LocationService {
	return &LocationService{repository: repository}
}

func (s *LocationService) Create(ctx context.Context, location *models.Location) error {
	return s.repository.Create(ctx, location)
}

func (s *LocationService) GetAll(ctx context.Context) ([]models.Location, error) {
	return s.repository.GetAll(ctx)
}

func (s *LocationService) Delete(ctx context.Context, id int64) error {
	return s.repository.Delete(ctx, id)
}
