package services

import (
	"TheraBill/models"
	"TheraBill/repositories"
	"context"
)

type ProviderService struct {
	repository *repositories.ProviderRepository
}

func NewProviderService(repository *repositories.ProviderRepository) *ProviderService {
	return &ProviderService{repository: repository}
}

func (s *ProviderService) Create(ctx context.Context, provider *models.Provider) error {
	return s.repository.Create(ctx, provider)
}

func (s *ProviderService) GetByID(ctx context.Context, id int64) (*models.Provider, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *ProviderService) GetAll(ctx context.Context) ([]models.Provider, error) {
	return s.repository.GetAll(ctx)
}

func (s *ProviderService) Update(ctx context.Context, provider *models.Provider) error {
	return s.repository.Update(ctx, provider)
}

func (s *ProviderService) Delete(ctx context.Context, id int64) error {
	return s.repository.Delete(ctx, id)
}
