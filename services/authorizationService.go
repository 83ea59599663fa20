package services

import (
	"TheraBill/models"
	"TheraBill/repositories"
	"context"
)

type AuthorizationService struct {
	repository *repositories.AuthorizationRepository
}

func NewAuthorizationService(repository *repositories.AuthorizationRepository) *AuthorizationService {
	return &AuthorizationService{repository: repository}
}

func (s *AuthorizationService) Create(ctx context.Context, authorization *models.Authorization) error {
	return s.repository.Create(ctx, authorization)
}

func (s *AuthorizationService) GetByID(ctx context.Context, id int64) (*models.Authorization, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *AuthorizationService) GetAll(ctx context.Context) ([]models.Authorization, error) {
	return s.repository.GetAll(ctx)
}

func (s *AuthorizationService) GetByPatient(ctx context.Context, patientID int64) ([]models.Authorization, error) {
	return s.repository.GetByPatient(ctx, patientID)
}

func (s *AuthorizationService) Update(ctx context.Context, authorization *models.Authorization) error {
	return s.repository.Update(ctx, authorization)
}

func (s *AuthorizationService) Delete(ctx context.Context, id int64) error {
	return s.repository.Delete(ctx, id)
}
