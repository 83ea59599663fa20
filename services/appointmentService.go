package services

import (
	"TheraBill/models"
	"TheraBill/repositories"
	"context"
)

type AppointmentService struct {
	repository *repositories.AppointmentRepository
}

func NewAppointmentService(repository *repositories.AppointmentRepository) *AppointmentService {
	return &AppointmentService{repository: repository}
}

func (s *AppointmentService) Create(ctx context.Context, appointment *models.Appointment) error {
	return s.repository.Create(ctx, appointment)
}

func (s *AppointmentService) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *AppointmentService) GetAll(ctx context.Context) ([]models.Appointment, error) {
	return s.repository.GetAll(ctx)
}

func (s *AppointmentService) GetByPatient(ctx context.Context, patientID int64) ([]models.Appointment, error) {
	return s.repository.GetByPatient(ctx, patientID)
}

func (s *AppointmentService) Update(ctx context.Context, appointment *models.Appointment) error {
	return s.repository.Update(ctx, appointment)
}

func (s *AppointmentService) Delete(ctx context.Context, id int64) error {
	return s.repository.Delete(ctx, id)
}
