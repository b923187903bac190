package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"autocare/internal/domain"
	"autocare/internal/repository"
)

type ServiceTypeServiceImpl struct {
	repo   repository.ServiceTypeRepository
	logger *zap.Logger
}

func NewServiceTypeService(repo repository.ServiceTypeRepository, logger *zap.Logger) *ServiceTypeServiceImpl {
	return &ServiceTypeServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceTypeServiceImpl) Create(ctx context.Context, dto domain.CreateServiceTypeDTO) (int64, error) {
	if dto.EstimatedTime < 0 {
		return 0, fmt.Errorf("%w: оценка времени не может быть отрицательной", domain.ErrValidation)
	}

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("ошибка создания вида услуги", zap.Error(err))
		return 0, err
	}

	return id, nil
}

func (s *ServiceTypeServiceImpl) GetByID(ctx context.Context, id int64) (*domain.ServiceType, error) {
	serviceType, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения вида услуги", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return serviceType, nil
}

func (s *ServiceTypeServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateServiceTypeDTO) error {
	if dto.EstimatedTime != nil && *dto.EstimatedTime < 0 {
		return fmt.Errorf("%w: оценка времени не может быть отрицательной", domain.ErrValidation)
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления вида услуги", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *ServiceTypeServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления вида услуги", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *ServiceTypeServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.ServiceType, int, error) {
	serviceTypes, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка видов услуг", zap.Error(err))
		return nil, 0, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("ошибка получения количества видов услуг", zap.Error(err))
		return serviceTypes, 0, nil
	}

	return serviceTypes, count, nil
}
