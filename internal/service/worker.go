package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"autocare/internal/domain"
	"autocare/internal/repository"
	"autocare/internal/storage"
	"autocare/pkg/validator"
)

type WorkerServiceImpl struct {
	repo        repository.WorkerRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewWorkerService(repo repository.WorkerRepository, fileStorage storage.FileStorage, logger *zap.Logger) *WorkerServiceImpl {
	return &WorkerServiceImpl{
		repo:        repo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *WorkerServiceImpl) Create(ctx context.Context, dto domain.CreateWorkerDTO) (int64, error) {
	if !validator.ValidateEmail(dto.Email) {
		return 0, fmt.Errorf("%w: неверный формат email", domain.ErrValidation)
	}
	if !validator.ValidatePhone(dto.PhoneNumber) {
		return 0, fmt.Errorf("%w: неверный формат телефона", domain.ErrValidation)
	}

	hireDate, err := time.Parse("2006-01-02", dto.HireDate)
	if err != nil {
		return 0, fmt.Errorf("%w: неверный формат даты найма, ожидается YYYY-MM-DD", domain.ErrValidation)
	}

	id, err := s.repo.Create(ctx, dto, hireDate)
	if err != nil {
		s.logger.Error("ошибка создания механика", zap.Error(err))
		return 0, err
	}

	return id, nil
}

func (s *WorkerServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	worker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения механика", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return worker, nil
}

func (s *WorkerServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.Worker, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *WorkerServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateWorkerDTO) error {
	if dto.Email != nil && !validator.ValidateEmail(*dto.Email) {
		return fmt.Errorf("%w: неверный формат email", domain.ErrValidation)
	}
	if dto.PhoneNumber != nil && !validator.ValidatePhone(*dto.PhoneNumber) {
		return fmt.Errorf("%w: неверный формат телефона", domain.ErrValidation)
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления механика", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *WorkerServiceImpl) Delete(ctx context.Context, id int64) error {
	worker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления механика", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if worker.PhotoURL != nil && s.fileStorage != nil {
		if err := s.fileStorage.DeleteFile(ctx, *worker.PhotoURL); err != nil {
			s.logger.Warn("не удалось удалить фото механика", zap.Int64("id", id), zap.Error(err))
		}
	}

	return nil
}

func (s *WorkerServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.Worker, int, error) {
	workers, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка механиков", zap.Error(err))
		return nil, 0, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("ошибка получения количества механиков", zap.Error(err))
		return workers, 0, nil
	}

	return workers, count, nil
}

// SearchByName возвращает всех механиков, чьё имя содержит подстроку.
// Разрешение неоднозначности остаётся за вызывающим: назначение на заявку
// принимает только стабильный id.
func (s *WorkerServiceImpl) SearchByName(ctx context.Context, name string) ([]domain.Worker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: пустая строка поиска", domain.ErrValidation)
	}

	workers, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		s.logger.Error("ошибка поиска механиков", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	return workers, nil
}

func (s *WorkerServiceImpl) UploadPhoto(ctx context.Context, id int64, photo []byte, filename string) (string, error) {
	if s.fileStorage == nil {
		return "", fmt.Errorf("%w: файловое хранилище не настроено", domain.ErrInvalidState)
	}

	worker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	photoURL, err := s.fileStorage.UploadFile(ctx, photo, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки фото механика", zap.Int64("id", id), zap.Error(err))
		return "", fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	if err := s.repo.UpdatePhoto(ctx, id, &photoURL); err != nil {
		return "", err
	}

	if worker.PhotoURL != nil {
		if err := s.fileStorage.DeleteFile(ctx, *worker.PhotoURL); err != nil {
			s.logger.Warn("не удалось удалить старое фото механика", zap.Int64("id", id), zap.Error(err))
		}
	}

	return photoURL, nil
}

func (s *WorkerServiceImpl) DeletePhoto(ctx context.Context, id int64) error {
	if s.fileStorage == nil {
		return fmt.Errorf("%w: файловое хранилище не настроено", domain.ErrInvalidState)
	}

	worker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if worker.PhotoURL == nil {
		return fmt.Errorf("%w: у механика нет фото", domain.ErrInvalidState)
	}

	if err := s.fileStorage.DeleteFile(ctx, *worker.PhotoURL); err != nil {
		s.logger.Warn("не удалось удалить фото механика из хранилища", zap.Int64("id", id), zap.Error(err))
	}

	return s.repo.UpdatePhoto(ctx, id, nil)
}
