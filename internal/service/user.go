package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"autocare/internal/domain"
	"autocare/internal/repository"
	"autocare/pkg/auth"
	"autocare/pkg/validator"
)

type UserServiceImpl struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserServiceImpl) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	if !validator.ValidateEmail(dto.Email) {
		return 0, fmt.Errorf("%w: неверный формат email", domain.ErrValidation)
	}
	if !validator.ValidatePhone(dto.Phone) {
		return 0, fmt.Errorf("%w: неверный формат телефона", domain.ErrValidation)
	}
	if !validator.ValidatePassword(dto.Password) {
		return 0, fmt.Errorf("%w: пароль должен содержать не менее 6 символов", domain.ErrValidation)
	}

	passwordHash, err := auth.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("ошибка при хешировании пароля", zap.Error(err))
		return 0, err
	}
	dto.Password = passwordHash

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("ошибка при создании пользователя", zap.Error(err))
		return 0, err
	}

	return id, nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	if dto.Email != nil && !validator.ValidateEmail(*dto.Email) {
		return fmt.Errorf("%w: неверный формат email", domain.ErrValidation)
	}
	if dto.Phone != nil && !validator.ValidatePhone(*dto.Phone) {
		return fmt.Errorf("%w: неверный формат телефона", domain.ErrValidation)
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления пользователя", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *UserServiceImpl) UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := auth.VerifyPassword(dto.OldPassword, user.PasswordHash)
	if err != nil {
		s.logger.Error("ошибка проверки пароля", zap.Error(err))
		return err
	}
	if !ok {
		return fmt.Errorf("%w: неверный текущий пароль", domain.ErrForbidden)
	}

	if !validator.ValidatePassword(dto.NewPassword) {
		return fmt.Errorf("%w: пароль должен содержать не менее 6 символов", domain.ErrValidation)
	}

	passwordHash, err := auth.HashPassword(dto.NewPassword)
	if err != nil {
		s.logger.Error("ошибка при хешировании пароля", zap.Error(err))
		return err
	}

	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func (s *UserServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления пользователя", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *UserServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка пользователей", zap.Error(err))
		return nil, err
	}
	return users, nil
}
