package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"autocare/internal/domain"
	"autocare/internal/repository"
	"autocare/pkg/validator"
)

type AppointmentServiceImpl struct {
	repo            repository.AppointmentRepository
	workerRepo      repository.WorkerRepository
	serviceTypeRepo repository.ServiceTypeRepository
	userRepo        repository.UserRepository
	logger          *zap.Logger
	now             func() time.Time
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	workerRepo repository.WorkerRepository,
	serviceTypeRepo repository.ServiceTypeRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:            repo,
		workerRepo:      workerRepo,
		serviceTypeRepo: serviceTypeRepo,
		userRepo:        userRepo,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *AppointmentServiceImpl) Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO) (int64, error) {
	if _, err := s.userRepo.GetByID(ctx, clientID); err != nil {
		s.logger.Error("клиент не найден при создании заявки", zap.Int64("clientID", clientID), zap.Error(err))
		return 0, err
	}

	if _, err := s.serviceTypeRepo.GetByID(ctx, dto.ServiceTypeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("%w: указан несуществующий вид услуги", domain.ErrValidation)
		}
		return 0, err
	}

	if !validator.ValidateYear(dto.Year, s.now()) {
		return 0, fmt.Errorf("%w: недопустимый год выпуска", domain.ErrValidation)
	}
	if dto.Mileage < 0 {
		return 0, fmt.Errorf("%w: пробег не может быть отрицательным", domain.ErrValidation)
	}

	plate := validator.NormalizePlate(dto.CarNumberPlate)
	if !validator.ValidatePlate(plate) {
		return 0, fmt.Errorf("%w: неверный формат госномера", domain.ErrValidation)
	}

	date, err := validator.ParseAppointmentDate(dto.AppointmentDate)
	if err != nil {
		return 0, fmt.Errorf("%w: неверный формат даты, ожидается YYYY-MM-DD", domain.ErrValidation)
	}
	if !validator.DateNotInPast(date, s.now()) {
		return 0, fmt.Errorf("%w: дата записи не может быть в прошлом", domain.ErrValidation)
	}

	if !validator.ValidateAppointmentTime(dto.AppointmentTime) {
		return 0, fmt.Errorf("%w: время должно быть в формате HH:MM в пределах %s-%s",
			domain.ErrValidation, validator.WorkDayOpen, validator.WorkDayClose)
	}

	count, err := s.repo.CountActiveByCar(ctx, plate, date, dto.AppointmentTime, 0)
	if err != nil {
		s.logger.Error("ошибка проверки занятости слота", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		return 0, fmt.Errorf("%w: на этот автомобиль уже есть заявка на выбранные дату и время", domain.ErrConflict)
	}

	id, err := s.repo.Create(ctx, clientID, dto, date, plate)
	if err != nil {
		s.logger.Error("ошибка создания заявки", zap.Error(err))
		return 0, err
	}

	return id, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения заявки", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("заявка для обновления не найдена", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if dto.ServiceTypeID != nil {
		if _, err := s.serviceTypeRepo.GetByID(ctx, *dto.ServiceTypeID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: указан несуществующий вид услуги", domain.ErrValidation)
			}
			return err
		}
	}

	if dto.Year != nil && !validator.ValidateYear(*dto.Year, s.now()) {
		return fmt.Errorf("%w: недопустимый год выпуска", domain.ErrValidation)
	}

	var plate *string
	if dto.CarNumberPlate != nil {
		normalized := validator.NormalizePlate(*dto.CarNumberPlate)
		if !validator.ValidatePlate(normalized) {
			return fmt.Errorf("%w: неверный формат госномера", domain.ErrValidation)
		}
		plate = &normalized
	}

	var date *time.Time
	if dto.AppointmentDate != nil {
		parsed, err := validator.ParseAppointmentDate(*dto.AppointmentDate)
		if err != nil {
			return fmt.Errorf("%w: неверный формат даты, ожидается YYYY-MM-DD", domain.ErrValidation)
		}
		if !validator.DateNotInPast(parsed, s.now()) {
			return fmt.Errorf("%w: дата записи не может быть в прошлом", domain.ErrValidation)
		}
		date = &parsed
	}

	if dto.AppointmentTime != nil && !validator.ValidateAppointmentTime(*dto.AppointmentTime) {
		return fmt.Errorf("%w: время должно быть в формате HH:MM в пределах %s-%s",
			domain.ErrValidation, validator.WorkDayOpen, validator.WorkDayClose)
	}

	if dto.Status != nil && !appointment.Status.CanTransitionTo(*dto.Status) {
		return fmt.Errorf("%w: переход из статуса %q в %q не разрешён",
			domain.ErrInvalidState, appointment.Status, *dto.Status)
	}

	// При смене слота двойное бронирование проверяется заново;
	// в исходной системе update этот контроль обходил.
	if date != nil || dto.AppointmentTime != nil || plate != nil {
		newDate := appointment.AppointmentDate
		if date != nil {
			newDate = *date
		}
		newTime := appointment.AppointmentTime
		if dto.AppointmentTime != nil {
			newTime = *dto.AppointmentTime
		}
		newPlate := appointment.CarNumberPlate
		if plate != nil {
			newPlate = *plate
		}

		count, err := s.repo.CountActiveByCar(ctx, newPlate, newDate, newTime, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: на этот автомобиль уже есть заявка на выбранные дату и время", domain.ErrConflict)
		}

		if appointment.WorkerID != nil {
			count, err := s.repo.CountActiveByWorker(ctx, *appointment.WorkerID, newDate, newTime, id)
			if err != nil {
				return err
			}
			if count > 0 {
				return fmt.Errorf("%w: у механика уже есть заявка на выбранные дату и время", domain.ErrConflict)
			}
		}
	}

	if err := s.repo.Update(ctx, id, dto, date, plate); err != nil {
		s.logger.Error("ошибка обновления заявки", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *AppointmentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления заявки", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка заявок", zap.Error(err))
		return nil, 0, err
	}

	count, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения количества заявок", zap.Error(err))
		return appointments, 0, nil
	}

	return appointments, count, nil
}

func (s *AppointmentServiceImpl) AssignWorker(ctx context.Context, id, workerID int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("заявка для назначения не найдена", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if appointment.Status.Terminal() {
		return nil, fmt.Errorf("%w: нельзя назначить механика на заявку в статусе %q",
			domain.ErrInvalidState, appointment.Status)
	}

	if _, err := s.workerRepo.GetByID(ctx, workerID); err != nil {
		s.logger.Error("механик не найден при назначении", zap.Int64("workerID", workerID), zap.Error(err))
		return nil, err
	}

	count, err := s.repo.CountActiveByWorker(ctx, workerID, appointment.AppointmentDate, appointment.AppointmentTime, id)
	if err != nil {
		s.logger.Error("ошибка проверки занятости механика", zap.Error(err))
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: у механика уже есть заявка на выбранные дату и время", domain.ErrConflict)
	}

	if err := s.repo.AssignWorker(ctx, id, workerID); err != nil {
		s.logger.Error("ошибка назначения механика", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentServiceImpl) UnassignWorker(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("заявка для снятия механика не найдена", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if appointment.WorkerID == nil {
		return nil, fmt.Errorf("%w: механик не назначен на заявку", domain.ErrInvalidState)
	}

	if err := s.repo.UnassignWorker(ctx, id); err != nil {
		s.logger.Error("ошибка снятия механика с заявки", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentServiceImpl) Accept(ctx context.Context, id, workerID int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("заявка для подтверждения не найдена", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if appointment.WorkerID == nil {
		return nil, fmt.Errorf("%w: механик не назначен на заявку", domain.ErrInvalidState)
	}

	if *appointment.WorkerID != workerID {
		return nil, fmt.Errorf("%w: заявка назначена другому механику", domain.ErrForbidden)
	}

	if appointment.Status != domain.AppointmentStatusConfirmed {
		return nil, fmt.Errorf("%w: принять можно только подтверждённую заявку, текущий статус %q",
			domain.ErrInvalidState, appointment.Status)
	}

	if err := s.repo.MarkAccepted(ctx, id); err != nil {
		s.logger.Error("ошибка подтверждения заявки", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}
