package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"autocare/internal/domain"
)

type Repositories struct {
	User        UserRepository
	Auth        AuthRepository
	Worker      WorkerRepository
	ServiceType ServiceTypeRepository
	Appointment AppointmentRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Auth:        NewAuthRepository(db),
		Worker:      NewWorkerRepository(db),
		ServiceType: NewServiceTypeRepository(db),
		Appointment: NewAppointmentRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type WorkerRepository interface {
	Create(ctx context.Context, worker domain.CreateWorkerDTO, hireDate time.Time) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Worker, error)
	Update(ctx context.Context, id int64, worker domain.UpdateWorkerDTO) error
	UpdatePhoto(ctx context.Context, id int64, photoURL *string) error
	// Delete в одной транзакции снимает механика со всех его заявок
	// (worker_id -> NULL, accepted -> false, in_progress -> confirmed)
	// и удаляет запись механика.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Worker, error)
	Count(ctx context.Context) (int, error)
	SearchByName(ctx context.Context, name string) ([]domain.Worker, error)
}

type ServiceTypeRepository interface {
	Create(ctx context.Context, dto domain.CreateServiceTypeDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceType, error)
	Update(ctx context.Context, id int64, dto domain.UpdateServiceTypeDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.ServiceType, error)
	Count(ctx context.Context) (int, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO, date time.Time, plate string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO, date *time.Time, plate *string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)

	// CountActiveByCar считает неотменённые заявки на (госномер, дата, время),
	// исключая excludeID (0 — ничего не исключать).
	CountActiveByCar(ctx context.Context, plate string, date time.Time, timeSlot string, excludeID int64) (int, error)
	// CountActiveByWorker считает неотменённые заявки механика на (дата, время).
	CountActiveByWorker(ctx context.Context, workerID int64, date time.Time, timeSlot string, excludeID int64) (int, error)

	AssignWorker(ctx context.Context, id, workerID int64) error
	UnassignWorker(ctx context.Context, id int64) error
	MarkAccepted(ctx context.Context, id int64) error
}
