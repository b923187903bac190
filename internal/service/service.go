package service

import (
	"context"

	"go.uber.org/zap"

	"autocare/config"
	"autocare/internal/domain"
	"autocare/internal/repository"
	"autocare/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
}

type Services struct {
	User        UserService
	Auth        AuthService
	Worker      WorkerService
	ServiceType ServiceTypeService
	Appointment AppointmentService
}

func NewServices(deps Deps) *Services {
	return &Services{
		User:        NewUserService(deps.Repos.User, deps.Logger),
		Auth:        NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Worker:      NewWorkerService(deps.Repos.Worker, deps.FileStorage, deps.Logger),
		ServiceType: NewServiceTypeService(deps.Repos.ServiceType, deps.Logger),
		Appointment: NewAppointmentService(deps.Repos.Appointment, deps.Repos.Worker, deps.Repos.ServiceType, deps.Repos.User, deps.Logger),
	}
}

type UserService interface {
	Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type WorkerService interface {
	Create(ctx context.Context, dto domain.CreateWorkerDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Worker, error)
	Update(ctx context.Context, id int64, dto domain.UpdateWorkerDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Worker, int, error)
	SearchByName(ctx context.Context, name string) ([]domain.Worker, error)

	UploadPhoto(ctx context.Context, id int64, photo []byte, filename string) (string, error)
	DeletePhoto(ctx context.Context, id int64) error
}

type ServiceTypeService interface {
	Create(ctx context.Context, dto domain.CreateServiceTypeDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceType, error)
	Update(ctx context.Context, id int64, dto domain.UpdateServiceTypeDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.ServiceType, int, error)
}

type AppointmentService interface {
	Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)

	AssignWorker(ctx context.Context, id, workerID int64) (*domain.Appointment, error)
	UnassignWorker(ctx context.Context, id int64) (*domain.Appointment, error)
	Accept(ctx context.Context, id, workerID int64) (*domain.Appointment, error)
}
