package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"autocare/internal/domain"
)

// Фиксированное "сейчас" для детерминированных проверок дат.
var testNow = time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	appointments map[int64]*domain.Appointment
	workers      map[int64]*domain.Worker
	serviceTypes map[int64]*domain.ServiceType
	users        map[int64]*domain.User
	nextID       int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		appointments: make(map[int64]*domain.Appointment),
		workers:      make(map[int64]*domain.Worker),
		serviceTypes: make(map[int64]*domain.ServiceType),
		users:        make(map[int64]*domain.User),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeAppointmentRepo struct {
	store *fakeStore
}

func (r *fakeAppointmentRepo) Create(_ context.Context, clientID int64, dto domain.CreateAppointmentDTO, date time.Time, plate string) (int64, error) {
	id := r.store.id()
	r.store.appointments[id] = &domain.Appointment{
		ID:              id,
		Make:            dto.Make,
		Model:           dto.Model,
		Year:            dto.Year,
		CarNumberPlate:  plate,
		Mileage:         dto.Mileage,
		ServiceTypeID:   dto.ServiceTypeID,
		AppointmentDate: date,
		AppointmentTime: dto.AppointmentTime,
		Notes:           dto.Notes,
		ClientID:        clientID,
		Status:          domain.AppointmentStatusConfirmed,
		Checklist:       map[string]bool{},
	}
	return id, nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appointment, ok := r.store.appointments[id]
	if !ok {
		return nil, fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}
	copied := *appointment
	return &copied, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, id int64, dto domain.UpdateAppointmentDTO, date *time.Time, plate *string) error {
	appointment, ok := r.store.appointments[id]
	if !ok {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}
	if date != nil {
		appointment.AppointmentDate = *date
	}
	if plate != nil {
		appointment.CarNumberPlate = *plate
	}
	if dto.AppointmentTime != nil {
		appointment.AppointmentTime = *dto.AppointmentTime
	}
	if dto.Status != nil {
		appointment.Status = *dto.Status
	}
	if dto.Checklist != nil {
		appointment.Checklist = *dto.Checklist
	}
	if dto.AdditionalIssues != nil {
		appointment.AdditionalIssues = *dto.AdditionalIssues
	}
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.appointments[id]; !ok {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}
	delete(r.store.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	result := make([]domain.Appointment, 0)
	for _, appointment := range r.store.appointments {
		if filter.ClientID != nil && appointment.ClientID != *filter.ClientID {
			continue
		}
		if filter.WorkerID != nil && (appointment.WorkerID == nil || *appointment.WorkerID != *filter.WorkerID) {
			continue
		}
		if filter.Status != nil && appointment.Status != *filter.Status {
			continue
		}
		result = append(result, *appointment)
	}
	return result, nil
}

func (r *fakeAppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	list, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (r *fakeAppointmentRepo) CountActiveByCar(_ context.Context, plate string, date time.Time, timeSlot string, excludeID int64) (int, error) {
	count := 0
	for _, appointment := range r.store.appointments {
		if appointment.ID == excludeID {
			continue
		}
		if appointment.Status == domain.AppointmentStatusCancelled {
			continue
		}
		if appointment.CarNumberPlate == plate && appointment.AppointmentDate.Equal(date) && appointment.AppointmentTime == timeSlot {
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) CountActiveByWorker(_ context.Context, workerID int64, date time.Time, timeSlot string, excludeID int64) (int, error) {
	count := 0
	for _, appointment := range r.store.appointments {
		if appointment.ID == excludeID {
			continue
		}
		if appointment.Status == domain.AppointmentStatusCancelled {
			continue
		}
		if appointment.WorkerID != nil && *appointment.WorkerID == workerID &&
			appointment.AppointmentDate.Equal(date) && appointment.AppointmentTime == timeSlot {
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) AssignWorker(_ context.Context, id, workerID int64) error {
	appointment, ok := r.store.appointments[id]
	if !ok {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}
	appointment.WorkerID = &workerID
	appointment.Status = domain.AppointmentStatusConfirmed
	appointment.IsAcceptedByWorker = false
	return nil
}

func (r *fakeAppointmentRepo) UnassignWorker(_ context.Context, id int64) error {
	appointment, ok := r.store.appointments[id]
	if !ok {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}
	appointment.WorkerID = nil
	appointment.Status = domain.AppointmentStatusConfirmed
	appointment.IsAcceptedByWorker = false
	return nil
}

func (r *fakeAppointmentRepo) MarkAccepted(_ context.Context, id int64) error {
	appointment, ok := r.store.appointments[id]
	if !ok {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}
	appointment.IsAcceptedByWorker = true
	appointment.Status = domain.AppointmentStatusInProgress
	return nil
}

type fakeWorkerRepo struct {
	store *fakeStore
}

func (r *fakeWorkerRepo) Create(_ context.Context, dto domain.CreateWorkerDTO, hireDate time.Time) (int64, error) {
	for _, worker := range r.store.workers {
		if worker.Email == dto.Email {
			return 0, fmt.Errorf("%w: механик с таким email уже существует", domain.ErrConflict)
		}
	}
	id := r.store.id()
	r.store.workers[id] = &domain.Worker{
		ID:          id,
		UserID:      dto.UserID,
		FullName:    dto.FullName,
		Email:       dto.Email,
		PhoneNumber: dto.PhoneNumber,
		HireDate:    hireDate,
	}
	return id, nil
}

func (r *fakeWorkerRepo) GetByID(_ context.Context, id int64) (*domain.Worker, error) {
	worker, ok := r.store.workers[id]
	if !ok {
		return nil, fmt.Errorf("%w: механик с id %d", domain.ErrNotFound, id)
	}
	copied := *worker
	r.deriveLoad(&copied)
	return &copied, nil
}

func (r *fakeWorkerRepo) GetByUserID(_ context.Context, userID int64) (*domain.Worker, error) {
	for _, worker := range r.store.workers {
		if worker.UserID != nil && *worker.UserID == userID {
			copied := *worker
			r.deriveLoad(&copied)
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: механик с user_id %d", domain.ErrNotFound, userID)
}

// deriveLoad повторяет продовую семантику: загрузка и задачи выводятся
// из активных заявок, а не хранятся.
func (r *fakeWorkerRepo) deriveLoad(worker *domain.Worker) {
	worker.Workload = 0
	worker.TaskIDs = make([]int64, 0)
	for _, appointment := range r.store.appointments {
		if appointment.WorkerID == nil || *appointment.WorkerID != worker.ID {
			continue
		}
		if appointment.Status == domain.AppointmentStatusConfirmed || appointment.Status == domain.AppointmentStatusInProgress {
			worker.Workload++
			worker.TaskIDs = append(worker.TaskIDs, appointment.ID)
		}
	}
	worker.Status = domain.WorkerStatusAvailable
	if worker.Workload > 0 {
		worker.Status = domain.WorkerStatusBusy
	}
}

func (r *fakeWorkerRepo) Update(_ context.Context, id int64, dto domain.UpdateWorkerDTO) error {
	worker, ok := r.store.workers[id]
	if !ok {
		return fmt.Errorf("%w: механик с id %d", domain.ErrNotFound, id)
	}
	if dto.FullName != nil {
		worker.FullName = *dto.FullName
	}
	if dto.Email != nil {
		worker.Email = *dto.Email
	}
	return nil
}

func (r *fakeWorkerRepo) UpdatePhoto(_ context.Context, id int64, photoURL *string) error {
	worker, ok := r.store.workers[id]
	if !ok {
		return fmt.Errorf("%w: механик с id %d", domain.ErrNotFound, id)
	}
	worker.PhotoURL = photoURL
	return nil
}

func (r *fakeWorkerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.workers[id]; !ok {
		return fmt.Errorf("%w: механик с id %d", domain.ErrNotFound, id)
	}
	for _, appointment := range r.store.appointments {
		if appointment.WorkerID != nil && *appointment.WorkerID == id {
			appointment.WorkerID = nil
			appointment.IsAcceptedByWorker = false
			if appointment.Status == domain.AppointmentStatusInProgress {
				appointment.Status = domain.AppointmentStatusConfirmed
			}
		}
	}
	delete(r.store.workers, id)
	return nil
}

func (r *fakeWorkerRepo) List(_ context.Context, limit, offset int) ([]domain.Worker, error) {
	workers := make([]domain.Worker, 0)
	for _, worker := range r.store.workers {
		copied := *worker
		r.deriveLoad(&copied)
		workers = append(workers, copied)
	}
	return workers, nil
}

func (r *fakeWorkerRepo) Count(_ context.Context) (int, error) {
	return len(r.store.workers), nil
}

func (r *fakeWorkerRepo) SearchByName(_ context.Context, name string) ([]domain.Worker, error) {
	workers := make([]domain.Worker, 0)
	for _, worker := range r.store.workers {
		copied := *worker
		r.deriveLoad(&copied)
		workers = append(workers, copied)
	}
	return workers, nil
}

type fakeServiceTypeRepo struct {
	store *fakeStore
}

func (r *fakeServiceTypeRepo) Create(_ context.Context, dto domain.CreateServiceTypeDTO) (int64, error) {
	id := r.store.id()
	r.store.serviceTypes[id] = &domain.ServiceType{
		ID:            id,
		Name:          dto.Name,
		Description:   dto.Description,
		Features:      dto.Features,
		EstimatedTime: dto.EstimatedTime,
	}
	return id, nil
}

func (r *fakeServiceTypeRepo) GetByID(_ context.Context, id int64) (*domain.ServiceType, error) {
	serviceType, ok := r.store.serviceTypes[id]
	if !ok {
		return nil, fmt.Errorf("%w: вид услуги с id %d", domain.ErrNotFound, id)
	}
	copied := *serviceType
	return &copied, nil
}

func (r *fakeServiceTypeRepo) Update(_ context.Context, id int64, dto domain.UpdateServiceTypeDTO) error {
	if _, ok := r.store.serviceTypes[id]; !ok {
		return fmt.Errorf("%w: вид услуги с id %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *fakeServiceTypeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.serviceTypes[id]; !ok {
		return fmt.Errorf("%w: вид услуги с id %d", domain.ErrNotFound, id)
	}
	delete(r.store.serviceTypes, id)
	return nil
}

func (r *fakeServiceTypeRepo) List(_ context.Context, limit, offset int) ([]domain.ServiceType, error) {
	serviceTypes := make([]domain.ServiceType, 0)
	for _, serviceType := range r.store.serviceTypes {
		serviceTypes = append(serviceTypes, *serviceType)
	}
	return serviceTypes, nil
}

func (r *fakeServiceTypeRepo) Count(_ context.Context) (int, error) {
	return len(r.store.serviceTypes), nil
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(_ context.Context, dto domain.CreateUserDTO) (int64, error) {
	id := r.store.id()
	r.store.users[id] = &domain.User{
		ID:        id,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Role:      dto.Role,
		IsActive:  true,
	}
	return id, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: пользователь с id %d", domain.ErrNotFound, id)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: пользователь с email %s", domain.ErrNotFound, email)
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, user := range r.store.users {
		if user.Phone == phone {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: пользователь с телефоном %s", domain.ErrNotFound, phone)
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, dto domain.UpdateUserDTO) error {
	if _, ok := r.store.users[id]; !ok {
		return fmt.Errorf("%w: пользователь с id %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	user, ok := r.store.users[id]
	if !ok {
		return fmt.Errorf("%w: пользователь с id %d", domain.ErrNotFound, id)
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.users[id]; !ok {
		return fmt.Errorf("%w: пользователь с id %d", domain.ErrNotFound, id)
	}
	delete(r.store.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	users := make([]domain.User, 0)
	for _, user := range r.store.users {
		users = append(users, *user)
	}
	return users, nil
}

type testEnv struct {
	store         *fakeStore
	svc           *AppointmentServiceImpl
	clientID      int64
	serviceTypeID int64
	workerID      int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	appointmentRepo := &fakeAppointmentRepo{store: store}
	workerRepo := &fakeWorkerRepo{store: store}
	serviceTypeRepo := &fakeServiceTypeRepo{store: store}
	userRepo := &fakeUserRepo{store: store}

	svc := NewAppointmentService(appointmentRepo, workerRepo, serviceTypeRepo, userRepo, zap.NewNop())
	svc.now = func() time.Time { return testNow }

	ctx := context.Background()

	clientID, err := userRepo.Create(ctx, domain.CreateUserDTO{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     "client@example.com",
		Phone:     "+79123456789",
		Role:      domain.UserRoleClient,
	})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}

	serviceTypeID, err := serviceTypeRepo.Create(ctx, domain.CreateServiceTypeDTO{
		Name:          "Замена масла",
		EstimatedTime: 60,
	})
	if err != nil {
		t.Fatalf("seed service type: %v", err)
	}

	workerID, err := workerRepo.Create(ctx, domain.CreateWorkerDTO{
		FullName:              "Сергей Кузнецов",
		Email:                 "worker@example.com",
		PhoneNumber:           "+79998887766",
		PrimarySpecialization: "Двигатель",
	}, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("seed worker: %v", err)
	}

	return &testEnv{
		store:         store,
		svc:           svc,
		clientID:      clientID,
		serviceTypeID: serviceTypeID,
		workerID:      workerID,
	}
}

func (e *testEnv) createDTO() domain.CreateAppointmentDTO {
	return domain.CreateAppointmentDTO{
		Make:            "Toyota",
		Model:           "Camry",
		Year:            2020,
		CarNumberPlate:  "a123bc 77",
		Mileage:         45000,
		ServiceTypeID:   e.serviceTypeID,
		AppointmentDate: "2026-09-20",
		AppointmentTime: "10:00",
	}
}

func TestCreateAppointment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	appointment, err := env.svc.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get created appointment: %v", err)
	}

	if appointment.Status != domain.AppointmentStatusConfirmed {
		t.Errorf("status = %q, want %q", appointment.Status, domain.AppointmentStatusConfirmed)
	}
	if appointment.CarNumberPlate != "A123BC 77" {
		t.Errorf("plate = %q, want normalized %q", appointment.CarNumberPlate, "A123BC 77")
	}
	if appointment.WorkerID != nil {
		t.Error("new appointment must not have a worker")
	}
	if appointment.IsAcceptedByWorker {
		t.Error("new appointment must not be accepted")
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*domain.CreateAppointmentDTO)
	}{
		{"год до 1900", func(dto *domain.CreateAppointmentDTO) { dto.Year = 1899 }},
		{"год в будущем", func(dto *domain.CreateAppointmentDTO) { dto.Year = testNow.Year() + 2 }},
		{"пустой госномер", func(dto *domain.CreateAppointmentDTO) { dto.CarNumberPlate = "  " }},
		{"неверный формат даты", func(dto *domain.CreateAppointmentDTO) { dto.AppointmentDate = "20.09.2026" }},
		{"дата в прошлом", func(dto *domain.CreateAppointmentDTO) { dto.AppointmentDate = "2026-09-14" }},
		{"время до открытия", func(dto *domain.CreateAppointmentDTO) { dto.AppointmentTime = "08:30" }},
		{"время закрытия", func(dto *domain.CreateAppointmentDTO) { dto.AppointmentTime = "17:00" }},
		{"неверный формат времени", func(dto *domain.CreateAppointmentDTO) { dto.AppointmentTime = "10-00" }},
		{"несуществующая услуга", func(dto *domain.CreateAppointmentDTO) { dto.ServiceTypeID = 9999 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := env.createDTO()
			tt.mutate(&dto)

			_, err := env.svc.Create(ctx, env.clientID, dto)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateAppointmentTodayAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dto := env.createDTO()
	dto.AppointmentDate = "2026-09-15"

	if _, err := env.svc.Create(ctx, env.clientID, dto); err != nil {
		t.Fatalf("appointment for today must be allowed, got: %v", err)
	}
}

func TestCreateAppointmentCarSlotConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Create(ctx, env.clientID, env.createDTO()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// тот же автомобиль, тот же слот, но номер в другом регистре
	dto := env.createDTO()
	dto.CarNumberPlate = "A123BC 77"

	_, err := env.svc.Create(ctx, env.clientID, dto)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}

	// другой слот проходит
	dto.AppointmentTime = "11:00"
	if _, err := env.svc.Create(ctx, env.clientID, dto); err != nil {
		t.Errorf("different slot must be allowed, got: %v", err)
	}
}

func TestCreateAppointmentUnknownClient(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), 9999, env.createDTO())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateAppointmentStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// confirmed -> completed запрещён
	completed := domain.AppointmentStatusCompleted
	err = env.svc.Update(ctx, id, domain.UpdateAppointmentDTO{Status: &completed})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("confirmed -> completed: err = %v, want ErrInvalidState", err)
	}

	// confirmed -> in_progress разрешён
	inProgress := domain.AppointmentStatusInProgress
	if err := env.svc.Update(ctx, id, domain.UpdateAppointmentDTO{Status: &inProgress}); err != nil {
		t.Fatalf("confirmed -> in_progress: %v", err)
	}

	// in_progress -> completed разрешён
	if err := env.svc.Update(ctx, id, domain.UpdateAppointmentDTO{Status: &completed}); err != nil {
		t.Fatalf("in_progress -> completed: %v", err)
	}

	// из терминального статуса выхода нет
	cancelled := domain.AppointmentStatusCancelled
	err = env.svc.Update(ctx, id, domain.UpdateAppointmentDTO{Status: &cancelled})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("completed -> cancelled: err = %v, want ErrInvalidState", err)
	}
}

func TestUpdateAppointmentSlotConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	firstID, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := env.createDTO()
	second.AppointmentTime = "11:00"
	secondID, err := env.svc.Create(ctx, env.clientID, second)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	// перенос второй заявки в слот первой
	conflictTime := "10:00"
	err = env.svc.Update(ctx, secondID, domain.UpdateAppointmentDTO{AppointmentTime: &conflictTime})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}

	// после отмены первой заявки слот свободен
	cancelled := domain.AppointmentStatusCancelled
	if err := env.svc.Update(ctx, firstID, domain.UpdateAppointmentDTO{Status: &cancelled}); err != nil {
		t.Fatalf("cancel first: %v", err)
	}
	if err := env.svc.Update(ctx, secondID, domain.UpdateAppointmentDTO{AppointmentTime: &conflictTime}); err != nil {
		t.Errorf("slot must be free after cancellation, got: %v", err)
	}
}

func TestUpdateAppointmentWorkerSlotConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	firstID, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := env.createDTO()
	second.CarNumberPlate = "B777OP 99"
	second.AppointmentTime = "11:00"
	secondID, err := env.svc.Create(ctx, env.clientID, second)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if _, err := env.svc.AssignWorker(ctx, firstID, env.workerID); err != nil {
		t.Fatalf("assign first: %v", err)
	}
	if _, err := env.svc.AssignWorker(ctx, secondID, env.workerID); err != nil {
		t.Fatalf("assign second: %v", err)
	}

	// перенос второй заявки в слот, где её механик уже занят первой
	conflictTime := "10:00"
	err = env.svc.Update(ctx, secondID, domain.UpdateAppointmentDTO{AppointmentTime: &conflictTime})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestAssignWorker(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	appointment, err := env.svc.AssignWorker(ctx, id, env.workerID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if appointment.WorkerID == nil || *appointment.WorkerID != env.workerID {
		t.Error("worker must be assigned")
	}
	if appointment.Status != domain.AppointmentStatusConfirmed {
		t.Errorf("status = %q, want %q", appointment.Status, domain.AppointmentStatusConfirmed)
	}
	if appointment.IsAcceptedByWorker {
		t.Error("assignment must reset acceptance")
	}
}

func TestAssignWorkerBusySlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	firstID, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := env.createDTO()
	second.CarNumberPlate = "B777OP 99"
	secondID, err := env.svc.Create(ctx, env.clientID, second)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if _, err := env.svc.AssignWorker(ctx, firstID, env.workerID); err != nil {
		t.Fatalf("assign first: %v", err)
	}

	_, err = env.svc.AssignWorker(ctx, secondID, env.workerID)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestAssignWorkerInvalidTargets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.svc.AssignWorker(ctx, id, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown worker: err = %v, want ErrNotFound", err)
	}

	if _, err := env.svc.AssignWorker(ctx, 9999, env.workerID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown appointment: err = %v, want ErrNotFound", err)
	}

	cancelled := domain.AppointmentStatusCancelled
	if err := env.svc.Update(ctx, id, domain.UpdateAppointmentDTO{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := env.svc.AssignWorker(ctx, id, env.workerID); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("terminal status: err = %v, want ErrInvalidState", err)
	}
}

func TestUnassignWorker(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// без механика снимать некого
	if _, err := env.svc.UnassignWorker(ctx, id); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}

	if _, err := env.svc.AssignWorker(ctx, id, env.workerID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	appointment, err := env.svc.UnassignWorker(ctx, id)
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}

	if appointment.WorkerID != nil {
		t.Error("worker must be removed")
	}
	if appointment.IsAcceptedByWorker {
		t.Error("acceptance must be reset")
	}
	if appointment.Status != domain.AppointmentStatusConfirmed {
		t.Errorf("status = %q, want %q", appointment.Status, domain.AppointmentStatusConfirmed)
	}
}

func TestAcceptAppointment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// без назначенного механика принимать нечего
	if _, err := env.svc.Accept(ctx, id, env.workerID); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("no worker: err = %v, want ErrInvalidState", err)
	}

	if _, err := env.svc.AssignWorker(ctx, id, env.workerID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// чужой механик не может принять заявку
	otherWorkerID, err := (&fakeWorkerRepo{store: env.store}).Create(ctx, domain.CreateWorkerDTO{
		FullName:              "Андрей Смирнов",
		Email:                 "other@example.com",
		PhoneNumber:           "+79990001122",
		PrimarySpecialization: "Кузов",
	}, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("seed other worker: %v", err)
	}

	if _, err := env.svc.Accept(ctx, id, otherWorkerID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign worker: err = %v, want ErrForbidden", err)
	}

	appointment, err := env.svc.Accept(ctx, id, env.workerID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	if !appointment.IsAcceptedByWorker {
		t.Error("appointment must be accepted")
	}
	if appointment.Status != domain.AppointmentStatusInProgress {
		t.Errorf("status = %q, want %q", appointment.Status, domain.AppointmentStatusInProgress)
	}

	// повторное принятие уже идущей работы запрещено
	if _, err := env.svc.Accept(ctx, id, env.workerID); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("repeat accept: err = %v, want ErrInvalidState", err)
	}
}

func TestWorkerWorkloadDerived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	workerRepo := &fakeWorkerRepo{store: env.store}

	firstID, err := env.svc.Create(ctx, env.clientID, env.createDTO())
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := env.createDTO()
	second.CarNumberPlate = "B777OP 99"
	second.AppointmentTime = "11:00"
	secondID, err := env.svc.Create(ctx, env.clientID, second)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if _, err := env.svc.AssignWorker(ctx, firstID, env.workerID); err != nil {
		t.Fatalf("assign first: %v", err)
	}
	if _, err := env.svc.AssignWorker(ctx, secondID, env.workerID); err != nil {
		t.Fatalf("assign second: %v", err)
	}

	worker, err := workerRepo.GetByID(ctx, env.workerID)
	if err != nil {
		t.Fatalf("get worker: %v", err)
	}
	if worker.Workload != 2 {
		t.Errorf("workload = %d, want 2", worker.Workload)
	}
	if worker.Status != domain.WorkerStatusBusy {
		t.Errorf("status = %q, want %q", worker.Status, domain.WorkerStatusBusy)
	}
	if len(worker.TaskIDs) != 2 {
		t.Errorf("task count = %d, want 2", len(worker.TaskIDs))
	}

	// завершённая работа перестаёт учитываться в загрузке
	inProgress := domain.AppointmentStatusInProgress
	completed := domain.AppointmentStatusCompleted
	if err := env.svc.Update(ctx, firstID, domain.UpdateAppointmentDTO{Status: &inProgress}); err != nil {
		t.Fatalf("start first: %v", err)
	}
	if err := env.svc.Update(ctx, firstID, domain.UpdateAppointmentDTO{Status: &completed}); err != nil {
		t.Fatalf("complete first: %v", err)
	}

	worker, err = workerRepo.GetByID(ctx, env.workerID)
	if err != nil {
		t.Fatalf("get worker: %v", err)
	}
	if worker.Workload != 1 {
		t.Errorf("workload after completion = %d, want 1", worker.Workload)
	}

	if _, err := env.svc.UnassignWorker(ctx, secondID); err != nil {
		t.Fatalf("unassign second: %v", err)
	}

	worker, err = workerRepo.GetByID(ctx, env.workerID)
	if err != nil {
		t.Fatalf("get worker: %v", err)
	}
	if worker.Workload != 0 {
		t.Errorf("workload after unassign = %d, want 0", worker.Workload)
	}
	if worker.Status != domain.WorkerStatusAvailable {
		t.Errorf("status = %q, want %q", worker.Status, domain.WorkerStatusAvailable)
	}
}
