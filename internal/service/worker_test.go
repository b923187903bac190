package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"autocare/internal/domain"
)

func newWorkerService(store *fakeStore) *WorkerServiceImpl {
	return NewWorkerService(&fakeWorkerRepo{store: store}, nil, zap.NewNop())
}

func TestWorkerCreateValidation(t *testing.T) {
	svc := newWorkerService(newFakeStore())
	ctx := context.Background()

	base := domain.CreateWorkerDTO{
		FullName:              "Сергей Кузнецов",
		Email:                 "worker@example.com",
		PhoneNumber:           "+79998887766",
		PrimarySpecialization: "Двигатель",
		HireDate:              "2024-01-10",
	}

	if _, err := svc.Create(ctx, base); err != nil {
		t.Fatalf("valid worker rejected: %v", err)
	}

	badEmail := base
	badEmail.Email = "not-an-email"
	if _, err := svc.Create(ctx, badEmail); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad email: err = %v, want ErrValidation", err)
	}

	badPhone := base
	badPhone.Email = "worker2@example.com"
	badPhone.PhoneNumber = "123"
	if _, err := svc.Create(ctx, badPhone); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad phone: err = %v, want ErrValidation", err)
	}

	badHireDate := base
	badHireDate.Email = "worker3@example.com"
	badHireDate.HireDate = "10.01.2024"
	if _, err := svc.Create(ctx, badHireDate); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad hire date: err = %v, want ErrValidation", err)
	}

	duplicate := base
	if _, err := svc.Create(ctx, duplicate); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate email: err = %v, want ErrConflict", err)
	}
}

func TestWorkerSearchByName(t *testing.T) {
	svc := newWorkerService(newFakeStore())

	if _, err := svc.SearchByName(context.Background(), "   "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank query: err = %v, want ErrValidation", err)
	}
}

func TestWorkerPhotoWithoutStorage(t *testing.T) {
	store := newFakeStore()
	svc := newWorkerService(store)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.CreateWorkerDTO{
		FullName:              "Сергей Кузнецов",
		Email:                 "worker@example.com",
		PhoneNumber:           "+79998887766",
		PrimarySpecialization: "Двигатель",
		HireDate:              "2024-01-10",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UploadPhoto(ctx, id, []byte("data"), "photo.jpg"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("upload without storage: err = %v, want ErrInvalidState", err)
	}
	if err := svc.DeletePhoto(ctx, id); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("delete without storage: err = %v, want ErrInvalidState", err)
	}
}

// Удаление механика возвращает его заявки в очередь назначения.
func TestWorkerDeleteReleasesAppointments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	workerSvc := newWorkerService(env.store)

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
	if _, err := env.svc.Accept(ctx, firstID, env.workerID); err != nil {
		t.Fatalf("accept first: %v", err)
	}

	if err := workerSvc.Delete(ctx, env.workerID); err != nil {
		t.Fatalf("delete worker: %v", err)
	}

	first, err := env.svc.GetByID(ctx, firstID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if first.WorkerID != nil {
		t.Error("first appointment must lose its worker")
	}
	if first.IsAcceptedByWorker {
		t.Error("acceptance must be reset")
	}
	if first.Status != domain.AppointmentStatusConfirmed {
		t.Errorf("in_progress must revert to confirmed, got %q", first.Status)
	}

	second2, err := env.svc.GetByID(ctx, secondID)
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if second2.WorkerID != nil {
		t.Error("second appointment must lose its worker")
	}
	if second2.Status != domain.AppointmentStatusConfirmed {
		t.Errorf("status = %q, want confirmed", second2.Status)
	}
}

func TestWorkerList(t *testing.T) {
	store := newFakeStore()
	svc := newWorkerService(store)
	ctx := context.Background()

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Create(ctx, domain.CreateWorkerDTO{
			FullName:              "Механик",
			Email:                 email,
			PhoneNumber:           "+79998887766",
			PrimarySpecialization: "Двигатель",
			HireDate:              time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		})
		if err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
	}

	workers, total, err := svc.List(ctx, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(workers) != 3 {
		t.Errorf("len(workers) = %d, want 3", len(workers))
	}
	for _, worker := range workers {
		if worker.Status != domain.WorkerStatusAvailable {
			t.Errorf("new worker status = %q, want available", worker.Status)
		}
	}
}
