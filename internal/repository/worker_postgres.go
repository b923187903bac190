package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"autocare/internal/domain"
)

type WorkerRepo struct {
	db *pgxpool.Pool
}

func NewWorkerRepository(db *pgxpool.Pool) *WorkerRepo {
	return &WorkerRepo{
		db: db,
	}
}

// workerSelect выбирает строку механика вместе с производной загрузкой:
// workload считается из активных заявок, а не хранится в отдельном счётчике.
const workerSelect = `
	SELECT w.id, w.user_id, w.full_name, w.email, w.phone_number, w.address,
	       w.primary_specialization, w.skills, w.certifications, w.hire_date,
	       w.weekly_availability, w.hourly_rate, w.additional_notes, w.photo_url,
	       w.created_at, w.updated_at,
	       (SELECT COUNT(*) FROM appointments a
	        WHERE a.worker_id = w.id AND a.status IN ('confirmed', 'in_progress')) AS workload
	FROM workers w
`

func scanWorker(row pgx.Row) (*domain.Worker, error) {
	var worker domain.Worker
	err := row.Scan(
		&worker.ID,
		&worker.UserID,
		&worker.FullName,
		&worker.Email,
		&worker.PhoneNumber,
		&worker.Address,
		&worker.PrimarySpecialization,
		&worker.Skills,
		&worker.Certifications,
		&worker.HireDate,
		&worker.WeeklyAvailability,
		&worker.HourlyRate,
		&worker.AdditionalNotes,
		&worker.PhotoURL,
		&worker.CreatedAt,
		&worker.UpdatedAt,
		&worker.Workload,
	)
	if err != nil {
		return nil, err
	}

	worker.Status = domain.WorkerStatusAvailable
	if worker.Workload > 0 {
		worker.Status = domain.WorkerStatusBusy
	}

	return &worker, nil
}

func (r *WorkerRepo) Create(ctx context.Context, dto domain.CreateWorkerDTO, hireDate time.Time) (int64, error) {
	query := `
		INSERT INTO workers (user_id, full_name, email, phone_number, address,
			primary_specialization, skills, certifications, hire_date,
			weekly_availability, hourly_rate, additional_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING id
	`

	skills := dto.Skills
	if skills == nil {
		skills = []string{}
	}
	certifications := dto.Certifications
	if certifications == nil {
		certifications = []string{}
	}
	availability := dto.WeeklyAvailability
	if availability == nil {
		availability = []string{}
	}

	var id int64
	err := r.db.QueryRow(ctx, query,
		dto.UserID,
		dto.FullName,
		dto.Email,
		dto.PhoneNumber,
		dto.Address,
		dto.PrimarySpecialization,
		skills,
		certifications,
		hireDate,
		availability,
		dto.HourlyRate,
		dto.AdditionalNotes,
		time.Now(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: механик с таким email уже существует", domain.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания механика: %w", err)
	}

	return id, nil
}

func (r *WorkerRepo) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	worker, err := scanWorker(r.db.QueryRow(ctx, workerSelect+" WHERE w.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: механик с id %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("ошибка получения механика: %w", err)
	}

	if err := r.loadTasks(ctx, worker); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *WorkerRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Worker, error) {
	worker, err := scanWorker(r.db.QueryRow(ctx, workerSelect+" WHERE w.user_id = $1", userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: механик с user_id %d", domain.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("ошибка получения механика: %w", err)
	}

	if err := r.loadTasks(ctx, worker); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *WorkerRepo) loadTasks(ctx context.Context, worker *domain.Worker) error {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM appointments
		WHERE worker_id = $1 AND status IN ('confirmed', 'in_progress')
		ORDER BY appointment_date, appointment_time
	`, worker.ID)
	if err != nil {
		return fmt.Errorf("ошибка получения задач механика: %w", err)
	}
	defer rows.Close()

	worker.TaskIDs = make([]int64, 0)
	for rows.Next() {
		var taskID int64
		if err := rows.Scan(&taskID); err != nil {
			return fmt.Errorf("ошибка сканирования задачи механика: %w", err)
		}
		worker.TaskIDs = append(worker.TaskIDs, taskID)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return nil
}

func (r *WorkerRepo) Update(ctx context.Context, id int64, dto domain.UpdateWorkerDTO) error {
	setValues := make([]string, 0)
	args := make([]interface{}, 0)
	argID := 1

	if dto.FullName != nil {
		setValues = append(setValues, fmt.Sprintf("full_name = $%d", argID))
		args = append(args, *dto.FullName)
		argID++
	}
	if dto.Email != nil {
		setValues = append(setValues, fmt.Sprintf("email = $%d", argID))
		args = append(args, *dto.Email)
		argID++
	}
	if dto.PhoneNumber != nil {
		setValues = append(setValues, fmt.Sprintf("phone_number = $%d", argID))
		args = append(args, *dto.PhoneNumber)
		argID++
	}
	if dto.Address != nil {
		setValues = append(setValues, fmt.Sprintf("address = $%d", argID))
		args = append(args, *dto.Address)
		argID++
	}
	if dto.PrimarySpecialization != nil {
		setValues = append(setValues, fmt.Sprintf("primary_specialization = $%d", argID))
		args = append(args, *dto.PrimarySpecialization)
		argID++
	}
	if dto.Skills != nil {
		setValues = append(setValues, fmt.Sprintf("skills = $%d", argID))
		args = append(args, *dto.Skills)
		argID++
	}
	if dto.Certifications != nil {
		setValues = append(setValues, fmt.Sprintf("certifications = $%d", argID))
		args = append(args, *dto.Certifications)
		argID++
	}
	if dto.WeeklyAvailability != nil {
		setValues = append(setValues, fmt.Sprintf("weekly_availability = $%d", argID))
		args = append(args, *dto.WeeklyAvailability)
		argID++
	}
	if dto.HourlyRate != nil {
		setValues = append(setValues, fmt.Sprintf("hourly_rate = $%d", argID))
		args = append(args, *dto.HourlyRate)
		argID++
	}
	if dto.AdditionalNotes != nil {
		setValues = append(setValues, fmt.Sprintf("additional_notes = $%d", argID))
		args = append(args, *dto.AdditionalNotes)
		argID++
	}

	if len(setValues) == 0 {
		return nil
	}

	setValues = append(setValues, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	query := fmt.Sprintf("UPDATE workers SET %s WHERE id = $%d", strings.Join(setValues, ", "), argID)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: механик с таким email уже существует", domain.ErrConflict)
		}
		return fmt.Errorf("ошибка обновления механика: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: механик с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *WorkerRepo) UpdatePhoto(ctx context.Context, id int64, photoURL *string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE workers SET photo_url = $1, updated_at = $2 WHERE id = $3",
		photoURL, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления фото механика: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: механик с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *WorkerRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Заявки удаляемого механика возвращаются в очередь назначения:
	// ссылка снимается, принятие сбрасывается, начатые работы -> confirmed.
	_, err = tx.Exec(ctx, `
		UPDATE appointments
		SET worker_id = NULL,
		    is_accepted_by_worker = FALSE,
		    status = CASE WHEN status = 'in_progress' THEN 'confirmed' ELSE status END,
		    updated_at = $2
		WHERE worker_id = $1
	`, id, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка снятия механика с заявок: %w", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM workers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления механика: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: механик с id %d", domain.ErrNotFound, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}

func (r *WorkerRepo) List(ctx context.Context, limit, offset int) ([]domain.Worker, error) {
	rows, err := r.db.Query(ctx, workerSelect+" ORDER BY w.full_name LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка механиков: %w", err)
	}
	defer rows.Close()

	workers := make([]domain.Worker, 0)
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования механика: %w", err)
		}
		workers = append(workers, *worker)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return workers, nil
}

func (r *WorkerRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM workers").Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка получения количества механиков: %w", err)
	}
	return count, nil
}

func (r *WorkerRepo) SearchByName(ctx context.Context, name string) ([]domain.Worker, error) {
	rows, err := r.db.Query(ctx,
		workerSelect+" WHERE w.full_name ILIKE '%' || $1 || '%' ORDER BY w.full_name",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска механиков: %w", err)
	}
	defer rows.Close()

	workers := make([]domain.Worker, 0)
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования механика: %w", err)
		}
		workers = append(workers, *worker)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return workers, nil
}
