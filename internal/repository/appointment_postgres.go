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

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

const appointmentSelect = `
	SELECT a.id, a.make, a.model, a.year, a.car_number_plate, a.mileage,
	       a.service_type_id, a.appointment_date, a.appointment_time, a.notes,
	       a.client_id, a.worker_id, a.status, a.is_accepted_by_worker,
	       a.checklist, a.additional_issues, a.created_at, a.updated_at,
	       u.first_name, u.last_name, u.middle_name,
	       COALESCE(w.full_name, ''), st.name
	FROM appointments a
	JOIN users u ON a.client_id = u.id
	JOIN service_types st ON a.service_type_id = st.id
	LEFT JOIN workers w ON a.worker_id = w.id
`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var firstName, lastName, middleName string

	err := row.Scan(
		&appointment.ID,
		&appointment.Make,
		&appointment.Model,
		&appointment.Year,
		&appointment.CarNumberPlate,
		&appointment.Mileage,
		&appointment.ServiceTypeID,
		&appointment.AppointmentDate,
		&appointment.AppointmentTime,
		&appointment.Notes,
		&appointment.ClientID,
		&appointment.WorkerID,
		&appointment.Status,
		&appointment.IsAcceptedByWorker,
		&appointment.Checklist,
		&appointment.AdditionalIssues,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&firstName,
		&lastName,
		&middleName,
		&appointment.WorkerName,
		&appointment.ServiceTypeName,
	)
	if err != nil {
		return nil, err
	}

	appointment.ClientName = firstName + " " + lastName
	if middleName != "" {
		appointment.ClientName += " " + middleName
	}

	return &appointment, nil
}

func (r *AppointmentRepo) Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO, date time.Time, plate string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Предварительная проверка даёт понятный 409; уникальный индекс
	// uq_appointments_car_slot закрывает гонку параллельных запросов.
	checkQuery := `
		SELECT COUNT(*)
		FROM appointments
		WHERE car_number_plate = $1
		AND appointment_date = $2
		AND appointment_time = $3
		AND status != 'cancelled'
	`

	var count int
	err = tx.QueryRow(ctx, checkQuery, plate, date, dto.AppointmentTime).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки доступности слота: %w", err)
	}

	if count > 0 {
		return 0, fmt.Errorf("%w: на этот автомобиль уже есть заявка на выбранные дату и время", domain.ErrConflict)
	}

	query := `
		INSERT INTO appointments (make, model, year, car_number_plate, mileage,
			service_type_id, appointment_date, appointment_time, notes, client_id,
			worker_id, status, is_accepted_by_worker, checklist, additional_issues,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL, $11, FALSE, '{}', '', $12, $12)
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(ctx, query,
		dto.Make,
		dto.Model,
		dto.Year,
		plate,
		dto.Mileage,
		dto.ServiceTypeID,
		date,
		dto.AppointmentTime,
		dto.Notes,
		clientID,
		domain.AppointmentStatusConfirmed,
		time.Now(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: на этот автомобиль уже есть заявка на выбранные дату и время", domain.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := scanAppointment(r.db.QueryRow(ctx, appointmentSelect+" WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("ошибка получения заявки: %w", err)
	}

	return appointment, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO, date *time.Time, plate *string) error {
	setValues := make([]string, 0)
	args := make([]interface{}, 0)
	argID := 1

	if dto.Make != nil {
		setValues = append(setValues, fmt.Sprintf("make = $%d", argID))
		args = append(args, *dto.Make)
		argID++
	}
	if dto.Model != nil {
		setValues = append(setValues, fmt.Sprintf("model = $%d", argID))
		args = append(args, *dto.Model)
		argID++
	}
	if dto.Year != nil {
		setValues = append(setValues, fmt.Sprintf("year = $%d", argID))
		args = append(args, *dto.Year)
		argID++
	}
	if plate != nil {
		setValues = append(setValues, fmt.Sprintf("car_number_plate = $%d", argID))
		args = append(args, *plate)
		argID++
	}
	if dto.Mileage != nil {
		setValues = append(setValues, fmt.Sprintf("mileage = $%d", argID))
		args = append(args, *dto.Mileage)
		argID++
	}
	if dto.ServiceTypeID != nil {
		setValues = append(setValues, fmt.Sprintf("service_type_id = $%d", argID))
		args = append(args, *dto.ServiceTypeID)
		argID++
	}
	if date != nil {
		setValues = append(setValues, fmt.Sprintf("appointment_date = $%d", argID))
		args = append(args, *date)
		argID++
	}
	if dto.AppointmentTime != nil {
		setValues = append(setValues, fmt.Sprintf("appointment_time = $%d", argID))
		args = append(args, *dto.AppointmentTime)
		argID++
	}
	if dto.Notes != nil {
		setValues = append(setValues, fmt.Sprintf("notes = $%d", argID))
		args = append(args, *dto.Notes)
		argID++
	}
	if dto.Status != nil {
		setValues = append(setValues, fmt.Sprintf("status = $%d", argID))
		args = append(args, *dto.Status)
		argID++
	}
	if dto.Checklist != nil {
		setValues = append(setValues, fmt.Sprintf("checklist = $%d", argID))
		args = append(args, *dto.Checklist)
		argID++
	}
	if dto.AdditionalIssues != nil {
		setValues = append(setValues, fmt.Sprintf("additional_issues = $%d", argID))
		args = append(args, *dto.AdditionalIssues)
		argID++
	}

	if len(setValues) == 0 {
		return nil
	}

	setValues = append(setValues, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	query := fmt.Sprintf("UPDATE appointments SET %s WHERE id = $%d", strings.Join(setValues, ", "), argID)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: выбранные дата и время уже заняты", domain.ErrConflict)
		}
		return fmt.Errorf("ошибка обновления заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM appointments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func buildAppointmentFilter(filter domain.AppointmentFilter) (string, []interface{}) {
	conditions := make([]string, 0)
	args := make([]interface{}, 0)
	argID := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("a.client_id = $%d", argID))
		args = append(args, *filter.ClientID)
		argID++
	}
	if filter.WorkerID != nil {
		conditions = append(conditions, fmt.Sprintf("a.worker_id = $%d", argID))
		args = append(args, *filter.WorkerID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.ExcludeStatus != nil {
		conditions = append(conditions, fmt.Sprintf("a.status != $%d", argID))
		args = append(args, *filter.ExcludeStatus)
		argID++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.appointment_date >= $%d", argID))
		args = append(args, *filter.StartDate)
		argID++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.appointment_date <= $%d", argID))
		args = append(args, *filter.EndDate)
		argID++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	where, args := buildAppointmentFilter(filter)

	query := appointmentSelect + where + " ORDER BY a.appointment_date, a.appointment_time"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
		}
		appointments = append(appointments, *appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	where, args := buildAppointmentFilter(filter)

	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM appointments a"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения количества заявок: %w", err)
	}

	return count, nil
}

func (r *AppointmentRepo) CountActiveByCar(ctx context.Context, plate string, date time.Time, timeSlot string, excludeID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE car_number_plate = $1
		AND appointment_date = $2
		AND appointment_time = $3
		AND status != 'cancelled'
		AND id != $4
	`

	var count int
	err := r.db.QueryRow(ctx, query, plate, date, timeSlot, excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки занятости слота: %w", err)
	}

	return count, nil
}

func (r *AppointmentRepo) CountActiveByWorker(ctx context.Context, workerID int64, date time.Time, timeSlot string, excludeID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE worker_id = $1
		AND appointment_date = $2
		AND appointment_time = $3
		AND status != 'cancelled'
		AND id != $4
	`

	var count int
	err := r.db.QueryRow(ctx, query, workerID, date, timeSlot, excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки занятости механика: %w", err)
	}

	return count, nil
}

func (r *AppointmentRepo) AssignWorker(ctx context.Context, id, workerID int64) error {
	query := `
		UPDATE appointments
		SET worker_id = $1, status = $2, is_accepted_by_worker = FALSE, updated_at = $3
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query, workerID, domain.AppointmentStatusConfirmed, time.Now(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: у механика уже есть заявка на выбранные дату и время", domain.ErrConflict)
		}
		return fmt.Errorf("ошибка назначения механика: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *AppointmentRepo) UnassignWorker(ctx context.Context, id int64) error {
	query := `
		UPDATE appointments
		SET worker_id = NULL, status = $1, is_accepted_by_worker = FALSE, updated_at = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, domain.AppointmentStatusConfirmed, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка снятия механика с заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *AppointmentRepo) MarkAccepted(ctx context.Context, id int64) error {
	query := `
		UPDATE appointments
		SET is_accepted_by_worker = TRUE, status = $1, updated_at = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, domain.AppointmentStatusInProgress, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка подтверждения заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: заявка с id %d", domain.ErrNotFound, id)
	}

	return nil
}
