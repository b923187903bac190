package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"autocare/internal/domain"
)

type ServiceTypeRepo struct {
	db *pgxpool.Pool
}

func NewServiceTypeRepository(db *pgxpool.Pool) *ServiceTypeRepo {
	return &ServiceTypeRepo{
		db: db,
	}
}

func (r *ServiceTypeRepo) Create(ctx context.Context, dto domain.CreateServiceTypeDTO) (int64, error) {
	query := `
		INSERT INTO service_types (name, description, features, estimated_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`

	features := dto.Features
	if features == nil {
		features = []string{}
	}

	var id int64
	err := r.db.QueryRow(ctx, query,
		dto.Name,
		dto.Description,
		features,
		dto.EstimatedTime,
		time.Now(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: вид услуги с таким названием уже существует", domain.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания вида услуги: %w", err)
	}

	return id, nil
}

func (r *ServiceTypeRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceType, error) {
	query := `
		SELECT id, name, description, features, estimated_time, created_at, updated_at
		FROM service_types
		WHERE id = $1
	`

	var st domain.ServiceType
	err := r.db.QueryRow(ctx, query, id).Scan(
		&st.ID,
		&st.Name,
		&st.Description,
		&st.Features,
		&st.EstimatedTime,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: вид услуги с id %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("ошибка получения вида услуги: %w", err)
	}

	return &st, nil
}

func (r *ServiceTypeRepo) Update(ctx context.Context, id int64, dto domain.UpdateServiceTypeDTO) error {
	setValues := make([]string, 0)
	args := make([]interface{}, 0)
	argID := 1

	if dto.Name != nil {
		setValues = append(setValues, fmt.Sprintf("name = $%d", argID))
		args = append(args, *dto.Name)
		argID++
	}
	if dto.Description != nil {
		setValues = append(setValues, fmt.Sprintf("description = $%d", argID))
		args = append(args, *dto.Description)
		argID++
	}
	if dto.Features != nil {
		setValues = append(setValues, fmt.Sprintf("features = $%d", argID))
		args = append(args, *dto.Features)
		argID++
	}
	if dto.EstimatedTime != nil {
		setValues = append(setValues, fmt.Sprintf("estimated_time = $%d", argID))
		args = append(args, *dto.EstimatedTime)
		argID++
	}

	if len(setValues) == 0 {
		return nil
	}

	setValues = append(setValues, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	query := fmt.Sprintf("UPDATE service_types SET %s WHERE id = $%d", strings.Join(setValues, ", "), argID)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления вида услуги: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: вид услуги с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *ServiceTypeRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM service_types WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 — на вид услуги ссылаются заявки
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: на вид услуги ссылаются существующие заявки", domain.ErrConflict)
		}
		return fmt.Errorf("ошибка удаления вида услуги: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: вид услуги с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *ServiceTypeRepo) List(ctx context.Context, limit, offset int) ([]domain.ServiceType, error) {
	query := `
		SELECT id, name, description, features, estimated_time, created_at, updated_at
		FROM service_types
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка видов услуг: %w", err)
	}
	defer rows.Close()

	serviceTypes := make([]domain.ServiceType, 0)
	for rows.Next() {
		var st domain.ServiceType
		err := rows.Scan(
			&st.ID,
			&st.Name,
			&st.Description,
			&st.Features,
			&st.EstimatedTime,
			&st.CreatedAt,
			&st.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования вида услуги: %w", err)
		}
		serviceTypes = append(serviceTypes, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return serviceTypes, nil
}

func (r *ServiceTypeRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM service_types").Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка получения количества видов услуг: %w", err)
	}
	return count, nil
}
