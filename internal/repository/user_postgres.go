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

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

const userColumns = "id, first_name, last_name, middle_name, email, phone, password_hash, role, is_active, created_at, updated_at"

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.MiddleName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	query := `
		INSERT INTO users (first_name, last_name, middle_name, email, phone, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	now := time.Now()
	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		dto.FirstName,
		dto.LastName,
		dto.MiddleName,
		dto.Email,
		dto.Phone,
		dto.Password,
		dto.Role,
		true,
		now,
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: пользователь с таким email или телефоном уже существует", domain.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	return id, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: пользователь с id %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: пользователь с email %s", domain.ErrNotFound, email)
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return user, nil
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE phone = $1", userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: пользователь с телефоном %s", domain.ErrNotFound, phone)
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return user, nil
}

func (r *UserRepo) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	setValues := make([]string, 0)
	args := make([]interface{}, 0)
	argID := 1

	if dto.FirstName != nil {
		setValues = append(setValues, fmt.Sprintf("first_name = $%d", argID))
		args = append(args, *dto.FirstName)
		argID++
	}
	if dto.LastName != nil {
		setValues = append(setValues, fmt.Sprintf("last_name = $%d", argID))
		args = append(args, *dto.LastName)
		argID++
	}
	if dto.MiddleName != nil {
		setValues = append(setValues, fmt.Sprintf("middle_name = $%d", argID))
		args = append(args, *dto.MiddleName)
		argID++
	}
	if dto.Email != nil {
		setValues = append(setValues, fmt.Sprintf("email = $%d", argID))
		args = append(args, *dto.Email)
		argID++
	}
	if dto.Phone != nil {
		setValues = append(setValues, fmt.Sprintf("phone = $%d", argID))
		args = append(args, *dto.Phone)
		argID++
	}
	if dto.IsActive != nil {
		setValues = append(setValues, fmt.Sprintf("is_active = $%d", argID))
		args = append(args, *dto.IsActive)
		argID++
	}

	if len(setValues) == 0 {
		return nil
	}

	setValues = append(setValues, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setValues, ", "), argID)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: пользователь с таким email или телефоном уже существует", domain.ErrConflict)
		}
		return fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: пользователь с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3",
		passwordHash, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления пароля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: пользователь с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: пользователь с id %d", domain.ErrNotFound, id)
	}

	return nil
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY id LIMIT $1 OFFSET $2", userColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return users, nil
}

// isUniqueViolation распознаёт нарушение уникального ограничения Postgres (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
