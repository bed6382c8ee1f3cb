package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"user-directory/internal/domain"
	"user-directory/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	age INTEGER,
	status TEXT NOT NULL DEFAULT 'active',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_status ON users(status);
CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
`

// sortColumns whitelists the sortable fields and maps them to columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
	"age":       "age",
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) FindMany(ctx context.Context, filter repository.Filter, sort repository.Sort, offset, limit int) ([]domain.User, int, error) {
	where := ""
	var args []any
	if filter.Status != "" {
		where = " WHERE status = ?"
		args = append(args, string(filter.Status))
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
SELECT id, name, email, age, status, created_at, updated_at
FROM users%s
ORDER BY %s %s
LIMIT ? OFFSET ?`, where, column, direction)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, email, age, status, created_at, updated_at
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email, excludeID string) (*domain.User, error) {
	query := `
SELECT id, name, email, age, status, created_at, updated_at
FROM users
WHERE email = ?`
	args := []any{email}
	if excludeID != "" {
		query += " AND id != ?"
		args = append(args, excludeID)
	}
	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}

func (r *UserRepository) Insert(ctx context.Context, params repository.CreateParams) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:        newUserID(),
		Name:      params.Name,
		Email:     params.Email,
		Age:       params.Age,
		Status:    params.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, name, email, age, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		nullableAge(user.Age),
		string(user.Status),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) UpdateByID(ctx context.Context, id string, params repository.UpdateParams) (*domain.User, error) {
	assignments := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if params.Name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *params.Name)
	}
	if params.Email != nil {
		assignments = append(assignments, "email = ?")
		args = append(args, *params.Email)
	}
	if params.Age != nil {
		assignments = append(assignments, "age = ?")
		args = append(args, int64(*params.Age))
	}
	if params.Status != nil {
		assignments = append(assignments, "status = ?")
		args = append(args, string(*params.Status))
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(assignments, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update user rows affected: %w", err)
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) AggregateStats(ctx context.Context) (*domain.Stats, error) {
	// AVG ignores NULL ages, so users without one don't drag the mean down.
	row := r.db.QueryRowContext(ctx, `
SELECT
	COUNT(*),
	COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN status = 'inactive' THEN 1 ELSE 0 END), 0),
	COALESCE(AVG(age), 0)
FROM users`)

	var stats domain.Stats
	if err := row.Scan(&stats.TotalUsers, &stats.ActiveUsers, &stats.InactiveUsers, &stats.AverageAge); err != nil {
		return nil, fmt.Errorf("aggregate user stats: %w", err)
	}
	return &stats, nil
}

// newUserID generates a 24-character hexadecimal record identifier token.
func newUserID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("generate user id: %v", err))
	}
	return hex.EncodeToString(buf)
}

func nullableAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user   domain.User
		age    sql.NullInt64
		status string
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&age,
		&status,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if age.Valid {
		value := int(age.Int64)
		user.Age = &value
	}
	user.Status = domain.Status(status)
	return &user, nil
}
