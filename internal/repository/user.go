package repository

import (
	"context"
	"errors"

	"user-directory/internal/domain"
)

var (
	// ErrNotFound is returned when an id or filter matches no user.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the store's uniqueness constraint
	// on email rejects a write.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Filter narrows reads to users matching the given attributes. The zero
// value matches everything.
type Filter struct {
	Status domain.Status
}

// Sort names the column a listing is ordered by.
type Sort struct {
	Field string
	Desc  bool
}

// CreateParams is a fully validated insert payload.
type CreateParams struct {
	Name   string
	Email  string
	Age    *int
	Status domain.Status
}

// UpdateParams is a partial update. Nil fields are left untouched.
type UpdateParams struct {
	Name   *string
	Email  *string
	Age    *int
	Status *domain.Status
}

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	// FindMany returns one page of users plus the total count of users
	// matching the filter. The two reads are independent.
	FindMany(ctx context.Context, filter Filter, sort Sort, offset, limit int) ([]domain.User, int, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail is the uniqueness pre-check read. A non-empty excludeID
	// ignores that record, so updates don't collide with themselves.
	FindByEmail(ctx context.Context, email, excludeID string) (*domain.User, error)
	Insert(ctx context.Context, params CreateParams) (*domain.User, error)
	UpdateByID(ctx context.Context, id string, params UpdateParams) (*domain.User, error)
	DeleteByID(ctx context.Context, id string) (*domain.User, error)
	AggregateStats(ctx context.Context) (*domain.Stats, error)
}
