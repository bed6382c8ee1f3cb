package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"user-directory/internal/domain"
	"user-directory/internal/repository"
	"user-directory/internal/validation"
)

var (
	// ErrUserNotFound indicates that no user exists for the given id.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when another user already owns the email,
	// whether caught by the pre-check or by the store's constraint.
	ErrEmailTaken = errors.New("user with this email already exists")
)

// ListResult pairs one page of users with its pagination envelope.
type ListResult struct {
	Users      []domain.User     `json:"users"`
	Pagination domain.Pagination `json:"pagination"`
}

// DeletedUser carries the identifying fields of a removed record.
type DeletedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UserService describes user lifecycle operations over validated payloads.
type UserService interface {
	ListUsers(ctx context.Context, cfg validation.ListConfig) (*ListResult, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, in validation.CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in validation.UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) (*DeletedUser, error)
	GetStats(ctx context.Context) (*domain.Stats, error)
}

type userService struct {
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, logger *logrus.Logger) UserService {
	return &userService{
		users:  users,
		logger: logger,
	}
}

func (s *userService) ListUsers(ctx context.Context, cfg validation.ListConfig) (*ListResult, error) {
	filter := repository.Filter{}
	if cfg.Status != "" {
		filter.Status = domain.Status(cfg.Status)
	}

	offset := (cfg.Page - 1) * cfg.Limit
	users, total, err := s.users.FindMany(ctx, filter, parseSort(cfg.Sort), offset, cfg.Limit)
	if err != nil {
		s.logger.WithError(err).Error("list users")
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(cfg.Limit)))
	return &ListResult{
		Users: users,
		Pagination: domain.Pagination{
			CurrentPage: cfg.Page,
			TotalPages:  totalPages,
			TotalUsers:  total,
			HasNextPage: cfg.Page < totalPages,
			HasPrevPage: cfg.Page > 1,
			Limit:       cfg.Limit,
		},
	}, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.WithError(err).WithField("id", id).Error("get user")
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, in validation.CreateUserInput) (*domain.User, error) {
	// Advisory pre-check; the unique index is the actual guarantee.
	if err := s.checkEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}

	status := domain.StatusActive
	if in.Status != nil {
		status = domain.Status(*in.Status)
	}

	user, err := s.users.Insert(ctx, repository.CreateParams{
		Name:   in.Name,
		Email:  in.Email,
		Age:    in.Age,
		Status: status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.logger.WithError(err).Error("create user")
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, in validation.UpdateUserInput) (*domain.User, error) {
	if in.Email != nil {
		if err := s.checkEmailFree(ctx, *in.Email, id); err != nil {
			return nil, err
		}
	}

	params := repository.UpdateParams{
		Name:  in.Name,
		Email: in.Email,
		Age:   in.Age,
	}
	if in.Status != nil {
		status := domain.Status(*in.Status)
		params.Status = &status
	}

	user, err := s.users.UpdateByID(ctx, id, params)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		s.logger.WithError(err).WithField("id", id).Error("update user")
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) (*DeletedUser, error) {
	user, err := s.users.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.WithError(err).WithField("id", id).Error("delete user")
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return &DeletedUser{ID: user.ID, Email: user.Email}, nil
}

func (s *userService) GetStats(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.users.AggregateStats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("aggregate user stats")
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return stats, nil
}

func (s *userService) checkEmailFree(ctx context.Context, email, excludeID string) error {
	_, err := s.users.FindByEmail(ctx, email, excludeID)
	if err == nil {
		return ErrEmailTaken
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	s.logger.WithError(err).Error("check email uniqueness")
	return fmt.Errorf("check email: %w", err)
}

func parseSort(sort string) repository.Sort {
	if field, ok := strings.CutPrefix(sort, "-"); ok {
		return repository.Sort{Field: field, Desc: true}
	}
	return repository.Sort{Field: sort}
}
