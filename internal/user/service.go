package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	List(ctx context.Context, role string) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, q ListUsersQuery) ([]*User, error) {
	if q.Role != "" {
		v := validation.NewValidator()
		v.Field("role", q.Role).OneOf(Roles...)
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	rows, err := s.repo.List(ctx, q.Role)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	out := make([]*User, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Create hashes the password and stores an active user. Role defaults to employee.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := Role(dto.Role)
	if role == "" {
		role = RoleEmployee
	}
	u := &User{
		Name:         strings.TrimSpace(dto.Name),
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		PasswordHash: string(hash),
		Role:         role,
		DepartmentID: dto.DepartmentID,
		IsActive:     true,
	}
	row := ToDataModel(u)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Warn("failed to create user", "email", u.Email, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "user_id", row.ID, "role", row.Role)
	return FromDataModel(row), nil
}

// Exists satisfies the reference checks of other domains.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
