package department

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	departmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/department"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, d *departmentDatamodel.Department) error
	Update(ctx context.Context, d *departmentDatamodel.Department) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// EquipmentCounter reports how many equipment rows reference a department.
type EquipmentCounter interface {
	CountByDepartment(ctx context.Context, departmentID int64) (int64, error)
}

type Service struct {
	repo      RepositoryAPI
	equipment EquipmentCounter
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, equipment EquipmentCounter, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		equipment: equipment,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Department, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, err
	}
	out := make([]*Department, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Department, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, dto CreateDepartmentDTO) (*Department, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row := ToDataModel(NewDepartment(dto.Name, dto.Description))
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Warn("failed to create department", "name", row.Name, "error", err)
		return nil, err
	}

	s.logger.Info("department created", "department_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateDepartmentDTO) (*Department, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		row.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Warn("failed to update department", "department_id", id, "error", err)
		return nil, err
	}
	return FromDataModel(row), nil
}

// Delete refuses while any equipment still belongs to the department.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	n, err := s.equipment.CountByDepartment(ctx, id)
	if err != nil {
		return errors.NewInternalError("failed to check department usage", err)
	}
	if n > 0 {
		s.logger.Info("department delete refused", "department_id", id, "equipment_count", n)
		return errors.ErrEntityInUse.WithDetails(errors.ValidationErrors{Errors: []errors.ValidationError{{
			Field:   "department",
			Message: "department is still assigned to equipment",
			Code:    string(errors.ErrCodeEntityInUse),
		}}})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("department deleted", "department_id", id)
	return nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
