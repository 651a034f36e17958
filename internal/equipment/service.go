package equipment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
)

type RepositoryAPI interface {
	List(ctx context.Context, q ListEquipmentQuery) ([]*equipmentDatamodel.Equipment, error)
	GetByID(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error)
	Create(ctx context.Context, e *equipmentDatamodel.Equipment) error
	Update(ctx context.Context, e *equipmentDatamodel.Equipment) error
	UpdateStatus(ctx context.Context, id, expectedVersion int64, status string) (bool, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	CountByDepartment(ctx context.Context, departmentID int64) (int64, error)
	CountByTeam(ctx context.Context, teamID int64) (int64, error)
}

// ReferenceChecker answers whether a referenced record exists.
type ReferenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// OpenRequestCounter reports requests still in stage new or in-progress for a piece of equipment.
type OpenRequestCounter interface {
	CountOpenByEquipment(ctx context.Context, equipmentID int64) (int64, error)
}

type Service struct {
	repo        RepositoryAPI
	departments ReferenceChecker
	teams       ReferenceChecker
	users       ReferenceChecker
	requests    OpenRequestCounter
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, departments, teams, users ReferenceChecker, requests OpenRequestCounter, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		departments: departments,
		teams:       teams,
		users:       users,
		requests:    requests,
		logger:      logger,
	}
}

func (s *Service) List(ctx context.Context, q ListEquipmentQuery) ([]*Equipment, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("failed to list equipment", "error", err)
		return nil, err
	}
	out := make([]*Equipment, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Equipment, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) checkReference(ctx context.Context, checker ReferenceChecker, field string, id int64) error {
	ok, err := checker.Exists(ctx, id)
	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to check %s", field), err)
	}
	if !ok {
		return errors.NewReferenceError(field, fmt.Sprintf("%s %d does not exist", strings.TrimSuffix(field, "_id"), id))
	}
	return nil
}

func (s *Service) checkReferences(ctx context.Context, row *equipmentDatamodel.Equipment) error {
	if err := s.checkReference(ctx, s.departments, "department_id", row.DepartmentID); err != nil {
		return err
	}
	if err := s.checkReference(ctx, s.teams, "maintenance_team_id", row.MaintenanceTeamID); err != nil {
		return err
	}
	if row.AssignedEmployeeID != nil {
		if err := s.checkReference(ctx, s.users, "assigned_employee_id", *row.AssignedEmployeeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, dto CreateEquipmentDTO) (*Equipment, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	status := StatusActive
	if dto.Status != "" {
		status = Status(dto.Status)
	}
	row := ToDataModel(&Equipment{
		Name:               dto.Name,
		SerialNumber:       dto.SerialNumber,
		Category:           dto.Category,
		Location:           dto.Location,
		PurchaseDate:       dto.PurchaseDate.Time,
		WarrantyExpiry:     dto.WarrantyExpiry.Time,
		ImageURL:           dto.ImageURL,
		Status:             status,
		DepartmentID:       dto.DepartmentID,
		MaintenanceTeamID:  dto.MaintenanceTeamID,
		AssignedEmployeeID: dto.AssignedEmployeeID,
	})
	if err := s.checkReferences(ctx, row); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Warn("failed to create equipment", "serial_number", row.SerialNumber, "error", err)
		return nil, err
	}

	s.logger.Info("equipment created", "equipment_id", row.ID, "serial_number", row.SerialNumber)
	return s.Get(ctx, row.ID)
}

func applyPatch(row *equipmentDatamodel.Equipment, dto UpdateEquipmentDTO) {
	if dto.Name != nil {
		row.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Category != nil {
		row.Category = *dto.Category
	}
	if dto.Location != nil {
		row.Location = *dto.Location
	}
	if dto.ImageURL != nil {
		if *dto.ImageURL == "" {
			row.ImageURL = nil
		} else {
			url := *dto.ImageURL
			row.ImageURL = &url
		}
	}
	if dto.Status != nil {
		row.Status = *dto.Status
	}
	if dto.DepartmentID != nil {
		row.DepartmentID = *dto.DepartmentID
	}
	if dto.MaintenanceTeamID != nil {
		row.MaintenanceTeamID = *dto.MaintenanceTeamID
	}
	if dto.AssignedEmployeeID != nil {
		if *dto.AssignedEmployeeID == 0 {
			row.AssignedEmployeeID = nil
		} else {
			id := *dto.AssignedEmployeeID
			row.AssignedEmployeeID = &id
		}
	}
	if d := dto.PurchaseDate.Ptr(); d != nil {
		row.PurchaseDate = *d
	}
	if d := dto.WarrantyExpiry.Ptr(); d != nil {
		row.WarrantyExpiry = *d
	}
}

// Update applies a typed patch. Changing the maintenance team does not touch
// existing requests; their assigned team was fixed at creation.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateEquipmentDTO) (*Equipment, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	row.Department, row.MaintenanceTeam, row.AssignedEmployee = nil, nil, nil
	applyPatch(row, dto)
	if err := s.checkReferences(ctx, row); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Warn("failed to update equipment", "equipment_id", id, "error", err)
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete refuses while an open request still points at the equipment.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	n, err := s.requests.CountOpenByEquipment(ctx, id)
	if err != nil {
		return errors.NewInternalError("failed to check equipment usage", err)
	}
	if n > 0 {
		s.logger.Info("equipment delete refused", "equipment_id", id, "open_requests", n)
		return errors.ErrEntityInUse.WithDetails(errors.ValidationErrors{Errors: []errors.ValidationError{{
			Field:   "equipment",
			Message: "equipment has open maintenance requests",
			Code:    string(errors.ErrCodeEntityInUse),
		}}})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("equipment deleted", "equipment_id", id)
	return nil
}

func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
