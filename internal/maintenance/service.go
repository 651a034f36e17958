package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	requestDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/request"
	"github.com/frahmantamala/gearguard/internal/core/events"
	"github.com/frahmantamala/gearguard/internal/store"
	"github.com/frahmantamala/gearguard/pkg/logger"
	"github.com/shopspring/decimal"
)

type RepositoryAPI interface {
	StageStore
	List(ctx context.Context, q Query) ([]*requestDatamodel.MaintenanceRequest, error)
	ListScheduled(ctx context.Context, from, to *time.Time) ([]*requestDatamodel.MaintenanceRequest, error)
	Create(ctx context.Context, r *requestDatamodel.MaintenanceRequest) error
	Delete(ctx context.Context, id int64) error
	CountOpenByEquipment(ctx context.Context, equipmentID int64) (int64, error)
}

// ReferenceChecker answers whether a referenced record exists.
type ReferenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo      RepositoryAPI
	equipment EquipmentReader
	teams     ReferenceChecker
	users     ReferenceChecker
	resolver  *Resolver
	lifecycle *Lifecycle
	tx        store.TxManager
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, lifecycle *Lifecycle, resolver *Resolver, equipment EquipmentReader, teams, users ReferenceChecker, tx store.TxManager, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		equipment: equipment,
		teams:     teams,
		users:     users,
		resolver:  resolver,
		lifecycle: lifecycle,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
	}
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

// CreateRequest opens a request in stage new owned by actingUserID. When no
// team is supplied the equipment's current maintenance team is assigned.
func (s *Service) CreateRequest(ctx context.Context, dto CreateRequestDTO, actingUserID int64) (*RequestView, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	row := &requestDatamodel.MaintenanceRequest{
		Subject:              strings.TrimSpace(dto.Subject),
		Description:          dto.Description,
		Type:                 dto.Type,
		Priority:             string(PriorityMedium),
		Stage:                string(StageNew),
		EquipmentID:          dto.EquipmentID,
		AssignedTechnicianID: dto.AssignedTechnicianID,
		CreatedByID:          actingUserID,
		ScheduledDate:        dto.ScheduledDate.Ptr(),
		CompletionDate:       dto.CompletionDate.Ptr(),
	}
	if dto.Priority != "" {
		row.Priority = dto.Priority
	}
	if dto.HoursSpent != nil {
		row.HoursSpent = decimal.NewNullDecimal(*dto.HoursSpent)
	}

	if dto.AssignedTeamID == nil {
		teamID, err := s.resolver.ResolveTeamForEquipment(ctx, dto.EquipmentID)
		if err != nil {
			return nil, errors.NewInternalError("failed to resolve maintenance team", err)
		}
		if teamID == nil {
			return nil, errors.NewReferenceError("equipment_id", fmt.Sprintf("equipment %d does not exist", dto.EquipmentID))
		}
		row.AssignedTeamID = *teamID
	} else {
		if _, err := s.equipment.GetByID(ctx, dto.EquipmentID); err != nil {
			if errors.IsType(err, errors.ErrorTypeNotFound) {
				return nil, errors.NewReferenceError("equipment_id", fmt.Sprintf("equipment %d does not exist", dto.EquipmentID))
			}
			return nil, errors.NewInternalError("failed to load equipment", err)
		}
		if err := s.checkReference(ctx, s.teams, "assigned_team_id", *dto.AssignedTeamID); err != nil {
			return nil, err
		}
		row.AssignedTeamID = *dto.AssignedTeamID
	}
	if row.AssignedTechnicianID != nil {
		if err := s.checkReference(ctx, s.users, "assigned_technician_id", *row.AssignedTechnicianID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, row); err != nil {
		logger.Attach(ctx, s.logger).Warn("failed to create request", "equipment_id", row.EquipmentID, "error", err)
		return nil, err
	}

	logger.Attach(ctx, s.logger).Info("request created",
		"request_id", row.ID,
		"equipment_id", row.EquipmentID,
		"assigned_team_id", row.AssignedTeamID,
		"created_by", actingUserID)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewRequestCreatedEvent(row.ID, row.EquipmentID, row.AssignedTeamID, row.Type, actingUserID)); err != nil {
			s.logger.Error("failed to publish request created", "request_id", row.ID, "error", err)
		}
	}
	return s.GetRequest(ctx, row.ID)
}

func (s *Service) GetRequest(ctx context.Context, id int64) (*RequestView, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewRequestView(row, true), nil
}

func (s *Service) ListRequests(ctx context.Context, q Query) ([]*RequestView, error) {
	rows, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("failed to list requests", "error", err)
		return nil, err
	}
	return NewRequestViews(rows), nil
}

// ListByEquipment lists every request of one piece of equipment, newest first.
func (s *Service) ListByEquipment(ctx context.Context, equipmentID int64) ([]*RequestView, error) {
	if _, err := s.equipment.GetByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	q := Query{Page: 1, Sort: []SortField{{Column: "created_at", Desc: true}}}
	return s.ListRequests(ctx, q.Where("equipment_id", equipmentID))
}

// ListCalendar returns requests with a scheduled date inside [from, to].
// Either bound may be nil.
func (s *Service) ListCalendar(ctx context.Context, from, to *time.Time) ([]*RequestView, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, errors.NewValidationFieldError("to", "to must not be before from", errors.ErrCodeOutOfRange)
	}
	rows, err := s.repo.ListScheduled(ctx, from, to)
	if err != nil {
		s.logger.Error("failed to list calendar", "error", err)
		return nil, err
	}
	return NewRequestViews(rows), nil
}

// UpdateRequest applies a typed patch. A stage in the patch goes through the
// same transition table and side effects as SetStage.
func (s *Service) UpdateRequest(ctx context.Context, id int64, dto UpdateRequestDTO) (*RequestView, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	var outcome Outcome
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.applyPatch(ctx, row, dto); err != nil {
			return err
		}
		if dto.Stage != nil {
			to, err := ParseStage(*dto.Stage)
			if err != nil {
				return err
			}
			if outcome, err = s.lifecycle.Apply(ctx, row, to); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, row)
	})
	if err != nil {
		logger.Attach(ctx, s.logger).Warn("failed to update request", "request_id", id, "error", err)
		return nil, err
	}

	if dto.Stage != nil {
		s.lifecycle.Publish(ctx, outcome)
	}
	return s.GetRequest(ctx, id)
}

func (s *Service) applyPatch(ctx context.Context, row *requestDatamodel.MaintenanceRequest, dto UpdateRequestDTO) error {
	if dto.Subject != nil {
		row.Subject = strings.TrimSpace(*dto.Subject)
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.Priority != nil {
		row.Priority = *dto.Priority
	}
	if dto.AssignedTeamID != nil {
		if err := s.checkReference(ctx, s.teams, "assigned_team_id", *dto.AssignedTeamID); err != nil {
			return err
		}
		row.AssignedTeamID = *dto.AssignedTeamID
	}
	if dto.AssignedTechnicianID != nil {
		if *dto.AssignedTechnicianID == 0 {
			row.AssignedTechnicianID = nil
		} else {
			if err := s.checkReference(ctx, s.users, "assigned_technician_id", *dto.AssignedTechnicianID); err != nil {
				return err
			}
			technician := *dto.AssignedTechnicianID
			row.AssignedTechnicianID = &technician
		}
	}
	if d := dto.ScheduledDate.Ptr(); d != nil {
		row.ScheduledDate = d
	}
	if d := dto.CompletionDate.Ptr(); d != nil {
		row.CompletionDate = d
	}
	if dto.HoursSpent != nil {
		row.HoursSpent = decimal.NewNullDecimal(*dto.HoursSpent)
	}
	return nil
}

func (s *Service) SetStage(ctx context.Context, id int64, dto SetStageDTO) (*RequestView, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if _, err := s.lifecycle.SetStage(ctx, id, dto.Stage); err != nil {
		return nil, err
	}
	return s.GetRequest(ctx, id)
}

// DeleteRequest removes a request regardless of its stage.
func (s *Service) DeleteRequest(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Attach(ctx, s.logger).Info("request deleted", "request_id", id)
	return nil
}
