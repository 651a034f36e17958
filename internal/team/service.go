package team

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	"github.com/frahmantamala/gearguard/internal/store"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*teamDatamodel.MaintenanceTeam, error)
	GetByID(ctx context.Context, id int64) (*teamDatamodel.MaintenanceTeam, error)
	Create(ctx context.Context, t *teamDatamodel.MaintenanceTeam) error
	Update(ctx context.Context, t *teamDatamodel.MaintenanceTeam) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	AddMember(ctx context.Context, teamID, userID int64) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
	ReplaceMembers(ctx context.Context, teamID int64, userIDs []int64) error
}

type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// EquipmentCounter reports how many equipment rows a team maintains.
type EquipmentCounter interface {
	CountByTeam(ctx context.Context, teamID int64) (int64, error)
}

type Service struct {
	repo      RepositoryAPI
	users     UserChecker
	equipment EquipmentCounter
	tx        store.TxManager
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, users UserChecker, equipment EquipmentCounter, tx store.TxManager, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		equipment: equipment,
		tx:        tx,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Team, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list teams", "error", err)
		return nil, err
	}
	out := make([]*Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Team, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) checkMembers(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		ok, err := s.users.Exists(ctx, id)
		if err != nil {
			return errors.NewInternalError("failed to check team member", err)
		}
		if !ok {
			return errors.NewReferenceError("member_ids", fmt.Sprintf("user %d does not exist", id))
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, dto CreateTeamDTO) (*Team, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.checkMembers(ctx, dto.MemberIDs); err != nil {
		return nil, err
	}

	row := ToDataModel(NewTeam(dto.Name, dto.Description))
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, row); err != nil {
			return err
		}
		if len(dto.MemberIDs) > 0 {
			return s.repo.ReplaceMembers(ctx, row.ID, dto.MemberIDs)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to create team", "team_name", row.Name, "error", err)
		return nil, err
	}

	s.logger.Info("team created", "team_id", row.ID, "members", len(dto.MemberIDs))
	return s.Get(ctx, row.ID)
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateTeamDTO) (*Team, error) {
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
	if dto.MemberIDs != nil {
		if err := s.checkMembers(ctx, *dto.MemberIDs); err != nil {
			return nil, err
		}
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, row); err != nil {
			return err
		}
		if dto.MemberIDs != nil {
			return s.repo.ReplaceMembers(ctx, id, *dto.MemberIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete refuses while any equipment is still maintained by the team.
// Requests keep their assigned_team id and project the team as null afterwards.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	n, err := s.equipment.CountByTeam(ctx, id)
	if err != nil {
		return errors.NewInternalError("failed to check team usage", err)
	}
	if n > 0 {
		s.logger.Info("team delete refused", "team_id", id, "equipment_count", n)
		return errors.ErrEntityInUse.WithDetails(errors.ValidationErrors{Errors: []errors.ValidationError{{
			Field:   "maintenance_team",
			Message: "team still maintains equipment",
			Code:    string(errors.ErrCodeEntityInUse),
		}}})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("team deleted", "team_id", id)
	return nil
}

func (s *Service) AddMember(ctx context.Context, teamID int64, dto AddMemberDTO) (*Team, error) {
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if ok, err := s.repo.Exists(ctx, teamID); err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.ErrTeamNotFound
	}
	ok, err := s.users.Exists(ctx, dto.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to check team member", err)
	}
	if !ok {
		return nil, errors.NewReferenceError("user_id", fmt.Sprintf("user %d does not exist", dto.UserID))
	}

	if err := s.repo.AddMember(ctx, teamID, dto.UserID); err != nil {
		return nil, err
	}
	return s.Get(ctx, teamID)
}

func (s *Service) RemoveMember(ctx context.Context, teamID, userID int64) (*Team, error) {
	if ok, err := s.repo.Exists(ctx, teamID); err != nil {
		return nil, err
	} else if !ok {
		return nil, errors.ErrTeamNotFound
	}
	if err := s.repo.RemoveMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.Get(ctx, teamID)
}

// Exists satisfies the reference checks of other domains.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
