package postgres

import (
	"context"

	errors "github.com/frahmantamala/gearguard/internal"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	"github.com/frahmantamala/gearguard/internal/store"
	"github.com/frahmantamala/gearguard/internal/team"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) team.RepositoryAPI {
	return &TeamRepository{db: db}
}

var errDuplicateName = errors.NewValidationFieldError("team_name", "team name already exists", errors.ErrCodeDuplicate)

func (r *TeamRepository) List(ctx context.Context) ([]*teamDatamodel.MaintenanceTeam, error) {
	var rows []*teamDatamodel.MaintenanceTeam
	err := store.Conn(ctx, r.db).Preload("Members").Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*teamDatamodel.MaintenanceTeam, error) {
	var row teamDatamodel.MaintenanceTeam
	if err := store.Conn(ctx, r.db).Preload("Members").Where("id = ?", id).First(&row).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, errors.ErrTeamNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *TeamRepository) checkWrite(ctx context.Context, t *teamDatamodel.MaintenanceTeam) error {
	if err := team.ValidateRecord(t); err != nil {
		return err
	}
	var n int64
	if err := store.Conn(ctx, r.db).Model(&teamDatamodel.MaintenanceTeam{}).
		Where("name = ? AND id <> ?", t.Name, t.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return errDuplicateName
	}
	return nil
}

func (r *TeamRepository) Create(ctx context.Context, t *teamDatamodel.MaintenanceTeam) error {
	if err := r.checkWrite(ctx, t); err != nil {
		return err
	}
	if err := store.Conn(ctx, r.db).Omit(clause.Associations).Create(t).Error; err != nil {
		if store.IsDuplicateKey(err) {
			return errDuplicateName
		}
		return err
	}
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, t *teamDatamodel.MaintenanceTeam) error {
	if err := r.checkWrite(ctx, t); err != nil {
		return err
	}
	if err := store.Conn(ctx, r.db).Omit(clause.Associations).Save(t).Error; err != nil {
		if store.IsDuplicateKey(err) {
			return errDuplicateName
		}
		return err
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	db := store.Conn(ctx, r.db)
	if err := db.Where("team_id = ?", id).Delete(&teamDatamodel.TeamMember{}).Error; err != nil {
		return err
	}
	res := db.Delete(&teamDatamodel.MaintenanceTeam{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrTeamNotFound
	}
	return nil
}

func (r *TeamRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := store.Conn(ctx, r.db).Model(&teamDatamodel.MaintenanceTeam{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// AddMember is idempotent: adding an existing member is a no-op.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID int64) error {
	return store.Conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&teamDatamodel.TeamMember{TeamID: teamID, UserID: userID}).Error
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return store.Conn(ctx, r.db).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamDatamodel.TeamMember{}).Error
}

func (r *TeamRepository) ReplaceMembers(ctx context.Context, teamID int64, userIDs []int64) error {
	db := store.Conn(ctx, r.db)
	if err := db.Where("team_id = ?", teamID).Delete(&teamDatamodel.TeamMember{}).Error; err != nil {
		return err
	}
	seen := make(map[int64]struct{}, len(userIDs))
	rows := make([]teamDatamodel.TeamMember, 0, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, teamDatamodel.TeamMember{TeamID: teamID, UserID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}
