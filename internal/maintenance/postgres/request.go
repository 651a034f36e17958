package postgres

import (
	"context"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	requestDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/request"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) withRefs(ctx context.Context) *gorm.DB {
	return store.Conn(ctx, r.db).
		Preload("Equipment").
		Preload("AssignedTeam").
		Preload("AssignedTechnician").
		Preload("CreatedBy")
}

func (r *RequestRepository) List(ctx context.Context, q maintenance.Query) ([]*requestDatamodel.MaintenanceRequest, error) {
	tx := r.withRefs(ctx)

	where, args, err := q.Predicate()
	if err != nil {
		return nil, err
	}
	if where != "" {
		tx = tx.Where(where, args...)
	}
	for _, s := range q.Sort {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}
	if len(q.Sort) == 0 {
		tx = tx.Order("id ASC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset())
	}

	var rows []*requestDatamodel.MaintenanceRequest
	err = tx.Find(&rows).Error
	return rows, err
}

func (r *RequestRepository) ListScheduled(ctx context.Context, from, to *time.Time) ([]*requestDatamodel.MaintenanceRequest, error) {
	tx := r.withRefs(ctx).Where("scheduled_date IS NOT NULL")
	if from != nil {
		tx = tx.Where("scheduled_date >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("scheduled_date <= ?", *to)
	}

	var rows []*requestDatamodel.MaintenanceRequest
	err := tx.Order("scheduled_date ASC").Find(&rows).Error
	return rows, err
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*requestDatamodel.MaintenanceRequest, error) {
	var row requestDatamodel.MaintenanceRequest
	if err := r.withRefs(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, errors.ErrRequestNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *RequestRepository) Create(ctx context.Context, m *requestDatamodel.MaintenanceRequest) error {
	if err := maintenance.ValidateRecord(m); err != nil {
		return err
	}
	return store.Conn(ctx, r.db).Omit(clause.Associations).Create(m).Error
}

// Update writes the mutable columns only; type, equipment_id and created_by_id
// are fixed at creation.
func (r *RequestRepository) Update(ctx context.Context, m *requestDatamodel.MaintenanceRequest) error {
	if err := maintenance.ValidateRecord(m); err != nil {
		return err
	}
	now := time.Now()
	res := store.Conn(ctx, r.db).Model(&requestDatamodel.MaintenanceRequest{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"subject":                m.Subject,
			"description":            m.Description,
			"priority":               m.Priority,
			"stage":                  m.Stage,
			"assigned_team_id":       m.AssignedTeamID,
			"assigned_technician_id": m.AssignedTechnicianID,
			"scheduled_date":         m.ScheduledDate,
			"completion_date":        m.CompletionDate,
			"hours_spent":            m.HoursSpent,
			"updated_at":             now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrRequestNotFound
	}
	m.UpdatedAt = now
	return nil
}

func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	res := store.Conn(ctx, r.db).Delete(&requestDatamodel.MaintenanceRequest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) CountOpenByEquipment(ctx context.Context, equipmentID int64) (int64, error) {
	var n int64
	err := store.Conn(ctx, r.db).Model(&requestDatamodel.MaintenanceRequest{}).
		Where("equipment_id = ? AND stage IN ?", equipmentID, []string{string(maintenance.StageNew), string(maintenance.StageInProgress)}).
		Count(&n).Error
	return n, err
}
