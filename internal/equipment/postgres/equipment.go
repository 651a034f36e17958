package postgres

import (
	"context"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	"github.com/frahmantamala/gearguard/internal/equipment"
	"github.com/frahmantamala/gearguard/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

var errDuplicateSerial = errors.NewValidationFieldError("serial_number", "serial number already exists", errors.ErrCodeDuplicate)

func (r *EquipmentRepository) withRefs(ctx context.Context) *gorm.DB {
	return store.Conn(ctx, r.db).
		Preload("Department").
		Preload("MaintenanceTeam").
		Preload("AssignedEmployee")
}

func (r *EquipmentRepository) List(ctx context.Context, q equipment.ListEquipmentQuery) ([]*equipmentDatamodel.Equipment, error) {
	tx := r.withRefs(ctx)
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.DepartmentID != 0 {
		tx = tx.Where("department_id = ?", q.DepartmentID)
	}
	if q.TeamID != 0 {
		tx = tx.Where("maintenance_team_id = ?", q.TeamID)
	}

	var rows []*equipmentDatamodel.Equipment
	err := tx.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error) {
	var row equipmentDatamodel.Equipment
	if err := r.withRefs(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, errors.ErrEquipmentNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *EquipmentRepository) Create(ctx context.Context, e *equipmentDatamodel.Equipment) error {
	if err := equipment.ValidateRecord(e); err != nil {
		return err
	}
	db := store.Conn(ctx, r.db)

	var n int64
	if err := db.Model(&equipmentDatamodel.Equipment{}).Where("serial_number = ?", e.SerialNumber).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return errDuplicateSerial
	}

	e.Version = 1
	if err := db.Omit(clause.Associations).Create(e).Error; err != nil {
		if store.IsDuplicateKey(err) {
			return errDuplicateSerial
		}
		return err
	}
	return nil
}

// Update writes every mutable column guarded by the version the caller read.
// serial_number is never rewritten.
func (r *EquipmentRepository) Update(ctx context.Context, e *equipmentDatamodel.Equipment) error {
	if err := equipment.ValidateRecord(e); err != nil {
		return err
	}
	now := time.Now()
	res := store.Conn(ctx, r.db).Model(&equipmentDatamodel.Equipment{}).
		Where("id = ? AND version = ?", e.ID, e.Version).
		Updates(map[string]interface{}{
			"name":                 e.Name,
			"category":             e.Category,
			"location":             e.Location,
			"purchase_date":        e.PurchaseDate,
			"warranty_expiry":      e.WarrantyExpiry,
			"image_url":            e.ImageURL,
			"status":               e.Status,
			"department_id":        e.DepartmentID,
			"maintenance_team_id":  e.MaintenanceTeamID,
			"assigned_employee_id": e.AssignedEmployeeID,
			"version":              e.Version + 1,
			"updated_at":           now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missOrConflict(ctx, e.ID)
	}
	e.Version++
	e.UpdatedAt = now
	return nil
}

// UpdateStatus is a compare-and-swap on version. It reports false when the
// row moved on since expectedVersion was read.
func (r *EquipmentRepository) UpdateStatus(ctx context.Context, id, expectedVersion int64, status string) (bool, error) {
	res := store.Conn(ctx, r.db).Model(&equipmentDatamodel.Equipment{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    expectedVersion + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *EquipmentRepository) missOrConflict(ctx context.Context, id int64) error {
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrEquipmentNotFound
	}
	return errors.ErrConcurrentModified
}

func (r *EquipmentRepository) Delete(ctx context.Context, id int64) error {
	res := store.Conn(ctx, r.db).Delete(&equipmentDatamodel.Equipment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrEquipmentNotFound
	}
	return nil
}

func (r *EquipmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := store.Conn(ctx, r.db).Model(&equipmentDatamodel.Equipment{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *EquipmentRepository) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	var n int64
	err := store.Conn(ctx, r.db).Model(&equipmentDatamodel.Equipment{}).Where("department_id = ?", departmentID).Count(&n).Error
	return n, err
}

func (r *EquipmentRepository) CountByTeam(ctx context.Context, teamID int64) (int64, error) {
	var n int64
	err := store.Conn(ctx, r.db).Model(&equipmentDatamodel.Equipment{}).Where("maintenance_team_id = ?", teamID).Count(&n).Error
	return n, err
}
