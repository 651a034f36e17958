package postgres

import (
	"context"

	errors "github.com/frahmantamala/gearguard/internal"
	departmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/department"
	"github.com/frahmantamala/gearguard/internal/department"
	"github.com/frahmantamala/gearguard/internal/store"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) List(ctx context.Context) ([]*departmentDatamodel.Department, error) {
	var rows []*departmentDatamodel.Department
	err := store.Conn(ctx, r.db).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error) {
	var row departmentDatamodel.Department
	if err := store.Conn(ctx, r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, errors.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *DepartmentRepository) nameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var n int64
	err := store.Conn(ctx, r.db).Model(&departmentDatamodel.Department{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *DepartmentRepository) checkWrite(ctx context.Context, d *departmentDatamodel.Department) error {
	if err := department.ValidateRecord(d); err != nil {
		return err
	}
	taken, err := r.nameTaken(ctx, d.Name, d.ID)
	if err != nil {
		return err
	}
	if taken {
		return errDuplicateName
	}
	return nil
}

var errDuplicateName = errors.NewValidationFieldError("name", "department name already exists", errors.ErrCodeDuplicate)

func (r *DepartmentRepository) Create(ctx context.Context, d *departmentDatamodel.Department) error {
	if err := r.checkWrite(ctx, d); err != nil {
		return err
	}
	if err := store.Conn(ctx, r.db).Create(d).Error; err != nil {
		if store.IsDuplicateKey(err) {
			return errDuplicateName
		}
		return err
	}
	return nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d *departmentDatamodel.Department) error {
	if err := r.checkWrite(ctx, d); err != nil {
		return err
	}
	if err := store.Conn(ctx, r.db).Save(d).Error; err != nil {
		if store.IsDuplicateKey(err) {
			return errDuplicateName
		}
		return err
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	res := store.Conn(ctx, r.db).Delete(&departmentDatamodel.Department{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := store.Conn(ctx, r.db).Model(&departmentDatamodel.Department{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
