package postgres

import (
	"context"
	"strings"

	errors "github.com/frahmantamala/gearguard/internal"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/store"
	"github.com/frahmantamala/gearguard/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.RepositoryAPI = (*UserRepository)(nil)

var errDuplicateEmail = errors.NewValidationFieldError("email", "email is already registered", errors.ErrCodeDuplicate)

func (r *UserRepository) List(ctx context.Context, role string) ([]*userDatamodel.User, error) {
	var rows []*userDatamodel.User
	q := store.Conn(ctx, r.db).Order("name ASC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var row userDatamodel.User
	if err := store.Conn(ctx, r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if store.IsNotFound(err) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := store.Conn(ctx, r.db).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&row).Error
	if err != nil {
		if store.IsNotFound(err) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	if err := user.ValidateRecord(u); err != nil {
		return err
	}

	var n int64
	if err := store.Conn(ctx, r.db).Model(&userDatamodel.User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return errDuplicateEmail
	}

	if err := store.Conn(ctx, r.db).Omit("Department").Create(u).Error; err != nil {
		if store.IsDuplicateKey(err) {
			return errDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := store.Conn(ctx, r.db).Model(&userDatamodel.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
