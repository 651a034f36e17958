package user

import (
	"time"

	"github.com/frahmantamala/gearguard/internal/core/datamodel/department"
)

type User struct {
	ID           int64                  `gorm:"primaryKey"`
	Email        string                 `gorm:"column:email;uniqueIndex;not null"`
	Name         string                 `gorm:"column:name;not null"`
	PasswordHash string                 `gorm:"column:password_hash;not null"`
	Role         string                 `gorm:"column:role;not null"`
	DepartmentID *int64                 `gorm:"column:department_id"`
	Department   *department.Department `gorm:"foreignKey:DepartmentID"`
	IsActive     bool                   `gorm:"column:is_active;not null"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
