package equipment

import (
	"time"

	"github.com/frahmantamala/gearguard/internal/core/datamodel/department"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/user"
)

type Equipment struct {
	ID                 int64                  `gorm:"primaryKey"`
	Name               string                 `gorm:"column:name;not null"`
	SerialNumber       string                 `gorm:"column:serial_number;uniqueIndex;not null"`
	Category           string                 `gorm:"column:category;not null"`
	Location           string                 `gorm:"column:location;not null"`
	PurchaseDate       time.Time              `gorm:"column:purchase_date;not null"`
	WarrantyExpiry     time.Time              `gorm:"column:warranty_expiry;not null"`
	ImageURL           *string                `gorm:"column:image_url"`
	Status             string                 `gorm:"column:status;not null;index"`
	DepartmentID       int64                  `gorm:"column:department_id;not null;index"`
	Department         *department.Department `gorm:"foreignKey:DepartmentID"`
	MaintenanceTeamID  int64                  `gorm:"column:maintenance_team_id;not null;index"`
	MaintenanceTeam    *team.MaintenanceTeam  `gorm:"foreignKey:MaintenanceTeamID"`
	AssignedEmployeeID *int64                 `gorm:"column:assigned_employee_id"`
	AssignedEmployee   *user.User             `gorm:"foreignKey:AssignedEmployeeID"`
	Version            int64                  `gorm:"column:version;not null"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (Equipment) TableName() string {
	return "equipment"
}
