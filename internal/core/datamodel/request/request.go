package request

import (
	"time"

	"github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	"github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/shopspring/decimal"
)

// MaintenanceRequest references are plain ids without foreign key constraints:
// a request outlives the equipment, team or users it points at and projects
// the missing side as null.
type MaintenanceRequest struct {
	ID                   int64                 `gorm:"primaryKey"`
	Subject              string                `gorm:"column:subject;not null"`
	Description          string                `gorm:"column:description;not null"`
	Type                 string                `gorm:"column:type;not null"`
	Priority             string                `gorm:"column:priority;not null"`
	Stage                string                `gorm:"column:stage;not null;index"`
	EquipmentID          int64                 `gorm:"column:equipment_id;not null;index"`
	Equipment            *equipment.Equipment  `gorm:"foreignKey:EquipmentID"`
	AssignedTeamID       int64                 `gorm:"column:assigned_team_id;not null;index"`
	AssignedTeam         *team.MaintenanceTeam `gorm:"foreignKey:AssignedTeamID"`
	AssignedTechnicianID *int64                `gorm:"column:assigned_technician_id"`
	AssignedTechnician   *user.User            `gorm:"foreignKey:AssignedTechnicianID"`
	CreatedByID          int64                 `gorm:"column:created_by_id;not null"`
	CreatedBy            *user.User            `gorm:"foreignKey:CreatedByID"`
	ScheduledDate        *time.Time            `gorm:"column:scheduled_date;index"`
	CompletionDate       *time.Time            `gorm:"column:completion_date"`
	HoursSpent           decimal.NullDecimal   `gorm:"column:hours_spent;type:numeric(10,2)"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}
