package maintenance

import (
	"github.com/frahmantamala/gearguard/internal/core/common/datetime"
	"github.com/shopspring/decimal"
)

// CreateRequestDTO carries no stage or created_by: a new request always starts
// in stage new and is owned by the acting user.
type CreateRequestDTO struct {
	Subject              string           `json:"subject" validate:"required,notblank,max=200"`
	Description          string           `json:"description" validate:"required,notblank"`
	Type                 string           `json:"type" validate:"required,oneof=corrective preventive"`
	Priority             string           `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	EquipmentID          int64            `json:"equipment_id" validate:"required"`
	AssignedTeamID       *int64           `json:"assigned_team_id,omitempty" validate:"omitempty,min=1"`
	AssignedTechnicianID *int64           `json:"assigned_technician_id,omitempty" validate:"omitempty,min=1"`
	ScheduledDate        *datetime.Date   `json:"scheduled_date,omitempty"`
	CompletionDate       *datetime.Date   `json:"completion_date,omitempty"`
	HoursSpent           *decimal.Decimal `json:"hours_spent,omitempty" validate:"omitempty,nonneg,precision=10:2"`
}

// UpdateRequestDTO lists the mutable fields. type, equipment_id and
// created_by are absent so the strict decoder rejects them.
// An assigned_technician_id of 0 unassigns the technician.
type UpdateRequestDTO struct {
	Subject              *string          `json:"subject,omitempty" validate:"omitempty,notblank,max=200"`
	Description          *string          `json:"description,omitempty" validate:"omitempty,notblank"`
	Priority             *string          `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Stage                *string          `json:"stage,omitempty" validate:"omitempty,oneof=new in-progress repaired scrap"`
	AssignedTeamID       *int64           `json:"assigned_team_id,omitempty" validate:"omitempty,min=1"`
	AssignedTechnicianID *int64           `json:"assigned_technician_id,omitempty" validate:"omitempty,min=0"`
	ScheduledDate        *datetime.Date   `json:"scheduled_date,omitempty"`
	CompletionDate       *datetime.Date   `json:"completion_date,omitempty"`
	HoursSpent           *decimal.Decimal `json:"hours_spent,omitempty" validate:"omitempty,nonneg,precision=10:2"`
}

type SetStageDTO struct {
	Stage string `json:"stage" validate:"required"`
}
