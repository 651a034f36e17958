package maintenance

import (
	"time"

	requestDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/request"
	"github.com/shopspring/decimal"
)

type EquipmentRef struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Category     string `json:"category,omitempty"`
	Location     string `json:"location,omitempty"`
	Status       string `json:"status,omitempty"`
}

type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"team_name"`
}

type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RequestView is a request with its references expanded. A reference whose
// record no longer exists is null.
type RequestView struct {
	ID                   int64            `json:"id"`
	Subject              string           `json:"subject"`
	Description          string           `json:"description"`
	Type                 Type             `json:"type"`
	Priority             Priority         `json:"priority"`
	Stage                Stage            `json:"stage"`
	EquipmentID          int64            `json:"equipment_id"`
	Equipment            *EquipmentRef    `json:"equipment"`
	AssignedTeamID       int64            `json:"assigned_team_id"`
	AssignedTeam         *TeamRef         `json:"assigned_team"`
	AssignedTechnicianID *int64           `json:"assigned_technician_id"`
	AssignedTechnician   *UserRef         `json:"assigned_technician"`
	CreatedByID          int64            `json:"created_by_id"`
	CreatedBy            *UserRef         `json:"created_by"`
	ScheduledDate        *time.Time       `json:"scheduled_date"`
	CompletionDate       *time.Time       `json:"completion_date"`
	HoursSpent           *decimal.Decimal `json:"hours_spent"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// NewRequestView projects a row. detailed adds category, location and status
// to the equipment reference, as the single-request fetch does.
func NewRequestView(r *requestDatamodel.MaintenanceRequest, detailed bool) *RequestView {
	v := &RequestView{
		ID:                   r.ID,
		Subject:              r.Subject,
		Description:          r.Description,
		Type:                 Type(r.Type),
		Priority:             Priority(r.Priority),
		Stage:                Stage(r.Stage),
		EquipmentID:          r.EquipmentID,
		AssignedTeamID:       r.AssignedTeamID,
		AssignedTechnicianID: r.AssignedTechnicianID,
		CreatedByID:          r.CreatedByID,
		ScheduledDate:        r.ScheduledDate,
		CompletionDate:       r.CompletionDate,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if r.HoursSpent.Valid {
		h := r.HoursSpent.Decimal
		v.HoursSpent = &h
	}
	if e := r.Equipment; e != nil && e.ID != 0 {
		v.Equipment = &EquipmentRef{ID: e.ID, Name: e.Name, SerialNumber: e.SerialNumber}
		if detailed {
			v.Equipment.Category = e.Category
			v.Equipment.Location = e.Location
			v.Equipment.Status = e.Status
		}
	}
	if t := r.AssignedTeam; t != nil && t.ID != 0 {
		v.AssignedTeam = &TeamRef{ID: t.ID, Name: t.Name}
	}
	if u := r.AssignedTechnician; u != nil && u.ID != 0 {
		v.AssignedTechnician = &UserRef{ID: u.ID, Name: u.Name}
	}
	if u := r.CreatedBy; u != nil && u.ID != 0 {
		v.CreatedBy = &UserRef{ID: u.ID, Name: u.Name}
	}
	return v
}

func NewRequestViews(rows []*requestDatamodel.MaintenanceRequest) []*RequestView {
	out := make([]*RequestView, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewRequestView(row, false))
	}
	return out
}
