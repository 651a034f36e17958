package equipment

import (
	"github.com/frahmantamala/gearguard/internal/core/common/datetime"
)

type CreateEquipmentDTO struct {
	Name               string        `json:"name" validate:"required,notblank,max=200"`
	SerialNumber       string        `json:"serial_number" validate:"required,notblank,max=100"`
	Category           string        `json:"category" validate:"required,notblank,max=100"`
	Location           string        `json:"location" validate:"required,notblank,max=200"`
	PurchaseDate       datetime.Date `json:"purchase_date" validate:"required"`
	WarrantyExpiry     datetime.Date `json:"warranty_expiry" validate:"required"`
	ImageURL           *string       `json:"image_url,omitempty" validate:"omitempty,max=500"`
	Status             string        `json:"status,omitempty" validate:"omitempty,oneof=active maintenance scrapped"`
	DepartmentID       int64         `json:"department_id" validate:"required"`
	MaintenanceTeamID  int64         `json:"maintenance_team_id" validate:"required"`
	AssignedEmployeeID *int64        `json:"assigned_employee_id,omitempty"`
}

// UpdateEquipmentDTO is a typed patch. serial_number is not part of it and is
// rejected by the strict decoder. An assigned_employee_id of 0 or an empty
// image_url clears the field.
type UpdateEquipmentDTO struct {
	Name               *string        `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Category           *string        `json:"category,omitempty" validate:"omitempty,notblank,max=100"`
	Location           *string        `json:"location,omitempty" validate:"omitempty,notblank,max=200"`
	ImageURL           *string        `json:"image_url,omitempty" validate:"omitempty,max=500"`
	Status             *string        `json:"status,omitempty" validate:"omitempty,oneof=active maintenance scrapped"`
	DepartmentID       *int64         `json:"department_id,omitempty" validate:"omitempty,min=1"`
	MaintenanceTeamID  *int64         `json:"maintenance_team_id,omitempty" validate:"omitempty,min=1"`
	AssignedEmployeeID *int64         `json:"assigned_employee_id,omitempty" validate:"omitempty,min=0"`
	PurchaseDate       *datetime.Date `json:"purchase_date,omitempty"`
	WarrantyExpiry     *datetime.Date `json:"warranty_expiry,omitempty"`
}

// ListEquipmentQuery is read from the query string of GET /equipment.
type ListEquipmentQuery struct {
	Status       string `json:"status" validate:"omitempty,oneof=active maintenance scrapped"`
	Category     string `json:"category"`
	DepartmentID int64  `json:"department_id" validate:"omitempty,min=1"`
	TeamID       int64  `json:"maintenance_team_id" validate:"omitempty,min=1"`
}
