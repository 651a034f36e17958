package equipment

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusScrapped    Status = "scrapped"
)

var Statuses = []string{string(StatusActive), string(StatusMaintenance), string(StatusScrapped)}

type DepartmentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"team_name"`
}

type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Equipment struct {
	ID                 int64          `json:"id"`
	Name               string         `json:"name"`
	SerialNumber       string         `json:"serial_number"`
	Category           string         `json:"category"`
	Location           string         `json:"location"`
	PurchaseDate       time.Time      `json:"purchase_date"`
	WarrantyExpiry     time.Time      `json:"warranty_expiry"`
	ImageURL           *string        `json:"image_url"`
	Status             Status         `json:"status"`
	DepartmentID       int64          `json:"department_id"`
	Department         *DepartmentRef `json:"department"`
	MaintenanceTeamID  int64          `json:"maintenance_team_id"`
	MaintenanceTeam    *TeamRef       `json:"maintenance_team"`
	AssignedEmployeeID *int64         `json:"assigned_employee_id"`
	AssignedEmployee   *UserRef       `json:"assigned_employee"`
	Version            int64          `json:"version"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (e *Equipment) IsScrapped() bool {
	return e.Status == StatusScrapped
}

// ValidateRecord checks the write-time constraints of an equipment row.
func ValidateRecord(e *equipmentDatamodel.Equipment) *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", e.Name).Required().MaxLength(200)
	v.Field("serial_number", e.SerialNumber).Required().MaxLength(100)
	v.Field("category", e.Category).Required().MaxLength(100)
	v.Field("location", e.Location).Required().MaxLength(200)
	v.Field("purchase_date", e.PurchaseDate).Required()
	v.Field("warranty_expiry", e.WarrantyExpiry).Required()
	v.Field("status", e.Status).Required().OneOf(Statuses...)
	v.Field("department_id", e.DepartmentID).Required()
	v.Field("maintenance_team_id", e.MaintenanceTeamID).Required()
	return v.Validate()
}

func ToDataModel(e *Equipment) *equipmentDatamodel.Equipment {
	return &equipmentDatamodel.Equipment{
		ID:                 e.ID,
		Name:               strings.TrimSpace(e.Name),
		SerialNumber:       strings.TrimSpace(e.SerialNumber),
		Category:           e.Category,
		Location:           e.Location,
		PurchaseDate:       e.PurchaseDate,
		WarrantyExpiry:     e.WarrantyExpiry,
		ImageURL:           e.ImageURL,
		Status:             string(e.Status),
		DepartmentID:       e.DepartmentID,
		MaintenanceTeamID:  e.MaintenanceTeamID,
		AssignedEmployeeID: e.AssignedEmployeeID,
		Version:            e.Version,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// FromDataModel projects a row; unloaded or deleted references become nil.
func FromDataModel(e *equipmentDatamodel.Equipment) *Equipment {
	out := &Equipment{
		ID:                 e.ID,
		Name:               e.Name,
		SerialNumber:       e.SerialNumber,
		Category:           e.Category,
		Location:           e.Location,
		PurchaseDate:       e.PurchaseDate,
		WarrantyExpiry:     e.WarrantyExpiry,
		ImageURL:           e.ImageURL,
		Status:             Status(e.Status),
		DepartmentID:       e.DepartmentID,
		MaintenanceTeamID:  e.MaintenanceTeamID,
		AssignedEmployeeID: e.AssignedEmployeeID,
		Version:            e.Version,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
	if e.Department != nil && e.Department.ID != 0 {
		out.Department = &DepartmentRef{ID: e.Department.ID, Name: e.Department.Name}
	}
	if e.MaintenanceTeam != nil && e.MaintenanceTeam.ID != 0 {
		out.MaintenanceTeam = &TeamRef{ID: e.MaintenanceTeam.ID, Name: e.MaintenanceTeam.Name}
	}
	if e.AssignedEmployee != nil && e.AssignedEmployee.ID != 0 {
		out.AssignedEmployee = &UserRef{ID: e.AssignedEmployee.ID, Name: e.AssignedEmployee.Name}
	}
	return out
}
