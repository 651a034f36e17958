package team

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
)

type Member struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Team struct {
	ID          int64     `json:"id"`
	Name        string    `json:"team_name"`
	Description string    `json:"description"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewTeam(name, description string) *Team {
	return &Team{
		Name:        strings.TrimSpace(name),
		Description: description,
		Members:     []Member{},
	}
}

// ValidateRecord checks the write-time constraints of a team row.
func ValidateRecord(t *teamDatamodel.MaintenanceTeam) *errors.AppError {
	v := validation.NewValidator()
	v.Field("team_name", t.Name).Required().MaxLength(120)
	v.Field("description", t.Description).Required()
	return v.Validate()
}

func ToDataModel(t *Team) *teamDatamodel.MaintenanceTeam {
	return &teamDatamodel.MaintenanceTeam{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(t *teamDatamodel.MaintenanceTeam) *Team {
	members := make([]Member, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, Member{ID: m.ID, Name: m.Name, Email: m.Email, Role: m.Role})
	}
	return &Team{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Members:     members,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
