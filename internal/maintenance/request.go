package maintenance

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	requestDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/request"
)

type Stage string

const (
	StageNew        Stage = "new"
	StageInProgress Stage = "in-progress"
	StageRepaired   Stage = "repaired"
	StageScrap      Stage = "scrap"
)

var Stages = []Stage{StageNew, StageInProgress, StageRepaired, StageScrap}

// IsOpen reports whether work on the request is still pending.
func (s Stage) IsOpen() bool {
	return s == StageNew || s == StageInProgress
}

func (s Stage) Valid() bool {
	for _, st := range Stages {
		if s == st {
			return true
		}
	}
	return false
}

type Type string

const (
	TypeCorrective Type = "corrective"
	TypePreventive Type = "preventive"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// hoursPrecision and hoursScale mirror the hours_spent NUMERIC(10, 2) column.
const (
	hoursPrecision = 10
	hoursScale     = 2
)

var (
	stageValues    = []string{string(StageNew), string(StageInProgress), string(StageRepaired), string(StageScrap)}
	typeValues     = []string{string(TypeCorrective), string(TypePreventive)}
	priorityValues = []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh)}
)

// ParseStage rejects anything outside the declared stages with a field error
// on "stage". Values must match exactly, surrounding whitespace included.
func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !s.Valid() {
		return "", errors.NewValidationFieldError("stage",
			fmt.Sprintf("stage must be one of: %s", strings.Join(stageValues, ", ")),
			errors.ErrCodeInvalidEnum)
	}
	return s, nil
}

// ValidateRecord checks the write-time constraints of a request row.
func ValidateRecord(r *requestDatamodel.MaintenanceRequest) *errors.AppError {
	v := validation.NewValidator()
	v.Field("subject", r.Subject).Required().MaxLength(200)
	v.Field("description", r.Description).Required()
	v.Field("type", r.Type).Required().OneOf(typeValues...)
	v.Field("priority", r.Priority).Required().OneOf(priorityValues...)
	v.Field("stage", r.Stage).Required().OneOf(stageValues...)
	v.Field("equipment_id", r.EquipmentID).Required()
	v.Field("assigned_team_id", r.AssignedTeamID).Required()
	v.Field("created_by", r.CreatedByID).Required()
	v.Field("hours_spent", r.HoursSpent).NonNegative().Precision(hoursPrecision, hoursScale)
	return v.Validate()
}
