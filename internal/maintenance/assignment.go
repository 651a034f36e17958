package maintenance

import (
	"context"
	stderrors "errors"

	errors "github.com/frahmantamala/gearguard/internal"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
)

// EquipmentReader is the read side of the equipment store.
type EquipmentReader interface {
	GetByID(ctx context.Context, id int64) (*equipmentDatamodel.Equipment, error)
}

// Resolver derives a request's responsible team from its equipment.
type Resolver struct {
	equipment EquipmentReader
}

func NewResolver(equipment EquipmentReader) *Resolver {
	return &Resolver{equipment: equipment}
}

// ResolveTeamForEquipment returns the equipment's maintenance team, or nil
// when the equipment does not exist. Store failures are returned as errors.
func (r *Resolver) ResolveTeamForEquipment(ctx context.Context, equipmentID int64) (*int64, error) {
	e, err := r.equipment.GetByID(ctx, equipmentID)
	if stderrors.Is(err, errors.ErrEquipmentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	teamID := e.MaintenanceTeamID
	return &teamID, nil
}
