package maintenance

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	errors "github.com/frahmantamala/gearguard/internal"
	equipmentDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/equipment"
	requestDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/request"
	"github.com/frahmantamala/gearguard/internal/core/events"
	"github.com/frahmantamala/gearguard/internal/store"
	"github.com/frahmantamala/gearguard/pkg/logger"
)

const (
	equipmentScrapped = "scrapped"
	scrapMaxAttempts  = 3
)

// SideEffect names an action a stage transition triggers on another entity.
type SideEffect string

const SideEffectScrapEquipment SideEffect = "scrap_equipment"

type Transition struct {
	From Stage
	To   Stage
}

// Transitions maps every pair of declared stages to its side effects. Any
// transition between declared stages is allowed; entering scrap, from any
// stage including scrap itself, scraps the equipment.
var Transitions = buildTransitions()

func buildTransitions() map[Transition][]SideEffect {
	table := make(map[Transition][]SideEffect, len(Stages)*len(Stages))
	for _, from := range Stages {
		for _, to := range Stages {
			var effects []SideEffect
			if to == StageScrap {
				effects = []SideEffect{SideEffectScrapEquipment}
			}
			table[Transition{From: from, To: to}] = effects
		}
	}
	return table
}

// EquipmentStore is what the scrap cascade needs from the equipment repository.
type EquipmentStore interface {
	EquipmentReader
	UpdateStatus(ctx context.Context, id, expectedVersion int64, status string) (bool, error)
}

// StageStore is what the lifecycle needs from the request repository.
type StageStore interface {
	GetByID(ctx context.Context, id int64) (*requestDatamodel.MaintenanceRequest, error)
	Update(ctx context.Context, r *requestDatamodel.MaintenanceRequest) error
}

// Outcome records what a transition did, for events published after commit.
type Outcome struct {
	RequestID         int64
	From              Stage
	To                Stage
	ScrappedEquipment int64
}

func (o Outcome) Changed() bool {
	return o.From != o.To
}

type Lifecycle struct {
	requests  StageStore
	equipment EquipmentStore
	tx        store.TxManager
	publisher events.Publisher
	policy    errors.MissingEquipmentPolicy
	logger    *slog.Logger
}

func NewLifecycle(requests StageStore, equipment EquipmentStore, tx store.TxManager, publisher events.Publisher, policy errors.MissingEquipmentPolicy, logger *slog.Logger) *Lifecycle {
	if policy == "" {
		policy = errors.MissingEquipmentProceed
	}
	return &Lifecycle{
		requests:  requests,
		equipment: equipment,
		tx:        tx,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
	}
}

// SetStage moves a request to target and runs the transition's side effects
// in the same transaction as the stage write.
func (l *Lifecycle) SetStage(ctx context.Context, requestID int64, target string) (*requestDatamodel.MaintenanceRequest, error) {
	to, err := ParseStage(target)
	if err != nil {
		return nil, err
	}

	var (
		row     *requestDatamodel.MaintenanceRequest
		outcome Outcome
	)
	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		row, err = l.requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		outcome, err = l.Apply(ctx, row, to)
		if err != nil {
			return err
		}
		return l.requests.Update(ctx, row)
	})
	log := logger.Attach(ctx, l.logger)
	if err != nil {
		log.Warn("stage change failed", "request_id", requestID, "target", to, "error", err)
		return nil, err
	}

	log.Info("request stage changed", "request_id", requestID, "from", outcome.From, "to", outcome.To)
	l.Publish(ctx, outcome)
	return row, nil
}

// Apply runs the side effects of moving row to the target stage and sets
// row.Stage. It does not persist row; callers do that inside the same
// transaction.
func (l *Lifecycle) Apply(ctx context.Context, row *requestDatamodel.MaintenanceRequest, to Stage) (Outcome, error) {
	from := Stage(row.Stage)
	outcome := Outcome{RequestID: row.ID, From: from, To: to}

	effects, ok := Transitions[Transition{From: from, To: to}]
	if !ok {
		return outcome, errors.NewValidationFieldError("stage",
			fmt.Sprintf("cannot move from %s to %s", from, to), errors.ErrCodeInvalidEnum)
	}

	for _, effect := range effects {
		switch effect {
		case SideEffectScrapEquipment:
			scrapped, err := l.scrapEquipment(ctx, row)
			if err != nil {
				return outcome, err
			}
			if scrapped {
				outcome.ScrappedEquipment = row.EquipmentID
			}
		default:
			return outcome, errors.NewInternalError(fmt.Sprintf("unknown side effect %q", effect), nil)
		}
	}

	row.Stage = string(to)
	return outcome, nil
}

// scrapEquipment marks the request's equipment scrapped. It reports whether
// it wrote: already scrapped equipment is left alone, and missing equipment
// is handled by the configured policy.
func (l *Lifecycle) scrapEquipment(ctx context.Context, row *requestDatamodel.MaintenanceRequest) (bool, error) {
	for attempt := 1; attempt <= scrapMaxAttempts; attempt++ {
		eq, err := l.equipment.GetByID(ctx, row.EquipmentID)
		if stderrors.Is(err, errors.ErrEquipmentNotFound) {
			return false, l.missingEquipment(ctx, row)
		}
		if err != nil {
			return false, fmt.Errorf("load equipment %d: %w", row.EquipmentID, err)
		}
		if isScrapped(eq) {
			return false, nil
		}

		swapped, err := l.equipment.UpdateStatus(ctx, eq.ID, eq.Version, equipmentScrapped)
		if err != nil {
			return false, fmt.Errorf("scrap equipment %d: %w", eq.ID, err)
		}
		if swapped {
			return true, nil
		}
		logger.Attach(ctx, l.logger).Debug("equipment version moved, retrying scrap",
			"equipment_id", eq.ID, "version", eq.Version, "attempt", attempt)
	}
	return false, errors.ErrConcurrentModified.WithDetails(errors.ValidationErrors{Errors: []errors.ValidationError{{
		Field:   "equipment",
		Message: "equipment kept changing while it was being scrapped",
		Code:    string(errors.ErrCodeConcurrentModified),
	}}})
}

func (l *Lifecycle) missingEquipment(ctx context.Context, row *requestDatamodel.MaintenanceRequest) error {
	if l.policy == errors.MissingEquipmentBlock {
		return errors.NewReferenceError("equipment", fmt.Sprintf("equipment %d does not exist", row.EquipmentID))
	}
	logger.Attach(ctx, l.logger).Warn("scrapping request without equipment",
		"request_id", row.ID, "equipment_id", row.EquipmentID)
	return nil
}

func isScrapped(e *equipmentDatamodel.Equipment) bool {
	return e.Status == equipmentScrapped
}

// Publish emits the events for a committed transition.
func (l *Lifecycle) Publish(ctx context.Context, o Outcome) {
	if l.publisher == nil {
		return
	}
	if o.Changed() {
		if err := l.publisher.Publish(ctx, events.NewRequestStageChangedEvent(o.RequestID, string(o.From), string(o.To))); err != nil {
			l.logger.Error("failed to publish stage change", "request_id", o.RequestID, "error", err)
		}
	}
	if o.ScrappedEquipment != 0 {
		if err := l.publisher.Publish(ctx, events.NewEquipmentScrappedEvent(o.ScrappedEquipment, o.RequestID)); err != nil {
			l.logger.Error("failed to publish equipment scrap", "equipment_id", o.ScrappedEquipment, "error", err)
		}
	}
}
