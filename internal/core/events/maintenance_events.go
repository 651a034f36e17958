package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRequestCreated      = "request.created"
	EventTypeRequestStageChanged = "request.stage_changed"
	EventTypeEquipmentScrapped   = "equipment.scrapped"
)

type RequestCreatedEvent struct {
	BaseEvent
	RequestID   int64  `json:"request_id"`
	EquipmentID int64  `json:"equipment_id"`
	TeamID      int64  `json:"team_id"`
	Type        string `json:"type"`
	CreatedBy   int64  `json:"created_by"`
}

func NewRequestCreatedEvent(requestID, equipmentID, teamID int64, requestType string, createdBy int64) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":   requestID,
				"equipment_id": equipmentID,
				"team_id":      teamID,
				"type":         requestType,
				"created_by":   createdBy,
			},
		},
		RequestID:   requestID,
		EquipmentID: equipmentID,
		TeamID:      teamID,
		Type:        requestType,
		CreatedBy:   createdBy,
	}
}

type RequestStageChangedEvent struct {
	BaseEvent
	RequestID int64  `json:"request_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

func NewRequestStageChangedEvent(requestID int64, from, to string) *RequestStageChangedEvent {
	return &RequestStageChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestStageChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id": requestID,
				"from":       from,
				"to":         to,
			},
		},
		RequestID: requestID,
		From:      from,
		To:        to,
	}
}

type EquipmentScrappedEvent struct {
	BaseEvent
	EquipmentID int64 `json:"equipment_id"`
	RequestID   int64 `json:"request_id"`
}

func NewEquipmentScrappedEvent(equipmentID, requestID int64) *EquipmentScrappedEvent {
	return &EquipmentScrappedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEquipmentScrapped,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"equipment_id": equipmentID,
				"request_id":   requestID,
			},
		},
		EquipmentID: equipmentID,
		RequestID:   requestID,
	}
}
