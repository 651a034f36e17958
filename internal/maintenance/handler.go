package maintenance

import (
	"context"
	"net/http"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/datetime"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	"github.com/frahmantamala/gearguard/internal/transport"
)

type ServiceAPI interface {
	CreateRequest(ctx context.Context, dto CreateRequestDTO, actingUserID int64) (*RequestView, error)
	GetRequest(ctx context.Context, id int64) (*RequestView, error)
	ListRequests(ctx context.Context, q Query) ([]*RequestView, error)
	ListByEquipment(ctx context.Context, equipmentID int64) ([]*RequestView, error)
	ListCalendar(ctx context.Context, from, to *time.Time) ([]*RequestView, error)
	UpdateRequest(ctx context.Context, id int64, dto UpdateRequestDTO) (*RequestView, error)
	SetStage(ctx context.Context, id int64, dto SetStageDTO) (*RequestView, error)
	DeleteRequest(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	views, err := h.Service.ListRequests(r.Context(), q)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if len(q.Select) == 0 {
		h.WriteList(w, views, len(views))
		return
	}
	projected, err := Project(views, q.Select)
	if err != nil {
		h.HandleServiceError(w, errors.NewInternalError("failed to project requests", err))
		return
	}
	h.WriteList(w, projected, len(projected))
}

func (h *Handler) ListByEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	views, err := h.Service.ListByEquipment(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteList(w, views, len(views))
}

func parseBound(r *http.Request, field string) (*time.Time, error) {
	raw := r.URL.Query().Get(field)
	if raw == "" {
		return nil, nil
	}
	t, err := datetime.Parse(raw)
	if err != nil {
		return nil, errors.NewValidationFieldError(field, err.Error(), errors.ErrCodeValidationFailed)
	}
	return &t, nil
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	from, err := parseBound(r, "from")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	to, err := parseBound(r, "to")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	views, err := h.Service.ListCalendar(r.Context(), from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteList(w, views, len(views))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	view, err := h.Service.GetRequest(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, view)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}
	var dto CreateRequestDTO
	if err := validation.DecodeStrict(r.Body, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	view, err := h.Service.CreateRequest(r.Context(), dto, actor.ID)
	if err != nil {
		h.Log(r).Warn("Handler: create request failed", "user_id", actor.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, view)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	var dto UpdateRequestDTO
	if err := validation.DecodeStrict(r.Body, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	view, err := h.Service.UpdateRequest(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, view)
}

func (h *Handler) SetStage(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	var dto SetStageDTO
	if err := validation.DecodeStrict(r.Body, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	view, err := h.Service.SetStage(r.Context(), id, dto)
	if err != nil {
		h.Log(r).Warn("Handler: set stage failed", "request_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, view)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if err := h.Service.DeleteRequest(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "request deleted")
}
