package team

import (
	"context"
	"net/http"

	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	"github.com/frahmantamala/gearguard/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Team, error)
	Get(ctx context.Context, id int64) (*Team, error)
	Create(ctx context.Context, dto CreateTeamDTO) (*Team, error)
	Update(ctx context.Context, id int64, dto UpdateTeamDTO) (*Team, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, teamID int64, dto AddMemberDTO) (*Team, error)
	RemoveMember(ctx context.Context, teamID, userID int64) (*Team, error)
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
	teams, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteList(w, teams, len(teams))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	t, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, t)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateTeamDTO
	if err := validation.DecodeStrict(r.Body, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	t, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Log(r).Warn("Handler: create team failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	var dto UpdateTeamDTO
	if err := validation.DecodeStrict(r.Body, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	t, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "team deleted")
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	var dto AddMemberDTO
	if err := validation.DecodeStrict(r.Body, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	t, err := h.Service.AddMember(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, t)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	userID, err := h.ParseIDParam(r, "userID")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	t, err := h.Service.RemoveMember(r.Context(), id, userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, t)
}
