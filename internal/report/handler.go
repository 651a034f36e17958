package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/gearguard/internal/transport"
)

type ServiceAPI interface {
	StageSummary(ctx context.Context) ([]StageCount, error)
	TeamWorkload(ctx context.Context) ([]TeamWorkload, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.StageSummary(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteList(w, rows, len(rows))
}

func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.TeamWorkload(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteList(w, rows, len(rows))
}
