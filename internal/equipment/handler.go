package equipment

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	"github.com/frahmantamala/gearguard/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, q ListEquipmentQuery) ([]*Equipment, error)
	Get(ctx context.Context, id int64) (*Equipment, error)
	Create(ctx context.Context, dto CreateEquipmentDTO) (*Equipment, error)
	Update(ctx context.Context, id int64, dto UpdateEquipmentDTO) (*Equipment, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, q ListEquipmentQuery, w io.Writer) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	now     func() time.Time
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		now:         time.Now,
	}
}

func parseListQuery(r *http.Request) (ListEquipmentQuery, error) {
	values := r.URL.Query()
	q := ListEquipmentQuery{
		Status:   values.Get("status"),
		Category: values.Get("category"),
	}
	for field, dst := range map[string]*int64{"department_id": &q.DepartmentID, "maintenance_team_id": &q.TeamID} {
		raw := values.Get(field)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, errors.NewValidationFieldError(field, field+" must be an integer", errors.ErrCodeValidationFailed)
		}
		*dst = id
	}
	return q, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	items, err := h.Service.List(r.Context(), q)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteList(w, items, len(items))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	item, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, item)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateEquipmentDTO
	if err := validation.DecodeStrict(r.Body, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	item, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Log(r).Warn("Handler: create equipment failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusCreated, item)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	var dto UpdateEquipmentDTO
	if err := validation.DecodeStrict(r.Body, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	item, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, item)
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
	h.WriteMessage(w, http.StatusOK, "equipment deleted")
}

// Export streams the filtered list as an XLSX attachment. The workbook is
// rendered into memory first so a failure can still answer with JSON.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), q, &buf); err != nil {
		h.Log(r).Error("Handler: equipment export failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+ExportFilename(h.now()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Log(r).Warn("Handler: write equipment export", "error", err)
	}
}
