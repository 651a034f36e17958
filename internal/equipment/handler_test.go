package equipment_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/gearguard/internal/equipment"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	updated *equipment.UpdateEquipmentDTO
}

func (s *stubService) List(ctx context.Context, q equipment.ListEquipmentQuery) ([]*equipment.Equipment, error) {
	return []*equipment.Equipment{}, nil
}

func (s *stubService) Get(ctx context.Context, id int64) (*equipment.Equipment, error) {
	return &equipment.Equipment{ID: id}, nil
}

func (s *stubService) Create(ctx context.Context, dto equipment.CreateEquipmentDTO) (*equipment.Equipment, error) {
	return &equipment.Equipment{ID: 1}, nil
}

func (s *stubService) Update(ctx context.Context, id int64, dto equipment.UpdateEquipmentDTO) (*equipment.Equipment, error) {
	s.updated = &dto
	return &equipment.Equipment{ID: id}, nil
}

func (s *stubService) Delete(ctx context.Context, id int64) error {
	return nil
}

func (s *stubService) Export(ctx context.Context, q equipment.ListEquipmentQuery, w io.Writer) error {
	return equipment.WriteXLSX(w, nil)
}

var _ = Describe("Equipment Handler", func() {
	var (
		svc    *stubService
		router chi.Router
	)

	BeforeEach(func() {
		svc = &stubService{}
		h := equipment.NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), svc)
		router = chi.NewRouter()
		router.Get("/equipment", h.List)
		router.Get("/equipment/export", h.Export)
		router.Put("/equipment/{id}", h.Update)
	})

	It("rejects serial_number in an update body", func() {
		req := httptest.NewRequest(http.MethodPut, "/equipment/3", strings.NewReader(`{"serial_number":"SN-X"}`))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		var body transport.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Success).To(BeFalse())
		Expect(body.Errors).To(HaveKey("serial_number"))
		Expect(svc.updated).To(BeNil())
	})

	It("passes a valid patch through", func() {
		req := httptest.NewRequest(http.MethodPut, "/equipment/3", strings.NewReader(`{"location":"Hall C"}`))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(*svc.updated.Location).To(Equal("Hall C"))
	})

	It("rejects a non-numeric department filter", func() {
		req := httptest.NewRequest(http.MethodGet, "/equipment?department_id=abc", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("serves the export as an xlsx attachment", func() {
		req := httptest.NewRequest(http.MethodGet, "/equipment/export", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal(equipment.XLSXContentType))
		Expect(rec.Header().Get("Content-Disposition")).To(MatchRegexp(`attachment; filename=equipment_\d{4}-\d{2}-\d{2}\.xlsx`))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})
})
