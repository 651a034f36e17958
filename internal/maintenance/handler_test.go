package maintenance_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	apperrors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	createdBy int64
	patched   bool
	listed    *maintenance.Query
}

func (s *stubService) CreateRequest(ctx context.Context, dto maintenance.CreateRequestDTO, actingUserID int64) (*maintenance.RequestView, error) {
	s.createdBy = actingUserID
	return &maintenance.RequestView{ID: 1, Subject: dto.Subject, CreatedByID: actingUserID}, nil
}

func (s *stubService) GetRequest(ctx context.Context, id int64) (*maintenance.RequestView, error) {
	return nil, apperrors.ErrRequestNotFound
}

func (s *stubService) ListRequests(ctx context.Context, q maintenance.Query) ([]*maintenance.RequestView, error) {
	s.listed = &q
	return []*maintenance.RequestView{{ID: 1, Subject: "Belt", Stage: maintenance.StageNew}}, nil
}

func (s *stubService) ListByEquipment(ctx context.Context, equipmentID int64) ([]*maintenance.RequestView, error) {
	return nil, nil
}

func (s *stubService) ListCalendar(ctx context.Context, from, to *time.Time) ([]*maintenance.RequestView, error) {
	return []*maintenance.RequestView{}, nil
}

func (s *stubService) UpdateRequest(ctx context.Context, id int64, dto maintenance.UpdateRequestDTO) (*maintenance.RequestView, error) {
	s.patched = true
	return &maintenance.RequestView{ID: id}, nil
}

func (s *stubService) SetStage(ctx context.Context, id int64, dto maintenance.SetStageDTO) (*maintenance.RequestView, error) {
	return &maintenance.RequestView{ID: id, Stage: maintenance.Stage(dto.Stage)}, nil
}

func (s *stubService) DeleteRequest(ctx context.Context, id int64) error {
	return nil
}

func decodeEnvelope(rec *httptest.ResponseRecorder) transport.Envelope {
	var body transport.Envelope
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	return body
}

var _ = Describe("Request Handler", func() {
	var (
		svc    *stubService
		router chi.Router
	)

	BeforeEach(func() {
		svc = &stubService{}
		h := maintenance.NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), svc)
		router = chi.NewRouter()
		router.Get("/requests", h.List)
		router.Get("/requests/calendar", h.Calendar)
		router.Get("/requests/{id}", h.Get)
		router.Post("/requests", h.Create)
		router.Put("/requests/{id}", h.Update)
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	withActor := func(req *http.Request) *http.Request {
		return req.WithContext(apperrors.ContextWithActor(req.Context(), &apperrors.Actor{ID: 100, Role: "employee"}))
	}

	DescribeTable("rejects immutable or unknown fields in a patch",
		func(body, field string) {
			rec := serve(httptest.NewRequest(http.MethodPut, "/requests/1", strings.NewReader(body)))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			env := decodeEnvelope(rec)
			Expect(env.Success).To(BeFalse())
			Expect(env.Errors).To(HaveKey(field))
			Expect(svc.patched).To(BeFalse())
		},
		Entry("type", `{"type":"preventive"}`, "type"),
		Entry("equipment_id", `{"equipment_id":9}`, "equipment_id"),
		Entry("created_by", `{"created_by":9}`, "created_by"),
		Entry("unknown", `{"colour":"red"}`, "colour"),
	)

	It("creates on behalf of the authenticated user", func() {
		body := `{"subject":"Belt","description":"Worn","type":"corrective","equipment_id":1}`
		rec := serve(withActor(httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))))

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(svc.createdBy).To(Equal(int64(100)))
	})

	It("refuses a stage on creation", func() {
		body := `{"subject":"Belt","description":"Worn","type":"corrective","equipment_id":1,"stage":"scrap"}`
		rec := serve(withActor(httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeEnvelope(rec).Errors).To(HaveKey("stage"))
	})

	It("requires an authenticated user to create", func() {
		rec := serve(httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(`{}`)))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("lists with a count and passes reserved keys through", func() {
		rec := serve(httptest.NewRequest(http.MethodGet, "/requests?stage=new&sort=-created_at&limit=5", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		env := decodeEnvelope(rec)
		Expect(env.Success).To(BeTrue())
		Expect(*env.Count).To(Equal(1))
		Expect(svc.listed.Filter).To(HaveLen(1))
		Expect(svc.listed.Limit).To(Equal(5))
	})

	It("projects selected fields", func() {
		rec := serve(httptest.NewRequest(http.MethodGet, "/requests?select=subject", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body struct {
			Data []map[string]interface{} `json:"data"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Data[0]).To(HaveKey("subject"))
		Expect(body.Data[0]).NotTo(HaveKey("stage"))
	})

	It("answers 400 for an unknown filter field", func() {
		rec := serve(httptest.NewRequest(http.MethodGet, "/requests?colour=red", nil))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeEnvelope(rec).Errors).To(HaveKey("colour"))
	})

	It("answers 404 with the envelope for a missing request", func() {
		rec := serve(httptest.NewRequest(http.MethodGet, "/requests/7", nil))

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(decodeEnvelope(rec).Success).To(BeFalse())
	})

	It("rejects a malformed calendar bound", func() {
		rec := serve(httptest.NewRequest(http.MethodGet, "/requests/calendar?from=yesterday", nil))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeEnvelope(rec).Errors).To(HaveKey("from"))
	})
})
