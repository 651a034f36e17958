package maintenance_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	apperrors "github.com/frahmantamala/gearguard/internal"
	requestDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/request"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/store"
	"github.com/frahmantamala/gearguard/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Transitions", func() {
	It("declares every pair of stages", func() {
		Expect(maintenance.Transitions).To(HaveLen(len(maintenance.Stages) * len(maintenance.Stages)))
	})

	It("scraps equipment on every transition into scrap", func() {
		for _, from := range maintenance.Stages {
			effects := maintenance.Transitions[maintenance.Transition{From: from, To: maintenance.StageScrap}]
			Expect(effects).To(Equal([]maintenance.SideEffect{maintenance.SideEffectScrapEquipment}), "from %s", from)
		}
	})

	It("has no side effects elsewhere", func() {
		for _, from := range maintenance.Stages {
			for _, to := range []maintenance.Stage{maintenance.StageNew, maintenance.StageInProgress, maintenance.StageRepaired} {
				Expect(maintenance.Transitions[maintenance.Transition{From: from, To: to}]).To(BeEmpty())
			}
		}
	})
})

var _ = Describe("ParseStage", func() {
	DescribeTable("accepts declared stages",
		func(raw string, want maintenance.Stage) {
			got, err := maintenance.ParseStage(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("new", "new", maintenance.StageNew),
		Entry("in-progress", "in-progress", maintenance.StageInProgress),
		Entry("repaired", "repaired", maintenance.StageRepaired),
		Entry("scrap", "scrap", maintenance.StageScrap),
	)

	DescribeTable("rejects anything else on the stage field",
		func(raw string) {
			_, err := maintenance.ParseStage(raw)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Field()).To(Equal("stage"))
		},
		Entry("underscore spelling", "in_progress"),
		Entry("padded value", " scrap "),
		Entry("different case", "Scrap"),
		Entry("empty", ""),
	)
})

var _ = Describe("Lifecycle.Apply", func() {
	var (
		equipment *MockEquipmentStore
		lifecycle *maintenance.Lifecycle
	)

	BeforeEach(func() {
		equipment = NewMockEquipmentStore()
		equipment.add(1, 10, "SN-1")
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		lifecycle = maintenance.NewLifecycle(NewMockRequestRepository(), equipment, store.NoopTxManager{}, nil, "", logger)
	})

	It("reports the scrapped equipment in the outcome", func() {
		row := &requestDatamodel.MaintenanceRequest{ID: 5, Stage: "repaired", EquipmentID: 1}

		outcome, err := lifecycle.Apply(context.Background(), row, maintenance.StageScrap)

		Expect(err).NotTo(HaveOccurred())
		Expect(row.Stage).To(Equal("scrap"))
		Expect(outcome.Changed()).To(BeTrue())
		Expect(outcome.ScrappedEquipment).To(Equal(int64(1)))
	})

	It("defaults to proceeding when equipment is missing", func() {
		row := &requestDatamodel.MaintenanceRequest{ID: 5, Stage: "new", EquipmentID: 77}

		outcome, err := lifecycle.Apply(context.Background(), row, maintenance.StageScrap)

		Expect(err).NotTo(HaveOccurred())
		Expect(outcome.ScrappedEquipment).To(BeZero())
	})
})

var _ = Describe("Lifecycle.SetStage logging", func() {
	It("tags a failed stage change with the request's trace id", func() {
		var buf bytes.Buffer
		lifecycle := maintenance.NewLifecycle(NewMockRequestRepository(), NewMockEquipmentStore(),
			store.NoopTxManager{}, nil, "", slog.New(slog.NewTextHandler(&buf, nil)))
		ctx := logger.With(context.Background(), "trace_id", "trace-abc")

		_, err := lifecycle.SetStage(ctx, 404, "repaired")

		Expect(err).To(MatchError(apperrors.ErrRequestNotFound))
		Expect(buf.String()).To(ContainSubstring("stage change failed"))
		Expect(buf.String()).To(ContainSubstring("trace_id=trace-abc"))
	})
})
