package maintenance_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/datetime"
	"github.com/frahmantamala/gearguard/internal/core/events"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

const actingUser = int64(100)

var _ = Describe("Maintenance Service", func() {
	var (
		requests  *MockRequestRepository
		equipment *MockEquipmentStore
		publisher *recordingPublisher
		policy    apperrors.MissingEquipmentPolicy
		service   *maintenance.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		requests = NewMockRequestRepository()
		equipment = NewMockEquipmentStore()
		equipment.add(1, 10, "SN-1")
		equipment.add(2, 10, "SN-2")
		publisher = &recordingPublisher{}
		policy = apperrors.MissingEquipmentProceed
		ctx = context.Background()
	})

	JustBeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		lifecycle := maintenance.NewLifecycle(requests, equipment, store.NoopTxManager{}, publisher, policy, logger)
		service = maintenance.NewService(
			requests, lifecycle, maintenance.NewResolver(equipment), equipment,
			knownIDs{10: true, 11: true}, knownIDs{100: true, 200: true},
			store.NoopTxManager{}, publisher, logger,
		)
	})

	newRequest := func(equipmentID int64) maintenance.CreateRequestDTO {
		return maintenance.CreateRequestDTO{
			Subject:     "Leaking hydraulic line",
			Description: "Oil under the press",
			Type:        string(maintenance.TypeCorrective),
			EquipmentID: equipmentID,
		}
	}

	Describe("CreateRequest", func() {
		It("assigns the equipment's team when none is supplied", func() {
			view, err := service.CreateRequest(ctx, newRequest(1), actingUser)

			Expect(err).NotTo(HaveOccurred())
			Expect(view.AssignedTeamID).To(Equal(int64(10)))
		})

		It("starts in stage new with medium priority owned by the acting user", func() {
			view, err := service.CreateRequest(ctx, newRequest(1), actingUser)

			Expect(err).NotTo(HaveOccurred())
			Expect(view.Stage).To(Equal(maintenance.StageNew))
			Expect(view.Priority).To(Equal(maintenance.PriorityMedium))
			Expect(view.CreatedByID).To(Equal(actingUser))
			Expect(publisher.types()).To(ConsistOf(events.EventTypeRequestCreated))
		})

		It("keeps an explicitly supplied team", func() {
			dto := newRequest(1)
			team := int64(11)
			dto.AssignedTeamID = &team

			view, err := service.CreateRequest(ctx, dto, actingUser)

			Expect(err).NotTo(HaveOccurred())
			Expect(view.AssignedTeamID).To(Equal(int64(11)))
		})

		It("fails with a reference error and persists nothing for unknown equipment", func() {
			_, err := service.CreateRequest(ctx, newRequest(999), actingUser)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeReference))
			Expect(appErr.Field()).To(Equal("equipment_id"))
			Expect(requests.rows).To(BeEmpty())
		})

		It("also checks the equipment when the team is supplied", func() {
			dto := newRequest(999)
			team := int64(11)
			dto.AssignedTeamID = &team

			_, err := service.CreateRequest(ctx, dto, actingUser)

			Expect(apperrors.IsType(err, apperrors.ErrorTypeReference)).To(BeTrue())
			Expect(requests.rows).To(BeEmpty())
		})

		It("rejects an unknown technician", func() {
			dto := newRequest(1)
			technician := int64(555)
			dto.AssignedTechnicianID = &technician

			_, err := service.CreateRequest(ctx, dto, actingUser)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Field()).To(Equal("assigned_technician_id"))
		})

		DescribeTable("rejects malformed payloads on the offending field",
			func(mutate func(*maintenance.CreateRequestDTO), field string) {
				dto := newRequest(1)
				mutate(&dto)

				_, err := service.CreateRequest(ctx, dto, actingUser)

				appErr, ok := apperrors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
				Expect(appErr.FieldErrors()).To(HaveKey(field))
				Expect(requests.rows).To(BeEmpty())
			},
			Entry("missing subject", func(d *maintenance.CreateRequestDTO) { d.Subject = "" }, "subject"),
			Entry("blank description", func(d *maintenance.CreateRequestDTO) { d.Description = "   " }, "description"),
			Entry("missing type", func(d *maintenance.CreateRequestDTO) { d.Type = "" }, "type"),
			Entry("unknown type", func(d *maintenance.CreateRequestDTO) { d.Type = "cosmetic" }, "type"),
			Entry("unknown priority", func(d *maintenance.CreateRequestDTO) { d.Priority = "urgent" }, "priority"),
			Entry("missing equipment", func(d *maintenance.CreateRequestDTO) { d.EquipmentID = 0 }, "equipment_id"),
			Entry("negative hours", func(d *maintenance.CreateRequestDTO) {
				h := decimal.NewFromFloat(-1.5)
				d.HoursSpent = &h
			}, "hours_spent"),
			Entry("hours beyond the column range", func(d *maintenance.CreateRequestDTO) {
				h := decimal.RequireFromString("100000000")
				d.HoursSpent = &h
			}, "hours_spent"),
			Entry("hours with three decimal places", func(d *maintenance.CreateRequestDTO) {
				h := decimal.RequireFromString("1.125")
				d.HoursSpent = &h
			}, "hours_spent"),
		)

		It("does not re-assign existing requests when the equipment changes team", func() {
			view, err := service.CreateRequest(ctx, newRequest(1), actingUser)
			Expect(err).NotTo(HaveOccurred())

			equipment.rows[1].MaintenanceTeamID = 11

			got, err := service.GetRequest(ctx, view.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.AssignedTeamID).To(Equal(int64(10)))
		})
	})

	Describe("SetStage", func() {
		var requestID int64

		JustBeforeEach(func() {
			view, err := service.CreateRequest(ctx, newRequest(1), actingUser)
			Expect(err).NotTo(HaveOccurred())
			requestID = view.ID
		})

		It("scraps the equipment when the request is scrapped", func() {
			view, err := service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "scrap"})

			Expect(err).NotTo(HaveOccurred())
			Expect(view.Stage).To(Equal(maintenance.StageScrap))
			Expect(equipment.rows[1].Status).To(Equal("scrapped"))
			Expect(publisher.types()).To(ContainElements(events.EventTypeRequestStageChanged, events.EventTypeEquipmentScrapped))
		})

		It("is idempotent for repeated scraps", func() {
			_, err := service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "scrap"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "scrap"})

			Expect(err).NotTo(HaveOccurred())
			Expect(equipment.rows[1].Status).To(Equal("scrapped"))
			Expect(equipment.swaps).To(Equal(1))
		})

		It("leaves equipment alone on other transitions", func() {
			_, err := service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "in-progress"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "repaired"})
			Expect(err).NotTo(HaveOccurred())

			Expect(equipment.rows[1].Status).To(Equal("active"))
			Expect(requests.rows[requestID].Stage).To(Equal("repaired"))
		})

		It("rejects a bogus stage and leaves the request unchanged", func() {
			_, err := service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "bogus"})

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
			Expect(appErr.Field()).To(Equal("stage"))
			Expect(requests.rows[requestID].Stage).To(Equal("new"))
		})

		It("rejects a padded stage the same way the patch endpoint does", func() {
			_, viaStage := service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: " scrap "})
			padded := " scrap "
			_, viaPatch := service.UpdateRequest(ctx, requestID, maintenance.UpdateRequestDTO{Stage: &padded})

			for _, err := range []error{viaStage, viaPatch} {
				appErr, ok := apperrors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Field()).To(Equal("stage"))
			}
			Expect(requests.rows[requestID].Stage).To(Equal("new"))
			Expect(equipment.rows[1].Status).To(Equal("active"))
		})

		It("returns not found for an unknown request", func() {
			_, err := service.SetStage(ctx, 404, maintenance.SetStageDTO{Stage: "repaired"})
			Expect(errors.Is(err, apperrors.ErrRequestNotFound)).To(BeTrue())
		})

		It("retries the equipment write when its version moves", func() {
			equipment.interfere = 2

			_, err := service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "scrap"})

			Expect(err).NotTo(HaveOccurred())
			Expect(equipment.rows[1].Status).To(Equal("scrapped"))
		})

		It("gives up with a conflict after three lost races", func() {
			equipment.interfere = 3

			_, err := service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "scrap"})

			Expect(errors.Is(err, apperrors.ErrConcurrentModified)).To(BeTrue())
			Expect(requests.rows[requestID].Stage).To(Equal("new"))
			Expect(equipment.rows[1].Status).To(Equal("active"))
		})

		Context("when the equipment has gone", func() {
			JustBeforeEach(func() {
				delete(equipment.rows, 1)
			})

			It("still scraps the request under the proceed policy", func() {
				view, err := service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "scrap"})

				Expect(err).NotTo(HaveOccurred())
				Expect(view.Stage).To(Equal(maintenance.StageScrap))
				Expect(publisher.types()).NotTo(ContainElement(events.EventTypeEquipmentScrapped))
			})

			Context("under the block policy", func() {
				BeforeEach(func() {
					policy = apperrors.MissingEquipmentBlock
				})

				It("fails with a reference error and keeps the stage", func() {
					_, err := service.SetStage(ctx, requestID, maintenance.SetStageDTO{Stage: "scrap"})

					appErr, ok := apperrors.IsAppError(err)
					Expect(ok).To(BeTrue())
					Expect(appErr.Type).To(Equal(apperrors.ErrorTypeReference))
					Expect(appErr.Field()).To(Equal("equipment"))
					Expect(requests.rows[requestID].Stage).To(Equal("new"))
				})
			})
		})
	})

	Describe("UpdateRequest", func() {
		var requestID int64

		JustBeforeEach(func() {
			view, err := service.CreateRequest(ctx, newRequest(2), actingUser)
			Expect(err).NotTo(HaveOccurred())
			requestID = view.ID
		})

		It("runs the scrap cascade for a stage in the patch", func() {
			stage := "scrap"
			hours := decimal.NewFromFloat(2.5)

			view, err := service.UpdateRequest(ctx, requestID, maintenance.UpdateRequestDTO{Stage: &stage, HoursSpent: &hours})

			Expect(err).NotTo(HaveOccurred())
			Expect(view.Stage).To(Equal(maintenance.StageScrap))
			Expect(view.HoursSpent.Equal(hours)).To(BeTrue())
			Expect(equipment.rows[2].Status).To(Equal("scrapped"))
		})

		It("rejects a bogus stage in the patch", func() {
			stage := "bogus"

			_, err := service.UpdateRequest(ctx, requestID, maintenance.UpdateRequestDTO{Stage: &stage})

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldErrors()).To(HaveKey("stage"))
			Expect(requests.rows[requestID].Stage).To(Equal("new"))
		})

		It("assigns and unassigns a technician", func() {
			technician := int64(200)
			view, err := service.UpdateRequest(ctx, requestID, maintenance.UpdateRequestDTO{AssignedTechnicianID: &technician})
			Expect(err).NotTo(HaveOccurred())
			Expect(*view.AssignedTechnicianID).To(Equal(int64(200)))

			zero := int64(0)
			view, err = service.UpdateRequest(ctx, requestID, maintenance.UpdateRequestDTO{AssignedTechnicianID: &zero})
			Expect(err).NotTo(HaveOccurred())
			Expect(view.AssignedTechnicianID).To(BeNil())
		})

		It("sets the scheduled date", func() {
			day := datetime.NewDate(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

			view, err := service.UpdateRequest(ctx, requestID, maintenance.UpdateRequestDTO{ScheduledDate: &day})

			Expect(err).NotTo(HaveOccurred())
			Expect(view.ScheduledDate).NotTo(BeNil())
			Expect(view.ScheduledDate.Equal(day.Time)).To(BeTrue())
		})
	})

	Describe("ListByEquipment", func() {
		It("filters on the equipment", func() {
			_, err := service.ListByEquipment(ctx, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(requests.lastQ.Filter).To(HaveKeyWithValue("equipment_id", []interface{}{int64(1)}))
		})

		It("returns not found for unknown equipment", func() {
			_, err := service.ListByEquipment(ctx, 999)
			Expect(errors.Is(err, apperrors.ErrEquipmentNotFound)).To(BeTrue())
		})
	})

	Describe("ListCalendar", func() {
		It("rejects an inverted range", func() {
			from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
			to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

			_, err := service.ListCalendar(ctx, &from, &to)

			Expect(apperrors.IsType(err, apperrors.ErrorTypeValidation)).To(BeTrue())
		})
	})

	Describe("DeleteRequest", func() {
		It("deletes regardless of stage", func() {
			view, err := service.CreateRequest(ctx, newRequest(1), actingUser)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.SetStage(ctx, view.ID, maintenance.SetStageDTO{Stage: "in-progress"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteRequest(ctx, view.ID)).To(Succeed())
			Expect(requests.rows).To(BeEmpty())
		})
	})
})
