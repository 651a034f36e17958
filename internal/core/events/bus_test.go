package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/gearguard/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("delivers published events to every subscriber", func() {
		// Given
		var calls atomic.Int32
		handler := func(ctx context.Context, e events.Event) error {
			calls.Add(1)
			return nil
		}
		bus.Subscribe(events.EventTypeRequestCreated, handler)
		bus.Subscribe(events.EventTypeRequestCreated, handler)

		// When
		err := bus.Publish(context.Background(), events.NewRequestCreatedEvent(1, 2, 3, "corrective", 4))

		// Then
		Expect(err).NotTo(HaveOccurred())
		Expect(bus.Wait(context.Background())).To(Succeed())
		Expect(calls.Load()).To(Equal(int32(2)))
	})

	It("runs handlers after the publishing context is cancelled", func() {
		// Given
		seen := make(chan error, 1)
		bus.Subscribe(events.EventTypeEquipmentScrapped, func(ctx context.Context, e events.Event) error {
			time.Sleep(10 * time.Millisecond)
			seen <- ctx.Err()
			return nil
		})
		ctx, cancel := context.WithCancel(context.Background())

		// When
		Expect(bus.Publish(ctx, events.NewEquipmentScrappedEvent(7, 9))).To(Succeed())
		cancel()

		// Then
		Eventually(seen).Should(Receive(BeNil()))
	})

	It("returns handler errors from PublishSync", func() {
		bus.Subscribe(events.EventTypeRequestStageChanged, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(context.Background(), events.NewRequestStageChangedEvent(1, "new", "scrap"))

		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.Publish(context.Background(), events.NewRequestStageChangedEvent(1, "new", "repaired"))).To(Succeed())
	})

	It("delivers every event type to wildcard subscribers", func() {
		var seen atomic.Int32
		bus.Subscribe(events.AllEvents, func(ctx context.Context, e events.Event) error {
			seen.Add(1)
			return nil
		})

		Expect(bus.PublishSync(context.Background(), events.NewRequestCreatedEvent(1, 2, 3, "preventive", 4))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewEquipmentScrappedEvent(2, 1))).To(Succeed())

		Expect(seen.Load()).To(Equal(int32(2)))
	})

	It("contains a panicking handler", func() {
		var after atomic.Bool
		bus.Subscribe(events.EventTypeEquipmentScrapped, func(ctx context.Context, e events.Event) error {
			panic("subscriber bug")
		})
		bus.Subscribe(events.EventTypeEquipmentScrapped, func(ctx context.Context, e events.Event) error {
			after.Store(true)
			return nil
		})

		Expect(bus.Publish(context.Background(), events.NewEquipmentScrappedEvent(3, 4))).To(Succeed())
		Expect(bus.Wait(context.Background())).To(Succeed())
		Expect(after.Load()).To(BeTrue())

		err := bus.PublishSync(context.Background(), events.NewEquipmentScrappedEvent(3, 4))
		Expect(err).To(MatchError(ContainSubstring("subscriber bug")))
	})
})
