package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/frahmantamala/gearguard/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("request-scoped fields", func() {
	var (
		buf  *bytes.Buffer
		base *slog.Logger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		base = slog.New(slog.NewTextHandler(buf, nil))
	})

	It("applies every field collected on the context to an injected logger", func() {
		ctx := logger.With(context.Background(), "trace_id", "t-42")
		ctx = logger.With(ctx, "user_id", int64(7))

		logger.Attach(ctx, base).Info("stage change failed")

		Expect(buf.String()).To(ContainSubstring("trace_id=t-42"))
		Expect(buf.String()).To(ContainSubstring("user_id=7"))
	})

	It("returns the injected logger untouched without fields", func() {
		Expect(logger.Attach(context.Background(), base)).To(BeIdenticalTo(base))
	})

	It("does not leak fields between sibling contexts", func() {
		parent := logger.With(context.Background(), "trace_id", "t-1")
		left := logger.With(parent, "role", "admin")
		right := logger.With(parent, "role", "employee")

		Expect(logger.Fields(left)).To(Equal([]any{"trace_id", "t-1", "role", "admin"}))
		Expect(logger.Fields(right)).To(Equal([]any{"trace_id", "t-1", "role", "employee"}))
	})
})
