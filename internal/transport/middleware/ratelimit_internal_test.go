package middleware

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/time/rate"
)

var _ = Describe("IPRateLimiter", func() {
	var (
		limiter *IPRateLimiter
		clock   time.Time
	)

	BeforeEach(func() {
		clock = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
		limiter = NewIPRateLimiter(rate.Limit(1), 1)
		limiter.now = func() time.Time { return clock }
		limiter.lastSweep = clock
	})

	It("drops buckets that stayed idle past the ttl", func() {
		for i := 0; i < 5; i++ {
			limiter.Allow(fmt.Sprintf("10.0.0.%d", i))
		}
		Expect(limiter.Len()).To(Equal(5))

		clock = clock.Add(limiterIdleTTL)
		Expect(limiter.Allow("10.9.9.9")).To(BeTrue())
		Expect(limiter.Len()).To(Equal(1))
	})

	It("keeps buckets that are still in use", func() {
		limiter.Allow("10.0.0.1")
		clock = clock.Add(limiterIdleTTL / 2)
		limiter.Allow("10.0.0.2")
		clock = clock.Add(limiterIdleTTL / 2)
		limiter.Allow("10.0.0.3")

		Expect(limiter.Len()).To(Equal(2))
	})

	It("never tracks more than its cap", func() {
		limiter.maxClients = 3
		for i := 0; i < 10; i++ {
			clock = clock.Add(time.Millisecond)
			limiter.Allow(fmt.Sprintf("10.0.0.%d", i))
		}
		Expect(limiter.Len()).To(Equal(3))
		Expect(limiter.clients).To(HaveKey("10.0.0.9"))
		Expect(limiter.clients).NotTo(HaveKey("10.0.0.0"))
	})

	It("still rejects a known client whose burst is spent", func() {
		Expect(limiter.Allow("10.0.0.1")).To(BeTrue())
		Expect(limiter.Allow("10.0.0.1")).To(BeFalse())
		clock = clock.Add(time.Second)
		Expect(limiter.Allow("10.0.0.1")).To(BeTrue())
	})
})
