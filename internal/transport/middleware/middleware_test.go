package middleware_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RequestID", func() {
	It("reuses an incoming trace id", func() {
		var seen string
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = middleware.TraceID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(seen).To(Equal("abc-123"))
		Expect(rec.Header().Get(middleware.TraceHeader)).To(Equal("abc-123"))
	})

	It("mints one when absent", func() {
		rec := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("answers 500 with the error envelope", func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		h := middleware.RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring(`"success":false`))
		Expect(rec.Body.String()).NotTo(ContainSubstring("boom"))
	})
})

var _ = Describe("RateLimit", func() {
	It("rejects a client once its burst is spent", func() {
		h := middleware.RateLimit(0.001, 2)(ok)
		codes := []int{}
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:5000"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		Expect(codes).To(Equal([]int{200, 200, 429}))

		other := httptest.NewRequest(http.MethodGet, "/", nil)
		other.RemoteAddr = "10.0.0.2:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, other)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	serveFrom := func(h http.Handler, peer, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = peer
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	It("keeps limiting a client that rotates X-Forwarded-For", func() {
		h := middleware.TrustedRealIP(nil)(middleware.RateLimit(1, 1)(ok))
		passed := 0
		for i := 0; i < 50; i++ {
			if serveFrom(h, "203.0.113.9:4000", fmt.Sprintf("10.0.0.%d", i)) == http.StatusOK {
				passed++
			}
		}
		Expect(passed).To(BeNumerically("<=", 2))
		Expect(serveFrom(h, "203.0.113.9:4000", "10.0.0.200")).To(Equal(http.StatusTooManyRequests))
	})

	It("buckets forwarded clients separately behind a trusted proxy", func() {
		_, proxies, err := net.ParseCIDR("127.0.0.0/8")
		Expect(err).NotTo(HaveOccurred())
		h := middleware.TrustedRealIP([]*net.IPNet{proxies})(middleware.RateLimit(0.001, 1)(ok))

		Expect(serveFrom(h, "127.0.0.1:9000", "198.51.100.1")).To(Equal(http.StatusOK))
		Expect(serveFrom(h, "127.0.0.1:9000", "198.51.100.2")).To(Equal(http.StatusOK))
		Expect(serveFrom(h, "127.0.0.1:9000", "198.51.100.1")).To(Equal(http.StatusTooManyRequests))
	})
})

var _ = Describe("TrustedRealIP", func() {
	remoteAddrSeen := func(proxies []*net.IPNet, peer string) string {
		var seen string
		h := middleware.TrustedRealIP(proxies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.RemoteAddr
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = peer
		req.Header.Set("X-Real-IP", "192.0.2.77")
		h.ServeHTTP(httptest.NewRecorder(), req)
		return seen
	}

	It("ignores forwarding headers from an untrusted peer", func() {
		_, proxies, _ := net.ParseCIDR("10.1.0.0/16")
		Expect(remoteAddrSeen([]*net.IPNet{proxies}, "10.2.0.5:1234")).To(Equal("10.2.0.5:1234"))
	})

	It("takes the forwarded client from a trusted peer", func() {
		_, proxies, _ := net.ParseCIDR("10.1.0.0/16")
		Expect(remoteAddrSeen([]*net.IPNet{proxies}, "10.1.3.4:1234")).To(Equal("192.0.2.77"))
	})
})

var _ = Describe("Timeout", func() {
	It("attaches a deadline to the request context", func() {
		var deadline time.Time
		var has bool
		h := middleware.Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deadline, has = r.Context().Deadline()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(has).To(BeTrue())
		Expect(deadline).To(BeTemporally("~", time.Now().Add(time.Second), 200*time.Millisecond))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("masks secrets in logged bodies", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		h := middleware.LoggingMiddleware(logger)(ok)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.c","password":"hunter2"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer xyz")
		h.ServeHTTP(httptest.NewRecorder(), req)

		Expect(buf.String()).NotTo(ContainSubstring("hunter2"))
		Expect(buf.String()).NotTo(ContainSubstring("Bearer xyz"))
		Expect(buf.String()).To(ContainSubstring("a@b.c"))
	})

	It("hands a body larger than the log cap to the handler intact", func() {
		payload := `{"description":"` + strings.Repeat("x", 10<<10) + `"}`
		var got string
		h := middleware.LoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, err := io.ReadAll(r.Body)
				Expect(err).NotTo(HaveOccurred())
				got = string(b)
			}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(httptest.NewRecorder(), req)

		Expect(got).To(Equal(payload))
	})
})

var _ = Describe("CORS", func() {
	It("echoes an allowed origin on preflight", func() {
		h := middleware.CORS("http://localhost:5173")(ok)
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/equipment", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:5173"))
	})

	It("ignores other origins", func() {
		h := middleware.CORS("http://localhost:5173")(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

var _ = Describe("ActorContext", func() {
	It("passes through anonymous requests", func() {
		rec := httptest.NewRecorder()
		middleware.ActorContext(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("keeps the actor visible downstream", func() {
		var actor *internal.Actor
		h := middleware.ActorContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, _ = internal.ActorFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(internal.ContextWithActor(context.Background(), &internal.Actor{ID: 7, Role: "admin"}))
		h.ServeHTTP(httptest.NewRecorder(), req)
		Expect(actor.ID).To(Equal(int64(7)))
	})
})
