package healthcheck_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/avramidis/endpoint-monitor/internal/endpoint"
	"github.com/avramidis/endpoint-monitor/internal/healthcheck"
)

func TestHealthcheck(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Healthcheck Suite")
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

const validReport = `{
	"status": "healthy",
	"timestamp": "2026-01-01T00:00:00Z",
	"response_time_ms": 12.5,
	"services": {
		"database": {"status": "healthy", "response_time_ms": 2, "last_check": "2026-01-01T00:00:00Z"},
		"redis": {"status": "healthy", "response_time_ms": 1, "last_check": "2026-01-01T00:00:00Z"},
		"ai_providers": {"status": "degraded", "response_time_ms": 900, "last_check": "2026-01-01T00:00:00Z", "error": "slow provider"},
		"system_resources": {"status": "healthy", "response_time_ms": 1, "last_check": "2026-01-01T00:00:00Z"}
	},
	"summary": {"healthy_services": 3, "degraded_services": 1, "unhealthy_services": 0, "total_services": 4}
}`

var _ = Describe("Checker", func() {
	var (
		checker *healthcheck.Checker
		log     *slog.Logger
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
		checker = healthcheck.NewChecker(log)
	})

	newEndpoint := func(server *httptest.Server) *endpoint.Endpoint {
		return endpoint.New(mustParseURL(server.URL), 1)
	}

	Describe("Check", func() {
		Context("healthy endpoint with report body", func() {
			var server *httptest.Server

			BeforeEach(func() {
				server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.URL.Path != "/api/health" {
						http.NotFound(w, r)
						return
					}
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(validReport))
				}))
			})

			AfterEach(func() {
				server.Close()
			})

			It("succeeds and parses the report", func() {
				res := checker.Check(context.Background(), newEndpoint(server), time.Second)

				Expect(res.Success).To(BeTrue())
				Expect(res.Failure).To(Equal(healthcheck.FailureNone))
				Expect(res.HTTPStatus).To(Equal(http.StatusOK))
				Expect(res.Report).NotTo(BeNil())
				Expect(res.Report.Status).To(Equal("healthy"))
				Expect(res.Report.Services).To(HaveKey("database"))
				Expect(res.Report.DegradedServiceCount()).To(Equal(1))
			})

			It("measures the response time", func() {
				res := checker.Check(context.Background(), newEndpoint(server), time.Second)
				Expect(res.ResponseTime).To(BeNumerically(">", 0))
			})
		})

		Context("healthy endpoint with empty body", func() {
			It("succeeds without a report", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNoContent)
				}))
				defer server.Close()

				res := checker.Check(context.Background(), newEndpoint(server), time.Second)
				Expect(res.Success).To(BeTrue())
				Expect(res.Report).To(BeNil())
			})
		})

		Context("non-2xx status", func() {
			It("classifies as HTTP failure", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "internal error", http.StatusInternalServerError)
				}))
				defer server.Close()

				res := checker.Check(context.Background(), newEndpoint(server), time.Second)
				Expect(res.Success).To(BeFalse())
				Expect(res.Failure).To(Equal(healthcheck.FailureHTTP))
				Expect(res.HTTPStatus).To(Equal(http.StatusInternalServerError))
				Expect(res.Err).To(HaveOccurred())
			})
		})

		Context("malformed JSON body", func() {
			It("classifies as parse failure", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(`{"status": `))
				}))
				defer server.Close()

				res := checker.Check(context.Background(), newEndpoint(server), time.Second)
				Expect(res.Success).To(BeFalse())
				Expect(res.Failure).To(Equal(healthcheck.FailureParse))
			})

			It("treats a report without status as malformed", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(`{"response_time_ms": 5}`))
				}))
				defer server.Close()

				res := checker.Check(context.Background(), newEndpoint(server), time.Second)
				Expect(res.Success).To(BeFalse())
				Expect(res.Failure).To(Equal(healthcheck.FailureParse))
			})
		})

		Context("unreachable endpoint", func() {
			It("classifies as network failure", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
				server.Close() // refuse connections

				res := checker.Check(context.Background(), newEndpoint(server), time.Second)
				Expect(res.Success).To(BeFalse())
				Expect(res.Failure).To(Equal(healthcheck.FailureNetwork))
				Expect(res.Err).To(HaveOccurred())
			})
		})

		Context("slow endpoint", func() {
			It("classifies as timeout when the per-check timeout elapses", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					time.Sleep(300 * time.Millisecond)
					w.WriteHeader(http.StatusOK)
				}))
				defer server.Close()

				res := checker.Check(context.Background(), newEndpoint(server), 50*time.Millisecond)
				Expect(res.Success).To(BeFalse())
				Expect(res.Failure).To(Equal(healthcheck.FailureTimeout))
			})

			It("respects caller context cancellation", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					time.Sleep(300 * time.Millisecond)
					w.WriteHeader(http.StatusOK)
				}))
				defer server.Close()

				ctx, cancel := context.WithCancel(context.Background())
				go func() {
					time.Sleep(20 * time.Millisecond)
					cancel()
				}()

				res := checker.Check(ctx, newEndpoint(server), time.Second)
				Expect(res.Success).To(BeFalse())
			})
		})
	})
})

var _ = Describe("FailureKind", func() {
	It("has a readable string form", func() {
		Expect(healthcheck.FailureNone.String()).To(Equal("none"))
		Expect(healthcheck.FailureNetwork.String()).To(Equal("network"))
		Expect(healthcheck.FailureTimeout.String()).To(Equal("timeout"))
		Expect(healthcheck.FailureHTTP.String()).To(Equal("http"))
		Expect(healthcheck.FailureParse.String()).To(Equal("parse"))
	})
})
