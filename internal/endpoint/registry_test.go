package endpoint_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/avramidis/endpoint-monitor/internal/endpoint"
)

var _ = Describe("Registry", func() {
	var (
		registry *endpoint.Registry
		epA      *endpoint.Endpoint
		epB      *endpoint.Endpoint
		epC      *endpoint.Endpoint
	)

	BeforeEach(func() {
		registry = endpoint.NewRegistry()
		epA = endpoint.New(mustParseURL("http://localhost:8081"), 1)
		epB = endpoint.New(mustParseURL("http://localhost:8082"), 2)
		epC = endpoint.New(mustParseURL("http://localhost:8083"), 3)
	})

	Describe("Add", func() {
		It("registers endpoints", func() {
			Expect(registry.Add(epA)).To(Succeed())
			Expect(registry.Len()).To(Equal(1))
		})

		It("rejects duplicate URLs", func() {
			Expect(registry.Add(epA)).To(Succeed())

			dup := endpoint.New(mustParseURL("http://localhost:8081"), 5)
			err := registry.Add(dup)
			Expect(err).To(MatchError(endpoint.ErrDuplicate))
			Expect(registry.Len()).To(Equal(1))
		})
	})

	Describe("Remove", func() {
		It("unregisters endpoints", func() {
			Expect(registry.Add(epA)).To(Succeed())
			Expect(registry.Remove("http://localhost:8081")).To(Succeed())
			Expect(registry.Len()).To(Equal(0))
		})

		It("fails for unknown URLs", func() {
			err := registry.Remove("http://localhost:9999")
			Expect(err).To(MatchError(endpoint.ErrNotFound))
		})
	})

	Describe("Get", func() {
		It("returns registered endpoints", func() {
			Expect(registry.Add(epA)).To(Succeed())
			ep, ok := registry.Get("http://localhost:8081")
			Expect(ok).To(BeTrue())
			Expect(ep).To(Equal(epA))
		})

		It("returns false for unknown URLs", func() {
			_, ok := registry.Get("http://localhost:9999")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("All", func() {
		It("returns endpoints sorted by priority ascending", func() {
			Expect(registry.Add(epC)).To(Succeed())
			Expect(registry.Add(epA)).To(Succeed())
			Expect(registry.Add(epB)).To(Succeed())

			all := registry.All()
			Expect(all).To(HaveLen(3))
			Expect(all[0]).To(Equal(epA))
			Expect(all[1]).To(Equal(epB))
			Expect(all[2]).To(Equal(epC))
		})

		It("breaks priority ties by URL", func() {
			x := endpoint.New(mustParseURL("http://localhost:8085"), 1)
			y := endpoint.New(mustParseURL("http://localhost:8084"), 1)
			Expect(registry.Add(x)).To(Succeed())
			Expect(registry.Add(y)).To(Succeed())

			all := registry.All()
			Expect(all[0]).To(Equal(y))
			Expect(all[1]).To(Equal(x))
		})
	})

	Describe("SetActive", func() {
		BeforeEach(func() {
			Expect(registry.Add(epA)).To(Succeed())
			Expect(registry.Add(epB)).To(Succeed())
			Expect(registry.Add(epC)).To(Succeed())
		})

		It("promotes the target endpoint", func() {
			Expect(registry.SetActive("http://localhost:8082")).To(Succeed())
			Expect(epB.IsActive()).To(BeTrue())
		})

		It("clears the previous active flag atomically", func() {
			Expect(registry.SetActive("http://localhost:8081")).To(Succeed())
			Expect(registry.SetActive("http://localhost:8082")).To(Succeed())

			activeCount := 0
			for _, ep := range registry.All() {
				if ep.IsActive() {
					activeCount++
				}
			}
			Expect(activeCount).To(Equal(1))
			Expect(epA.IsActive()).To(BeFalse())
			Expect(epB.IsActive()).To(BeTrue())
		})

		It("fails for unknown URLs without mutating anything", func() {
			Expect(registry.SetActive("http://localhost:8081")).To(Succeed())

			err := registry.SetActive("http://localhost:9999")
			Expect(err).To(MatchError(endpoint.ErrNotFound))
			Expect(epA.IsActive()).To(BeTrue())
		})
	})

	Describe("Active", func() {
		It("returns false when nothing is active", func() {
			Expect(registry.Add(epA)).To(Succeed())
			_, ok := registry.Active()
			Expect(ok).To(BeFalse())
		})

		It("returns the active endpoint", func() {
			Expect(registry.Add(epA)).To(Succeed())
			Expect(registry.SetActive("http://localhost:8081")).To(Succeed())

			active, ok := registry.Active()
			Expect(ok).To(BeTrue())
			Expect(active).To(Equal(epA))
		})
	})
})
