package mshr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/snoopsim/mem/cache/internal/mshr"
)

var _ = Describe("MSHR", func() {
	var m mshr.MSHR

	BeforeEach(func() {
		m = mshr.New(4)
	})

	It("should add an entry", func() {
		m.AddEntry(0x10, 2)

		Expect(m.Lookup(0x10)).To(BeTrue())

		entry, found := m.Entry(0x10)
		Expect(found).To(BeTrue())
		Expect(entry.SetID).To(Equal(2))
		Expect(entry.Pending).To(Equal(1))

		m.RemoveEntry(0x10)
		Expect(m.Lookup(0x10)).To(BeFalse())
	})

	It("should error if adding a tag that is already in MSHR", func() {
		m.AddEntry(0x10, 0)

		Expect(m.AddEntry(0x10, 0)).To(
			MatchError("trying to add a tag that is already in MSHR"))
	})

	It("should error if adding to a full MSHR", func() {
		m.AddEntry(0x00, 0)
		m.AddEntry(0x01, 0)
		m.AddEntry(0x02, 0)

		Expect(m.IsFull()).To(BeFalse())

		m.AddEntry(0x03, 0)

		Expect(m.IsFull()).To(BeTrue())
		Expect(m.AddEntry(0x04, 0)).To(
			MatchError("trying to add to a full MSHR"))
	})

	It("should coalesce into an existing entry", func() {
		m.AddEntry(0x10, 1)

		Expect(m.Coalesce(0x10)).To(Succeed())
		Expect(m.Coalesce(0x10)).To(Succeed())

		entry, _ := m.Entry(0x10)
		Expect(entry.Pending).To(Equal(3))
	})

	It("should error when coalescing into a missing entry", func() {
		Expect(m.Coalesce(0x10)).To(
			MatchError("trying to coalesce into a non-exist entry"))
	})

	It("should error when removing a missing entry", func() {
		Expect(m.RemoveEntry(0x10)).To(
			MatchError("trying to remove an non-exist entry"))
	})

	It("should reset", func() {
		m.AddEntry(0x10, 0)
		m.AddEntry(0x11, 0)

		m.Reset()

		Expect(m.Lookup(0x10)).To(BeFalse())
		Expect(m.IsFull()).To(BeFalse())
	})
})
