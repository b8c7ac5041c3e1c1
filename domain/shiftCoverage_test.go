package domain_test

import (
	"shiftgate/domain"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("CoverageOf", func() {
	It("should compute a plain partial coverage", func() {
		s := domain.Shift{RequiredStudents: 4}
		c := domain.CoverageOf(&s, 1)
		Expect(c).To(Equal(domain.Coverage{Value: 1, Total: 4, Assigned: 1, Percentage: 25, IsOver: false}))
	})

	It("should round the percentage to one decimal", func() {
		s := domain.Shift{RequiredStudents: 3}
		Expect(domain.CoverageOf(&s, 1).Percentage).To(Equal(33.3))
		Expect(domain.CoverageOf(&s, 2).Percentage).To(Equal(66.7))
	})

	It("should cap value and expose overflow through assigned and isOver", func() {
		s := domain.Shift{RequiredStudents: 3}
		c := domain.CoverageOf(&s, 4)
		Expect(c).To(Equal(domain.Coverage{Value: 3, Total: 3, Assigned: 4, Percentage: 133.3, IsOver: true}))
	})

	It("should treat a zero requirement as one for the percentage only", func() {
		s := domain.Shift{RequiredStudents: 0}
		c := domain.CoverageOf(&s, 0)
		Expect(c).To(Equal(domain.Coverage{Value: 0, Total: 1, Assigned: 0, Percentage: 0, IsOver: false}))

		c = domain.CoverageOf(&s, 1)
		Expect(c.Total).To(Equal(1))
		Expect(c.Percentage).To(Equal(float64(100)))
		Expect(c.IsOver).To(BeTrue())
		Expect(s.RequiredStudents).To(Equal(0))
	})

	It("should be pure and monotone in assigned for a fixed total", func() {
		s := domain.Shift{RequiredStudents: 5}
		first := domain.CoverageOf(&s, 3)
		second := domain.CoverageOf(&s, 3)
		Expect(first).To(Equal(second))

		previous := -1.0
		for assigned := 0; assigned <= 10; assigned++ {
			c := domain.CoverageOf(&s, assigned)
			Expect(c.Percentage >= previous).To(BeTrue())
			previous = c.Percentage
		}
	})

	It("should not treat a fully assigned shift as over-assigned", func() {
		s := domain.Shift{RequiredStudents: 3}
		c := domain.CoverageOf(&s, 3)
		Expect(c.IsOver).To(BeFalse())
		Expect(c.Percentage).To(Equal(float64(100)))
	})
})
