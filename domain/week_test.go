package domain_test

import (
	"time"

	"shiftgate/domain"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Weekdays", func() {
	It("should name the weekday of a date", func() {
		// 2021-06-07 is a monday
		Expect(domain.WeekdayOf(types.TimestampOfDate(2021, 6, 7, 0, 0, 0, 0, time.Local))).To(Equal("monday"))
		Expect(domain.WeekdayOf(types.TimestampOfDate(2021, 6, 13, 0, 0, 0, 0, time.Local))).To(Equal("sunday"))
	})

	It("should validate weekday names ignoring case", func() {
		Expect(domain.IsValidWeekday("monday")).To(BeTrue())
		Expect(domain.IsValidWeekday("Friday")).To(BeTrue())
		Expect(domain.IsValidWeekday("someday")).To(BeFalse())
	})
})

var _ = Describe("TimeType", func() {
	It("should match with the all wildcard", func() {
		Expect(domain.TimeTypeDay.Matches(domain.TimeTypeDay)).To(BeTrue())
		Expect(domain.TimeTypeDay.Matches(domain.TimeTypeNight)).To(BeFalse())
		Expect(domain.TimeTypeAll.Matches(domain.TimeTypeNight)).To(BeTrue())
		Expect(domain.TimeTypeDay.Matches(domain.TimeTypeAll)).To(BeTrue())
	})
})

var _ = Describe("AvailabilitySlot", func() {
	It("should honor an explicit date range", func() {
		slot := domain.AvailabilitySlot{
			DayOfWeek: "monday", TimeType: domain.TimeTypeDay,
			FromDate: types.TimestampOfDate(2021, 6, 1, 0, 0, 0, 0, time.Local),
			ToDate:   types.TimestampOfDate(2021, 6, 30, 0, 0, 0, 0, time.Local),
		}
		Expect(slot.CoversDate(types.TimestampOfDate(2021, 6, 7, 0, 0, 0, 0, time.Local))).To(BeTrue())
		Expect(slot.CoversDate(types.TimestampOfDate(2021, 5, 31, 0, 0, 0, 0, time.Local))).To(BeFalse())
		Expect(slot.CoversDate(types.TimestampOfDate(2021, 7, 1, 0, 0, 0, 0, time.Local))).To(BeFalse())
	})

	It("should cover any date without a range", func() {
		slot := domain.AvailabilitySlot{DayOfWeek: "monday", TimeType: domain.TimeTypeDay}
		Expect(slot.CoversDate(types.TimestampOfDate(1999, 1, 1, 0, 0, 0, 0, time.Local))).To(BeTrue())
	})
})
