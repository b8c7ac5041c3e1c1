package domain

import (
	"strings"

	"github.com/fundwit/go-commons/types"
)

// TimeType tags a shift or an availability slot as a day or a night duty.
type TimeType string

const (
	TimeTypeDay   TimeType = "day"
	TimeTypeNight TimeType = "night"
	TimeTypeAll   TimeType = "all"
)

func (t TimeType) Matches(other TimeType) bool {
	return t == TimeTypeAll || other == TimeTypeAll || t == other
}

var weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func WeekdayOf(ts types.Timestamp) string {
	return weekdays[int(ts.Time().Weekday())]
}

func IsValidWeekday(day string) bool {
	day = strings.ToLower(day)
	for _, d := range weekdays {
		if d == day {
			return true
		}
	}
	return false
}
