package domain

import (
	"github.com/fundwit/go-commons/types"
)

// AvailabilitySlot declares a recurring weekly availability window for a
// worker. (worker_id, day_of_week, time_type) is the natural key of a
// recurring slot; an explicit date range narrows it when set.
type AvailabilitySlot struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	WorkerID  types.ID `json:"workerId" sql:"type:BIGINT UNSIGNED NOT NULL" gorm:"unique_index:uni_worker_day_type"`
	DayOfWeek string   `json:"dayOfWeek" gorm:"unique_index:uni_worker_day_type"`
	TimeType  TimeType `json:"timeType" gorm:"unique_index:uni_worker_day_type"`

	FromDate types.Timestamp `json:"fromDate" sql:"type:DATETIME(6)"`
	ToDate   types.Timestamp `json:"toDate" sql:"type:DATETIME(6)"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

// CoversDate reports whether the slot applies on the given date, honoring the
// optional explicit range.
func (s *AvailabilitySlot) CoversDate(date types.Timestamp) bool {
	if !s.FromDate.IsZero() && date.Time().Before(s.FromDate.Time()) {
		return false
	}
	if !s.ToDate.IsZero() && date.Time().After(s.ToDate.Time()) {
		return false
	}
	return true
}
