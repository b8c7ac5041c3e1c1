package domain

import (
	"github.com/fundwit/go-commons/types"
)

type AttendanceStatus string

const (
	AttendanceStatusPending  AttendanceStatus = "pending"
	AttendanceStatusVerified AttendanceStatus = "verified"
	AttendanceStatusRejected AttendanceStatus = "rejected"
)

// AttendanceRecord is created by the gate verification flow. The compound
// unique index over (shift_id, student_id, open_flag) forbids two concurrent
// open clock-ins for the same pair: open_flag stays 0 until clock-out stamps
// it with the row id.
type AttendanceRecord struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	ShiftID   types.ID `json:"shiftId" sql:"type:BIGINT UNSIGNED NOT NULL" gorm:"unique_index:uni_shift_student_open"`
	StudentID types.ID `json:"studentId" sql:"type:BIGINT UNSIGNED NOT NULL" gorm:"unique_index:uni_shift_student_open"`

	OpenFlag types.ID `json:"-" sql:"type:BIGINT UNSIGNED NOT NULL" gorm:"unique_index:uni_shift_student_open"`

	QrCode string `json:"qrCode"`

	ClockInTime  types.Timestamp `json:"clockInTime" sql:"type:DATETIME(6) NOT NULL"`
	ClockOutTime types.Timestamp `json:"clockOutTime" sql:"type:DATETIME(6)"`

	AttendanceStatus AttendanceStatus `json:"attendanceStatus"`

	ClockInVerifiedBy types.ID `json:"clockInVerifiedBy" sql:"type:BIGINT UNSIGNED NOT NULL"`
	MarkedByLeader    types.ID `json:"markedByLeader" sql:"type:BIGINT UNSIGNED"`
}
