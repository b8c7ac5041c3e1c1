package domain

import (
	"github.com/fundwit/go-commons/types"
)

type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "assigned"
	AssignmentStatusConfirmed AssignmentStatus = "confirmed"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

// ShiftAssignment binds one student to one shift. The compound unique index
// over (shift_id, student_id, active_flag) is the authoritative guard against
// duplicate active assignments: active_flag stays 0 while the status is
// assigned or confirmed and is set to the row id on cancellation, so any two
// concurrent creations for the same pair collide on the index.
type ShiftAssignment struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	ShiftID   types.ID `json:"shiftId" sql:"type:BIGINT UNSIGNED NOT NULL" gorm:"unique_index:uni_shift_student_active"`
	StudentID types.ID `json:"studentId" sql:"type:BIGINT UNSIGNED NOT NULL" gorm:"unique_index:uni_shift_student_active"`

	ActiveFlag types.ID `json:"-" sql:"type:BIGINT UNSIGNED NOT NULL" gorm:"unique_index:uni_shift_student_active"`

	Status  AssignmentStatus `json:"status"`
	IsExtra bool             `json:"isExtra"`

	ConfirmedAt types.Timestamp `json:"confirmedAt" sql:"type:DATETIME(6)"`
	CreateTime  types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	UpdateTime  types.Timestamp `json:"updateTime" sql:"type:DATETIME(6) NOT NULL"`
}

func (a AssignmentStatus) IsActive() bool {
	return a == AssignmentStatusAssigned || a == AssignmentStatusConfirmed
}

var ActiveAssignmentStatuses = []AssignmentStatus{AssignmentStatusAssigned, AssignmentStatusConfirmed}
