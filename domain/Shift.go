package domain

import (
	"github.com/fundwit/go-commons/types"
)

type ShiftType string

const (
	ShiftTypeNormal ShiftType = "normal"
	ShiftTypeFiller ShiftType = "filler"
)

type ShiftStatus string

const (
	ShiftStatusDraft      ShiftStatus = "draft"
	ShiftStatusPublished  ShiftStatus = "published"
	ShiftStatusInProgress ShiftStatus = "inProgress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

type Shift struct {
	ID        types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	ProjectID types.ID `json:"projectId" sql:"type:BIGINT UNSIGNED NOT NULL" gorm:"index:idx_project_date"`

	Date      types.Timestamp `json:"date" sql:"type:DATETIME(6) NOT NULL" gorm:"index:idx_project_date"`
	DayOfWeek string          `json:"dayOfWeek"`
	TimeType  TimeType        `json:"timeType"`

	StartTime types.Timestamp `json:"startTime" sql:"type:DATETIME(6) NOT NULL"`
	StopTime  types.Timestamp `json:"stopTime" sql:"type:DATETIME(6) NOT NULL"`

	RequiredStudents int `json:"requiredStudents"`

	// cached count of non-cancelled assignments, maintained in the same
	// transaction as every assignment write; read-side statistics recompute
	// it from a live count instead of trusting this column
	AssignedCount int `json:"assignedCount"`

	ShiftType ShiftType   `json:"shiftType"`
	Status    ShiftStatus `json:"status"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type ShiftQuery struct {
	ProjectID types.ID        `json:"projectId" form:"projectId" binding:"required"`
	DateBegin types.Timestamp `json:"dateBegin" form:"dateBegin"`
	DateEnd   types.Timestamp `json:"dateEnd" form:"dateEnd"`
	TimeType  TimeType        `json:"timeType" form:"timeType"`
}
