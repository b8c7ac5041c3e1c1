package shift

import (
	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/idgen"
	"shiftgate/persistence"
	"shiftgate/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	shiftIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateShiftFunc      = CreateShift
	GetProjectShiftsFunc = GetProjectShifts
)

type ShiftCreation struct {
	ProjectID types.ID        `json:"projectId" binding:"required"`
	Date      types.Timestamp `json:"date" binding:"required"`
	TimeType  domain.TimeType `json:"timeType" binding:"required,oneof=day night"`

	StartTime types.Timestamp `json:"startTime" binding:"required"`
	StopTime  types.Timestamp `json:"stopTime" binding:"required"`

	RequiredStudents int              `json:"requiredStudents" binding:"min=0"`
	ShiftType        domain.ShiftType `json:"shiftType" binding:"omitempty,oneof=normal filler"`
}

type ShiftDetail struct {
	domain.Shift

	Coverage domain.Coverage `json:"coverage"`
}

func CreateShift(c *ShiftCreation, s *session.Session) (*domain.Shift, error) {
	if !s.Perms.HasRoleSuffix("_" + c.ProjectID.String()) {
		return nil, bizerror.ErrForbidden
	}

	shiftType := c.ShiftType
	if shiftType == "" {
		shiftType = domain.ShiftTypeNormal
	}

	record := domain.Shift{
		ID:        idgen.NextID(shiftIdWorker),
		ProjectID: c.ProjectID,

		Date:      c.Date,
		DayOfWeek: domain.WeekdayOf(c.Date),
		TimeType:  c.TimeType,

		StartTime: c.StartTime,
		StopTime:  c.StopTime,

		RequiredStudents: c.RequiredStudents,
		ShiftType:        shiftType,
		Status:           domain.ShiftStatusPublished,

		CreateTime: types.CurrentTimestamp(),
	}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetProjectShifts lists the shifts of a project in a date range with a
// coverage statistic recomputed from a live count of active assignments,
// never from the cached assigned_count column.
func GetProjectShifts(q *domain.ShiftQuery, s *session.Session) ([]ShiftDetail, error) {
	if !s.Perms.HasProjectViewPerm(q.ProjectID) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	query := db.Where(&domain.Shift{ProjectID: q.ProjectID})
	if !q.DateBegin.IsZero() {
		query = query.Where("date >= ?", q.DateBegin)
	}
	if !q.DateEnd.IsZero() {
		query = query.Where("date <= ?", q.DateEnd)
	}
	if q.TimeType != "" && q.TimeType != domain.TimeTypeAll {
		query = query.Where(&domain.Shift{TimeType: q.TimeType})
	}

	shifts := []domain.Shift{}
	if err := query.Order("date ASC, id ASC").Find(&shifts).Error; err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return []ShiftDetail{}, nil
	}

	counts, err := ActiveAssignmentCounts(shiftIds(shifts), db)
	if err != nil {
		return nil, err
	}

	details := make([]ShiftDetail, 0, len(shifts))
	for i := range shifts {
		details = append(details, ShiftDetail{
			Shift:    shifts[i],
			Coverage: domain.CoverageOf(&shifts[i], counts[shifts[i].ID]),
		})
	}
	return details, nil
}

// ActiveAssignmentCounts returns the live number of non-cancelled assignments
// per shift id.
func ActiveAssignmentCounts(ids []types.ID, db *gorm.DB) (map[types.ID]int, error) {
	type row struct {
		ShiftID types.ID
		Count   int
	}
	rows := []row{}
	if err := db.Model(&domain.ShiftAssignment{}).
		Select("shift_id, count(*) as count").
		Where("shift_id in (?) AND status in (?)", ids, domain.ActiveAssignmentStatuses).
		Group("shift_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[types.ID]int{}
	for _, r := range rows {
		counts[r.ShiftID] = r.Count
	}
	return counts, nil
}

func shiftIds(shifts []domain.Shift) []types.ID {
	ids := make([]types.ID, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.ID)
	}
	return ids
}
