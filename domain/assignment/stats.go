package assignment

import (
	"sort"

	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/domain/shift"
	"shiftgate/persistence"
	"shiftgate/session"

	"github.com/fundwit/go-commons/types"
)

var (
	GetShiftAssignmentStatsFunc = GetShiftAssignmentStats
	GetSelectedDaysStatsFunc    = GetSelectedDaysStats
)

type StatsQuery struct {
	ProjectID types.ID        `json:"projectId" form:"projectId" binding:"required"`
	DateBegin types.Timestamp `json:"dateBegin" form:"dateBegin"`
	DateEnd   types.Timestamp `json:"dateEnd" form:"dateEnd"`
}

// AssignmentStats is the coverage of all shifts of one (date, timeType)
// group.
type AssignmentStats struct {
	Date     types.Timestamp `json:"date"`
	TimeType domain.TimeType `json:"timeType"`

	ShiftCount int             `json:"shiftCount"`
	Coverage   domain.Coverage `json:"coverage"`
}

// GetShiftAssignmentStats aggregates per-shift coverage over a date range,
// grouped by date and time type. Assigned counts come from a live count of
// active assignments, not the cached column.
func GetShiftAssignmentStats(q *StatsQuery, s *session.Session) ([]AssignmentStats, error) {
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

	shifts := []domain.Shift{}
	if err := query.Order("date ASC, id ASC").Find(&shifts).Error; err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return []AssignmentStats{}, nil
	}

	ids := make([]types.ID, 0, len(shifts))
	for _, sh := range shifts {
		ids = append(ids, sh.ID)
	}
	counts, err := shift.ActiveAssignmentCounts(ids, db)
	if err != nil {
		return nil, err
	}

	type groupKey struct {
		date     string
		timeType domain.TimeType
	}
	groups := map[groupKey]*AssignmentStats{}
	required := map[groupKey]int{}
	assigned := map[groupKey]int{}
	order := []groupKey{}
	for i := range shifts {
		key := groupKey{date: shifts[i].Date.Time().Format("2006-01-02"), timeType: shifts[i].TimeType}
		if _, found := groups[key]; !found {
			groups[key] = &AssignmentStats{Date: shifts[i].Date, TimeType: shifts[i].TimeType}
			order = append(order, key)
		}
		groups[key].ShiftCount++
		required[key] += shifts[i].RequiredStudents
		assigned[key] += counts[shifts[i].ID]
	}

	stats := make([]AssignmentStats, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.Coverage = domain.CoverageOf(&domain.Shift{RequiredStudents: required[key]}, assigned[key])
		stats = append(stats, *g)
	}
	return stats, nil
}

type SelectedDaysQuery struct {
	WorkerIDs []types.ID      `json:"workerIds" form:"workerIds" binding:"required"`
	DateBegin types.Timestamp `json:"dateBegin" form:"dateBegin" binding:"required"`
	DateEnd   types.Timestamp `json:"dateEnd" form:"dateEnd" binding:"required"`
}

// SelectedDaysStats counts, per worker and weekday within a date range, the
// dates the worker requested through availability versus the dates an active
// assignment already books.
type SelectedDaysStats struct {
	WorkerID  types.ID `json:"workerId"`
	DayOfWeek string   `json:"dayOfWeek"`

	Requested int `json:"requested"`
	Booked    int `json:"booked"`
}

func GetSelectedDaysStats(q *SelectedDaysQuery, s *session.Session) ([]SelectedDaysStats, error) {
	if len(s.ProjectRoles) == 0 && !s.Perms.HasGlobalViewRole() {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	slots := []domain.AvailabilitySlot{}
	if err := db.Where("worker_id in (?)", q.WorkerIDs).Find(&slots).Error; err != nil {
		return nil, err
	}
	slotsByWorker := map[types.ID][]domain.AvailabilitySlot{}
	for _, slot := range slots {
		slotsByWorker[slot.WorkerID] = append(slotsByWorker[slot.WorkerID], slot)
	}

	type bookedRow struct {
		StudentID types.ID
		Date      types.Timestamp
	}
	bookedRows := []bookedRow{}
	if err := db.Model(&domain.ShiftAssignment{}).
		Select("shift_assignments.student_id, shifts.date").
		Joins("INNER JOIN shifts ON shifts.id = shift_assignments.shift_id").
		Where("shift_assignments.student_id in (?) AND shift_assignments.status in (?)", q.WorkerIDs, domain.ActiveAssignmentStatuses).
		Where("shifts.date >= ? AND shifts.date <= ?", q.DateBegin, q.DateEnd).
		Scan(&bookedRows).Error; err != nil {
		return nil, err
	}
	bookedByWorkerDay := map[types.ID]map[string]int{}
	for _, r := range bookedRows {
		day := domain.WeekdayOf(r.Date)
		if bookedByWorkerDay[r.StudentID] == nil {
			bookedByWorkerDay[r.StudentID] = map[string]int{}
		}
		bookedByWorkerDay[r.StudentID][day]++
	}

	stats := []SelectedDaysStats{}
	for _, workerId := range q.WorkerIDs {
		perDay := map[string]*SelectedDaysStats{}
		days := []string{}
		for t := q.DateBegin.Time(); !t.After(q.DateEnd.Time()); t = t.AddDate(0, 0, 1) {
			date := types.Timestamp(t)
			day := domain.WeekdayOf(date)
			if perDay[day] == nil {
				perDay[day] = &SelectedDaysStats{WorkerID: workerId, DayOfWeek: day}
				days = append(days, day)
			}
			for i := range slotsByWorker[workerId] {
				slot := slotsByWorker[workerId][i]
				if slot.DayOfWeek == day && slot.CoversDate(date) {
					perDay[day].Requested++
					break
				}
			}
		}
		for day, count := range bookedByWorkerDay[workerId] {
			if perDay[day] == nil {
				perDay[day] = &SelectedDaysStats{WorkerID: workerId, DayOfWeek: day}
				days = append(days, day)
			}
			perDay[day].Booked = count
		}
		sort.Strings(days)
		for _, day := range days {
			stats = append(stats, *perDay[day])
		}
	}
	return stats, nil
}
