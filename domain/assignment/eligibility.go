package assignment

import (
	"sort"
	"strings"

	"shiftgate/account"
	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/persistence"
	"shiftgate/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

const (
	PunctualityOrderNone = "none"
	PunctualityOrderAsc  = "asc"
	PunctualityOrderDesc = "desc"
)

type PunctualityFilter struct {
	Order    string  `json:"order" form:"punctualityOrder" binding:"omitempty,oneof=none asc desc"`
	MinValue float64 `json:"minValue" form:"punctualityMin" binding:"omitempty,min=0,max=5"`
}

type DayFilter struct {
	Days []string        `json:"days" form:"days"`
	Type domain.TimeType `json:"type" form:"type" binding:"omitempty,oneof=all day night"`
}

// EligibleWorkersQuery targets either one shift or an explicit date range
// with requested/booked day filters.
type EligibleWorkersQuery struct {
	ShiftID types.ID `json:"shiftId" form:"shiftId"`

	DateBegin types.Timestamp `json:"dateBegin" form:"dateBegin"`
	DateEnd   types.Timestamp `json:"dateEnd" form:"dateEnd"`

	Punctuality PunctualityFilter `json:"punctuality"`

	RequestedDays []string        `json:"requestedDays" form:"requestedDays"`
	RequestedType domain.TimeType `json:"requestedType" form:"requestedType" binding:"omitempty,oneof=all day night"`
	BookedDays    []string        `json:"bookedDays" form:"bookedDays"`
	BookedType    domain.TimeType `json:"bookedType" form:"bookedType" binding:"omitempty,oneof=all day night"`
}

var QueryEligibleWorkersFunc = QueryEligibleWorkers

// QueryEligibleWorkers returns the ordered set of students who are available
// for the target and hold no overlapping active assignment. An empty result
// is a normal outcome, not an error.
func QueryEligibleWorkers(q *EligibleWorkersQuery, s *session.Session) ([]account.WorkerInfo, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	var shift *domain.Shift
	if !q.ShiftID.IsZero() {
		found := domain.Shift{}
		if err := db.Where(&domain.Shift{ID: q.ShiftID}).First(&found).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, bizerror.ErrNotFound
			}
			return nil, err
		}
		if !s.Perms.HasProjectViewPerm(found.ProjectID) {
			return nil, bizerror.ErrForbidden
		}
		shift = &found
	}

	candidates := []account.Worker{}
	candidateQuery := db.Where(&account.Worker{Role: account.RoleStudent})
	if q.Punctuality.MinValue > 0 {
		candidateQuery = candidateQuery.Where("punctuality_rating >= ?", q.Punctuality.MinValue)
	}
	if err := candidateQuery.Order("ID ASC").Find(&candidates).Error; err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []account.WorkerInfo{}, nil
	}

	workerIds := make([]types.ID, 0, len(candidates))
	for _, w := range candidates {
		workerIds = append(workerIds, w.ID)
	}

	slots := []domain.AvailabilitySlot{}
	if err := db.Where("worker_id in (?)", workerIds).Find(&slots).Error; err != nil {
		return nil, err
	}
	slotsByWorker := map[types.ID][]domain.AvailabilitySlot{}
	for _, slot := range slots {
		slotsByWorker[slot.WorkerID] = append(slotsByWorker[slot.WorkerID], slot)
	}

	eligible := make([]account.WorkerInfo, 0, len(candidates))
	for _, w := range candidates {
		ok := false
		if shift != nil {
			available := hasMatchingSlot(slotsByWorker[w.ID], shift.Date, shift.TimeType)
			if available {
				booked, err := isBookedOn(w.ID, shift.Date, shift.TimeType, db)
				if err != nil {
					return nil, err
				}
				ok = !booked
			}
		} else {
			match, err := matchesDayFilters(w.ID, slotsByWorker[w.ID], q, db)
			if err != nil {
				return nil, err
			}
			ok = match
		}
		if ok {
			eligible = append(eligible, account.WorkerInfo{ID: w.ID, Name: w.Name, Nickname: w.Nickname,
				Email: w.Email, Role: w.Role, PunctualityRating: w.PunctualityRating})
		}
	}

	sortByPunctuality(eligible, q.Punctuality.Order)
	return eligible, nil
}

func hasMatchingSlot(slots []domain.AvailabilitySlot, date types.Timestamp, timeType domain.TimeType) bool {
	weekday := domain.WeekdayOf(date)
	for i := range slots {
		if slots[i].DayOfWeek == weekday && slots[i].TimeType.Matches(timeType) && slots[i].CoversDate(date) {
			return true
		}
	}
	return false
}

func isBookedOn(workerId types.ID, date types.Timestamp, timeType domain.TimeType, db *gorm.DB) (bool, error) {
	var count int
	query := db.Model(&domain.ShiftAssignment{}).
		Joins("INNER JOIN shifts ON shifts.id = shift_assignments.shift_id").
		Where("shift_assignments.student_id = ? AND shift_assignments.status in (?)", workerId, domain.ActiveAssignmentStatuses).
		Where("shifts.date = ?", date)
	if timeType != domain.TimeTypeAll {
		query = query.Where("shifts.time_type = ?", timeType)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// matchesDayFilters applies the requested-days / booked-days filter pair in
// date-range mode: a worker passes when availability covers every requested
// day and an active assignment exists on every booked day.
func matchesDayFilters(workerId types.ID, slots []domain.AvailabilitySlot, q *EligibleWorkersQuery, db *gorm.DB) (bool, error) {
	requestedType := q.RequestedType
	if requestedType == "" {
		requestedType = domain.TimeTypeAll
	}
	for _, day := range q.RequestedDays {
		day = strings.ToLower(day)
		found := false
		for i := range slots {
			if slots[i].DayOfWeek == day && slots[i].TimeType.Matches(requestedType) {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}

	bookedType := q.BookedType
	if bookedType == "" {
		bookedType = domain.TimeTypeAll
	}
	for _, day := range q.BookedDays {
		booked, err := isBookedOnWeekday(workerId, strings.ToLower(day), bookedType, q.DateBegin, q.DateEnd, db)
		if err != nil {
			return false, err
		}
		if !booked {
			return false, nil
		}
	}
	return true, nil
}

func isBookedOnWeekday(workerId types.ID, day string, timeType domain.TimeType,
	begin, end types.Timestamp, db *gorm.DB) (bool, error) {
	var count int
	query := db.Model(&domain.ShiftAssignment{}).
		Joins("INNER JOIN shifts ON shifts.id = shift_assignments.shift_id").
		Where("shift_assignments.student_id = ? AND shift_assignments.status in (?)", workerId, domain.ActiveAssignmentStatuses).
		Where("shifts.day_of_week = ?", day)
	if timeType != domain.TimeTypeAll {
		query = query.Where("shifts.time_type = ?", timeType)
	}
	if !begin.IsZero() {
		query = query.Where("shifts.date >= ?", begin)
	}
	if !end.IsZero() {
		query = query.Where("shifts.date <= ?", end)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func sortByPunctuality(workers []account.WorkerInfo, order string) {
	if order != PunctualityOrderAsc && order != PunctualityOrderDesc {
		return
	}
	sort.SliceStable(workers, func(i, j int) bool {
		if workers[i].PunctualityRating == workers[j].PunctualityRating {
			return workers[i].ID < workers[j].ID
		}
		if order == PunctualityOrderAsc {
			return workers[i].PunctualityRating < workers[j].PunctualityRating
		}
		return workers[i].PunctualityRating > workers[j].PunctualityRating
	})
}
