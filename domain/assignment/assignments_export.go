package assignment

import (
	"shiftgate/account"
	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/persistence"
	"shiftgate/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/xuri/excelize/v2"
)

var ExportShiftAssignmentsFunc = ExportShiftAssignments

const exportSheet = "Assignments"

var exportHeader = []string{"studentName", "shiftDate", "shiftDay", "shiftType", "startTime", "stopTime",
	"requiresStudents", "assignedCount", "isExtra"}

// ExportShiftAssignments serializes the non-cancelled assignments of a
// project in a date range into a spreadsheet.
func ExportShiftAssignments(q *StatsQuery, s *session.Session) (*excelize.File, error) {
	if !s.Perms.HasProjectViewPerm(q.ProjectID) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	assignments := []domain.ShiftAssignment{}
	query := db.Model(&domain.ShiftAssignment{}).
		Joins("INNER JOIN shifts ON shifts.id = shift_assignments.shift_id").
		Where("shifts.project_id = ? AND shift_assignments.status in (?)", q.ProjectID, domain.ActiveAssignmentStatuses)
	if !q.DateBegin.IsZero() {
		query = query.Where("shifts.date >= ?", q.DateBegin)
	}
	if !q.DateEnd.IsZero() {
		query = query.Where("shifts.date <= ?", q.DateEnd)
	}
	if err := query.Order("shifts.date ASC, shift_assignments.id ASC").
		Select("shift_assignments.*").Find(&assignments).Error; err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	file.SetSheetName(file.GetSheetName(0), exportSheet)
	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(exportSheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, a := range assignments {
		sh := domain.Shift{}
		if err := db.Where(&domain.Shift{ID: a.ShiftID}).First(&sh).Error; err != nil {
			return nil, err
		}
		student, err := account.FindWorker(a.StudentID, db)
		if err != nil {
			return nil, err
		}

		counts, err := activeAssignmentCount(sh.ID, db)
		if err != nil {
			return nil, err
		}

		values := []interface{}{
			student.DisplayName(),
			sh.Date.Time().Format("2006-01-02"),
			sh.DayOfWeek,
			string(sh.ShiftType),
			sh.StartTime.Time().Format("15:04"),
			sh.StopTime.Time().Format("15:04"),
			sh.RequiredStudents,
			counts,
			a.IsExtra,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	return file, nil
}

func activeAssignmentCount(shiftId types.ID, db *gorm.DB) (int, error) {
	var count int
	if err := db.Model(&domain.ShiftAssignment{}).
		Where("shift_id = ? AND status in (?)", shiftId, domain.ActiveAssignmentStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
