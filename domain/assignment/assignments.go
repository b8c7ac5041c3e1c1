package assignment

import (
	"errors"

	"shiftgate/account"
	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/idgen"
	"shiftgate/notification"
	"shiftgate/persistence"
	"shiftgate/session"

	"github.com/fundwit/go-commons/types"
	"github.com/go-sql-driver/mysql"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	assignmentIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateShiftAssignmentFunc = CreateShiftAssignment
	CancelShiftAssignmentFunc = CancelShiftAssignment
)

type AssignmentCreation struct {
	ShiftID   types.ID `json:"shiftId" binding:"required"`
	StudentID types.ID `json:"studentId" binding:"required"`
}

type AssignmentCancellation struct {
	ShiftID   types.ID `json:"shiftId" form:"shiftId" binding:"required"`
	StudentID types.ID `json:"studentId" form:"studentId" binding:"required"`
}

type AssignmentDetail struct {
	domain.ShiftAssignment

	Coverage domain.Coverage `json:"coverage"`
}

// CreateShiftAssignment binds an available student to a shift. The in-tx
// existence check is best effort; the unique index on (shift_id, student_id,
// active_flag) is what actually decides a race, and a duplicate-key loss is
// answered exactly like a pre-check miss.
func CreateShiftAssignment(c *AssignmentCreation, s *session.Session) (*AssignmentDetail, error) {
	var detail *AssignmentDetail
	var record *notification.NotificationRecord

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		sh := domain.Shift{}
		if err := tx.Where(&domain.Shift{ID: c.ShiftID}).First(&sh).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrNotFound
			}
			return err
		}
		if !s.Perms.HasRoleSuffix("_" + sh.ProjectID.String()) {
			return bizerror.ErrForbidden
		}

		student, err := account.FindWorker(c.StudentID, tx)
		if err != nil {
			return err
		}

		if !coversShift(tx, c.StudentID, &sh) {
			return bizerror.ErrWorkerIneligible
		}

		var existing int
		if err := tx.Model(&domain.ShiftAssignment{}).
			Where("shift_id = ? AND student_id = ? AND status in (?)", c.ShiftID, c.StudentID, domain.ActiveAssignmentStatuses).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return bizerror.ErrAlreadyAssigned
		}

		var activeCount int
		if err := tx.Model(&domain.ShiftAssignment{}).
			Where("shift_id = ? AND status in (?)", c.ShiftID, domain.ActiveAssignmentStatuses).
			Count(&activeCount).Error; err != nil {
			return err
		}

		now := types.CurrentTimestamp()
		assignment := domain.ShiftAssignment{
			ID:        idgen.NextID(assignmentIdWorker),
			ShiftID:   c.ShiftID,
			StudentID: c.StudentID,

			Status: domain.AssignmentStatusAssigned,
			// over-assignment is permitted, only flagged
			IsExtra: activeCount+1 > sh.RequiredStudents,

			CreateTime: now,
			UpdateTime: now,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			if isDuplicateKeyError(err) {
				return bizerror.ErrAlreadyAssigned
			}
			return err
		}

		if err := tx.Model(&domain.Shift{}).Where("id = ?", sh.ID).
			Update("assigned_count", gorm.Expr("assigned_count + 1")).Error; err != nil {
			return err
		}

		record, err = notification.CreateNotification(notification.Notification{
			RecipientId: student.ID, RecipientName: student.DisplayName(), RecipientEmail: student.Email,
			TemplateKind: notification.TemplateAssignment,
			Params: notification.Params{
				"shiftDate": sh.Date.Time().Format("2006-01-02"),
				"timeType":  string(sh.TimeType),
				"startTime": sh.StartTime.Time().Format("15:04"),
				"stopTime":  sh.StopTime.Time().Format("15:04"),
			},
		}, tx)
		if err != nil {
			return err
		}

		detail = &AssignmentDetail{
			ShiftAssignment: assignment,
			Coverage:        domain.CoverageOf(&sh, activeCount+1),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if notification.InvokeHandlersFunc != nil {
		notification.InvokeHandlersFunc(record)
	}

	return detail, nil
}

// CancelShiftAssignment is the administrator action releasing an active
// assignment. The active_flag takes over the row id so the uniqueness slot of
// the (shift, student) pair reopens in the same write.
func CancelShiftAssignment(c *AssignmentCancellation, s *session.Session) error {
	var record *notification.NotificationRecord

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		sh := domain.Shift{}
		if err := tx.Where(&domain.Shift{ID: c.ShiftID}).First(&sh).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrNotFound
			}
			return err
		}
		if !s.Perms.HasRoleSuffix("_" + sh.ProjectID.String()) {
			return bizerror.ErrForbidden
		}

		assignment := domain.ShiftAssignment{}
		if err := tx.Where("shift_id = ? AND student_id = ? AND status in (?)",
			c.ShiftID, c.StudentID, domain.ActiveAssignmentStatuses).First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrNotFound
			}
			return err
		}

		ret := tx.Model(&domain.ShiftAssignment{}).
			Where("id = ? AND status in (?)", assignment.ID, domain.ActiveAssignmentStatuses).
			Updates(map[string]interface{}{
				"status":      domain.AssignmentStatusCancelled,
				"active_flag": assignment.ID,
				"update_time": types.CurrentTimestamp(),
			})
		if ret.Error != nil {
			return ret.Error
		}
		if ret.RowsAffected != 1 {
			return bizerror.ErrConflict
		}

		if err := tx.Model(&domain.Shift{}).Where("id = ? AND assigned_count > 0", sh.ID).
			Update("assigned_count", gorm.Expr("assigned_count - 1")).Error; err != nil {
			return err
		}

		student, err := account.FindWorker(c.StudentID, tx)
		if err != nil {
			return err
		}
		record, err = notification.CreateNotification(notification.Notification{
			RecipientId: student.ID, RecipientName: student.DisplayName(), RecipientEmail: student.Email,
			TemplateKind: notification.TemplateStatusUpdate,
			Params: notification.Params{
				"shiftDate": sh.Date.Time().Format("2006-01-02"),
				"status":    string(domain.AssignmentStatusCancelled),
			},
		}, tx)
		return err
	})
	if err != nil {
		return err
	}

	if notification.InvokeHandlersFunc != nil {
		notification.InvokeHandlersFunc(record)
	}

	return nil
}

func coversShift(tx *gorm.DB, studentId types.ID, sh *domain.Shift) bool {
	slots := []domain.AvailabilitySlot{}
	if err := tx.Where(&domain.AvailabilitySlot{WorkerID: studentId, DayOfWeek: sh.DayOfWeek}).Find(&slots).Error; err != nil {
		return false
	}
	return hasMatchingSlot(slots, sh.Date, sh.TimeType)
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
