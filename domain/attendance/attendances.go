package attendance

import (
	"errors"
	"time"

	"shiftgate/account"
	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/idgen"
	"shiftgate/persistence"
	"shiftgate/session"

	"github.com/fundwit/go-commons/types"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

// a scan up to 30 minutes before the shift starts is accepted; there is no
// grace period past the stop time
const ClockInGracePeriod = 30 * time.Minute

var (
	attendanceIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	VerifyStudentShiftFunc     = VerifyStudentShift
	CreateAttendanceRecordFunc = CreateAttendanceRecord
	UpdateShiftAssignmentFunc  = UpdateShiftAssignment
	CloseAttendanceRecordFunc  = CloseAttendanceRecord
)

type VerificationRequest struct {
	StudentID types.ID `json:"studentId" binding:"required"`
	ShiftID   types.ID `json:"shiftId" binding:"required"`
	ProjectID types.ID `json:"projectId" binding:"required"`

	Timestamp types.Timestamp `json:"timestamp" binding:"required"`
}

// VerificationResult is the confirmation tuple shown to the gate operator.
// Producing it is read-only and safe to retry.
type VerificationResult struct {
	Student account.WorkerInfo `json:"student"`
	Shift   domain.Shift       `json:"shift"`
	Project domain.Project     `json:"project"`

	WindowBegin types.Timestamp `json:"windowBegin"`
	WindowEnd   types.Timestamp `json:"windowEnd"`
	Timestamp   types.Timestamp `json:"timestamp"`

	Assignment domain.ShiftAssignment `json:"assignment"`
}

type AttendanceCreation struct {
	ShiftID   types.ID `json:"shiftId" binding:"required"`
	StudentID types.ID `json:"studentId" binding:"required"`
	ProjectID types.ID `json:"projectId" binding:"required"`
}

type ClockOutRequest struct {
	ShiftID   types.ID `json:"shiftId" binding:"required"`
	StudentID types.ID `json:"studentId" binding:"required"`
}

type ConfirmationRequest struct {
	ShiftID   types.ID `json:"shiftId" binding:"required"`
	StudentID types.ID `json:"studentId" binding:"required"`
}

// VerifyStudentShift validates a gate scan: the student must hold an active
// assignment for the shift and the timestamp must fall inside
// [startTime − 30m, stopTime].
func VerifyStudentShift(req *VerificationRequest, s *session.Session) (*VerificationResult, error) {
	if !s.Perms.HasProjectViewPerm(req.ProjectID) {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	assignment := domain.ShiftAssignment{}
	if err := db.Where("shift_id = ? AND student_id = ? AND status in (?)",
		req.ShiftID, req.StudentID, domain.ActiveAssignmentStatuses).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNoValidAssignment
		}
		return nil, err
	}

	sh := domain.Shift{}
	if err := db.Where(&domain.Shift{ID: req.ShiftID}).First(&sh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	windowBegin := types.Timestamp(sh.StartTime.Time().Add(-ClockInGracePeriod))
	windowEnd := sh.StopTime
	at := req.Timestamp.Time()
	if at.Before(windowBegin.Time()) || at.After(windowEnd.Time()) {
		return nil, bizerror.ErrOutsideClockInWindow
	}

	student, err := account.FindWorker(req.StudentID, db)
	if err != nil {
		return nil, err
	}
	project := domain.Project{}
	if err := db.Where(&domain.Project{ID: req.ProjectID}).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}

	return &VerificationResult{
		Student: account.WorkerInfo{ID: student.ID, Name: student.Name, Nickname: student.Nickname,
			Email: student.Email, Role: student.Role, PunctualityRating: student.PunctualityRating},
		Shift:   sh,
		Project: project,

		WindowBegin: windowBegin,
		WindowEnd:   windowEnd,
		Timestamp:   req.Timestamp,

		Assignment: assignment,
	}, nil
}

// CreateAttendanceRecord opens a pending attendance for the pair. The unique
// index on (shift_id, student_id, open_flag) decides a double clock-in race.
func CreateAttendanceRecord(c *AttendanceCreation, s *session.Session) (*domain.AttendanceRecord, error) {
	if !s.Perms.HasRoleSuffix("_" + c.ProjectID.String()) {
		return nil, bizerror.ErrForbidden
	}

	var record domain.AttendanceRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		var open int
		if err := tx.Model(&domain.AttendanceRecord{}).
			Where("shift_id = ? AND student_id = ? AND open_flag = 0", c.ShiftID, c.StudentID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return bizerror.ErrAlreadyClockedIn
		}

		record = domain.AttendanceRecord{
			ID:        idgen.NextID(attendanceIdWorker),
			ShiftID:   c.ShiftID,
			StudentID: c.StudentID,

			QrCode: uuid.New().String(),

			ClockInTime:      types.CurrentTimestamp(),
			AttendanceStatus: domain.AttendanceStatusPending,

			ClockInVerifiedBy: s.Identity.ID,
		}
		if err := tx.Create(&record).Error; err != nil {
			if isDuplicateKeyError(err) {
				return bizerror.ErrAlreadyClockedIn
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CloseAttendanceRecord stamps the clock-out time and releases the
// open-attendance uniqueness slot.
func CloseAttendanceRecord(c *ClockOutRequest, s *session.Session) (*domain.AttendanceRecord, error) {
	var record domain.AttendanceRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shift_id = ? AND student_id = ? AND open_flag = 0",
			c.ShiftID, c.StudentID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrNotFound
			}
			return err
		}

		now := types.CurrentTimestamp()
		ret := tx.Model(&domain.AttendanceRecord{}).
			Where("id = ? AND open_flag = 0", record.ID).
			Updates(map[string]interface{}{"clock_out_time": now, "open_flag": record.ID})
		if ret.Error != nil {
			return ret.Error
		}
		if ret.RowsAffected != 1 {
			return bizerror.ErrConflict
		}
		record.ClockOutTime = now
		record.OpenFlag = record.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateShiftAssignment is the confirmation step after a recorded clock-in.
// Confirming an already confirmed assignment is a no-op success so a partial
// failure between attendance creation and confirmation is recoverable by
// re-invoking.
func UpdateShiftAssignment(c *ConfirmationRequest, s *session.Session) (*domain.ShiftAssignment, error) {
	var assignment domain.ShiftAssignment
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shift_id = ? AND student_id = ? AND status in (?)",
			c.ShiftID, c.StudentID, domain.ActiveAssignmentStatuses).First(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrNotFound
			}
			return err
		}
		if assignment.Status == domain.AssignmentStatusConfirmed {
			return nil
		}

		now := types.CurrentTimestamp()
		ret := tx.Model(&domain.ShiftAssignment{}).
			Where("id = ? AND status = ?", assignment.ID, domain.AssignmentStatusAssigned).
			Updates(map[string]interface{}{
				"status":       domain.AssignmentStatusConfirmed,
				"confirmed_at": now,
				"update_time":  now,
			})
		if ret.Error != nil {
			return ret.Error
		}
		if ret.RowsAffected != 1 {
			// lost the race to a concurrent confirmation, which is fine
			return tx.Where("id = ?", assignment.ID).First(&assignment).Error
		}
		assignment.Status = domain.AssignmentStatusConfirmed
		assignment.ConfirmedAt = now
		assignment.UpdateTime = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
