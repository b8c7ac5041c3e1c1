package availability

import (
	"strings"

	"shiftgate/account"
	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/idgen"
	"shiftgate/notification"
	"shiftgate/persistence"
	"shiftgate/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	slotIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	GetUserAvailabilitiesFunc = GetUserAvailabilities
	SetUserAvailabilitiesFunc = SetUserAvailabilities
	GetUserAvailableDatesFunc = GetUserAvailableDates
)

type AvailabilityQuery struct {
	WorkerID types.ID `json:"workerId" form:"workerId"`
}

type SlotUpdating struct {
	DayOfWeek string          `json:"dayOfWeek" binding:"required,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	TimeType  domain.TimeType `json:"timeType" binding:"required,oneof=day night"`

	FromDate types.Timestamp `json:"fromDate"`
	ToDate   types.Timestamp `json:"toDate"`
}

type AvailabilityUpdating struct {
	Slots []SlotUpdating `json:"slots" binding:"dive"`
}

type AvailableDatesQuery struct {
	WorkerID  types.ID        `json:"workerId" form:"workerId"`
	DateBegin types.Timestamp `json:"dateBegin" form:"dateBegin" binding:"required"`
	DateEnd   types.Timestamp `json:"dateEnd" form:"dateEnd" binding:"required"`
}

type AvailableDate struct {
	Date      types.Timestamp `json:"date"`
	DayOfWeek string          `json:"dayOfWeek"`
	TimeType  domain.TimeType `json:"timeType"`
}

// GetUserAvailabilities returns the recurring slots of a worker. A worker may
// read their own slots; reading another worker's requires a project role.
func GetUserAvailabilities(q *AvailabilityQuery, s *session.Session) ([]domain.AvailabilitySlot, error) {
	workerId := q.WorkerID
	if workerId.IsZero() {
		workerId = s.Identity.ID
	}
	if workerId != s.Identity.ID && len(s.ProjectRoles) == 0 && !s.Perms.HasGlobalViewRole() {
		return nil, bizerror.ErrForbidden
	}

	slots := []domain.AvailabilitySlot{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where(&domain.AvailabilitySlot{WorkerID: workerId}).Order("ID ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// SetUserAvailabilities replaces the caller's recurring slots in one
// transaction and emits an availability-update notification after commit.
func SetUserAvailabilities(u *AvailabilityUpdating, s *session.Session) ([]domain.AvailabilitySlot, error) {
	workerId := s.Identity.ID
	now := types.CurrentTimestamp()

	slots := make([]domain.AvailabilitySlot, 0, len(u.Slots))
	seen := map[string]bool{}
	for _, slot := range u.Slots {
		key := strings.ToLower(slot.DayOfWeek) + "/" + string(slot.TimeType)
		if seen[key] {
			return nil, &bizerror.ErrBadParam{}
		}
		seen[key] = true
		slots = append(slots, domain.AvailabilitySlot{
			ID:       idgen.NextID(slotIdWorker),
			WorkerID: workerId,

			DayOfWeek: strings.ToLower(slot.DayOfWeek),
			TimeType:  slot.TimeType,

			FromDate: slot.FromDate,
			ToDate:   slot.ToDate,

			CreateTime: now,
		})
	}

	var record *notification.NotificationRecord
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(domain.AvailabilitySlot{}, "worker_id = ?", workerId).Error; err != nil {
			return err
		}
		for i := range slots {
			if err := tx.Create(&slots[i]).Error; err != nil {
				return err
			}
		}

		worker, err := account.FindWorker(workerId, tx)
		if err != nil {
			return err
		}
		record, err = notification.CreateNotification(notification.Notification{
			RecipientId: worker.ID, RecipientName: worker.DisplayName(), RecipientEmail: worker.Email,
			TemplateKind: notification.TemplateAvailabilityUpdate,
			Params:       notification.Params{"slotCount": types.ID(len(slots)).String()},
		}, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	if notification.InvokeHandlersFunc != nil {
		notification.InvokeHandlersFunc(record)
	}

	return slots, nil
}

// GetUserAvailableDates expands the recurring slots of a worker into the
// concrete dates of a range.
func GetUserAvailableDates(q *AvailableDatesQuery, s *session.Session) ([]AvailableDate, error) {
	slots, err := GetUserAvailabilities(&AvailabilityQuery{WorkerID: q.WorkerID}, s)
	if err != nil {
		return nil, err
	}

	dates := []AvailableDate{}
	for t := q.DateBegin.Time(); !t.After(q.DateEnd.Time()); t = t.AddDate(0, 0, 1) {
		date := types.Timestamp(t)
		weekday := domain.WeekdayOf(date)
		for i := range slots {
			if slots[i].DayOfWeek != weekday || !slots[i].CoversDate(date) {
				continue
			}
			dates = append(dates, AvailableDate{Date: date, DayOfWeek: weekday, TimeType: slots[i].TimeType})
		}
	}
	return dates, nil
}
