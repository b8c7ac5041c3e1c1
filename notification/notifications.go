package notification

import (
	"shiftgate/idgen"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	notificationIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	NotificationPersistCreateFunc = notificationPersistCreate
)

// CreateNotification persists an outbound notification record with the given
// db handle, which is expected to be the transaction of the business
// mutation triggering it.
func CreateNotification(n Notification, db *gorm.DB) (*NotificationRecord, error) {
	record := NotificationRecord{
		ID:           idgen.NextID(notificationIdWorker),
		Notification: n,
		Sent:         false,
		Timestamp:    types.CurrentTimestamp(),
	}
	if err := NotificationPersistCreateFunc(&record, db); err != nil {
		return nil, err
	}
	return &record, nil
}

func notificationPersistCreate(record *NotificationRecord, db *gorm.DB) error {
	return db.Create(record).Error
}
