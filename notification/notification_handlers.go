package notification

import (
	"context"

	"shiftgate/persistence"

	"github.com/sirupsen/logrus"
)

/*
return nil if not support
*/
type Handler func(r *NotificationRecord) *HandleResult

type HandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

var Handlers []Handler

var InvokeHandlersFunc = invokeHandlers

// invokeHandlers dispatches a committed notification record. Dispatch
// failures are logged once and never escalate to the caller; there is no
// automatic retry.
func invokeHandlers(record *NotificationRecord) []HandleResult {
	results := []HandleResult{}
	for _, handler := range Handlers {
		logrus.Debug("pre handle notification ", record.Notification)
		r := handler(record)

		if r == nil {
			continue
		}

		results = append(results, *r)

		if r.Success {
			logrus.Info("post handle notification. ", r)
			markSent(record)
		} else {
			logrus.Warn("notification dispatch failed. ", r)
		}
	}
	return results
}

func markSent(record *NotificationRecord) {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Model(&NotificationRecord{}).Where("id = ?", record.ID).Update("sent", true).Error; err != nil {
		logrus.Warn("failed to mark notification as sent: ", err)
	}
}
