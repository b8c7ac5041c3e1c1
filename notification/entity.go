package notification

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/fundwit/go-commons/types"
)

type TemplateKind string

const (
	TemplateAssignment          TemplateKind = "ASSIGNMENT"
	TemplateCancellationRequest TemplateKind = "CANCELLATION_REQUEST"
	TemplateStatusUpdate        TemplateKind = "STATUS_UPDATE"
	TemplateStudentNote         TemplateKind = "STUDENT_NOTE"
	TemplateAvailabilityUpdate  TemplateKind = "AVAILABILITY_UPDATE"
)

type Notification struct {
	RecipientId    types.ID `json:"recipientId"`
	RecipientName  string   `json:"recipientName"`
	RecipientEmail string   `json:"recipientEmail"`

	TemplateKind TemplateKind `json:"templateKind"`
	Params       Params       `json:"params" sql:"type:TEXT"`
}

// NotificationRecord is the outbound task persisted inside the same
// transaction as the business mutation; dispatch happens after commit and a
// failed dispatch leaves Sent false without touching the mutation.
type NotificationRecord struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Notification

	Timestamp types.Timestamp `json:"timestamp" sql:"type:DATETIME(6)"`
	Sent      bool            `json:"sent"`
}

func (r *NotificationRecord) TableName() string {
	return "notifications"
}

type Params map[string]string

func (t Params) Value() (driver.Value, error) {
	jsonBytes, err := json.Marshal(&t)
	if err != nil {
		return nil, err
	}
	return string(jsonBytes), nil
}

func (c *Params) Scan(v interface{}) error {
	jsonString, ok := v.(string)
	if !ok {
		jsonByte, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("type is neither string nor []byte: %T %v", v, v)
		}
		jsonString = string(jsonByte)
	}
	return json.Unmarshal([]byte(jsonString), c)
}
