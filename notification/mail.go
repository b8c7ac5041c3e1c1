package notification

import (
	"errors"
	"os"
	"strconv"
	"time"

	gomail "gopkg.in/gomail.v2"
)

const mailHandlerIdentifier = "smtp-mail"

var mailSendTimeout = 10 * time.Second

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func ParseMailConfigFromEnv() (*MailConfig, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, errors.New("environment variable SMTP_HOST is not set")
	}
	port := 587
	if portValue := os.Getenv("SMTP_PORT"); portValue != "" {
		p, err := strconv.Atoi(portValue)
		if err != nil {
			return nil, err
		}
		port = p
	}
	return &MailConfig{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}, nil
}

var mailSubjects = map[TemplateKind]string{
	TemplateAssignment:          "You have been assigned to a shift",
	TemplateCancellationRequest: "A shift cancellation has been requested",
	TemplateStatusUpdate:        "Your shift assignment status changed",
	TemplateStudentNote:         "A note has been added for you",
	TemplateAvailabilityUpdate:  "Your availability has been updated",
}

// MailNotificationHandler builds a Handler sending records over SMTP. Send
// is bounded by mailSendTimeout; on expiry the record stays unsent.
func MailNotificationHandler(config *MailConfig) Handler {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return func(r *NotificationRecord) *HandleResult {
		if r.RecipientEmail == "" {
			return &HandleResult{Success: false, Message: "recipient has no email address", HandlerIdentifier: mailHandlerIdentifier}
		}

		m := gomail.NewMessage()
		m.SetHeader("From", config.From)
		m.SetHeader("To", r.RecipientEmail)
		m.SetHeader("Subject", mailSubjects[r.TemplateKind])
		m.SetBody("text/plain", renderBody(r))

		done := make(chan error, 1)
		go func() {
			done <- dialer.DialAndSend(m)
		}()
		select {
		case err := <-done:
			if err != nil {
				return &HandleResult{Success: false, Message: err.Error(), HandlerIdentifier: mailHandlerIdentifier}
			}
			return &HandleResult{Success: true, HandlerIdentifier: mailHandlerIdentifier}
		case <-time.After(mailSendTimeout):
			return &HandleResult{Success: false, Message: "smtp send timed out", HandlerIdentifier: mailHandlerIdentifier}
		}
	}
}

func renderBody(r *NotificationRecord) string {
	body := "Hello " + r.RecipientName + ",\n\n"
	switch r.TemplateKind {
	case TemplateAssignment:
		body += "You have been assigned to the shift on " + r.Params["shiftDate"] +
			" (" + r.Params["timeType"] + ", " + r.Params["startTime"] + " - " + r.Params["stopTime"] + ")."
	case TemplateStatusUpdate:
		body += "Your assignment for the shift on " + r.Params["shiftDate"] + " is now " + r.Params["status"] + "."
	case TemplateAvailabilityUpdate:
		body += "Your recurring availability has been updated."
	case TemplateCancellationRequest:
		body += "A cancellation has been requested for the shift on " + r.Params["shiftDate"] + "."
	case TemplateStudentNote:
		body += r.Params["note"]
	}
	return body + "\n"
}
