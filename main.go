package main

import (
	"context"
	"net/http"

	"shiftgate/account"
	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/domain/assignment"
	"shiftgate/domain/attendance"
	"shiftgate/domain/availability"
	"shiftgate/domain/shift"
	"shiftgate/infra/tracing"
	"shiftgate/notification"
	"shiftgate/persistence"
	"shiftgate/servehttp"
	"shiftgate/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse database config failed %v", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database %v", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		logrus.Fatalf("database connection failed %v", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(context.Background()).AutoMigrate(
		&domain.Project{}, &domain.ProjectMember{},
		&domain.Shift{}, &domain.ShiftAssignment{}, &domain.AttendanceRecord{}, &domain.AvailabilitySlot{},
		&account.Worker{}, &notification.NotificationRecord{}).Error
	if err != nil {
		logrus.Fatalf("database migration failed %v", err)
	}

	tracingCloser, err := tracing.InitTracer()
	if err != nil {
		logrus.Fatalf("tracer initialization failed %v", err)
	}
	defer tracingCloser.Close()

	if mailConfig, err := notification.ParseMailConfigFromEnv(); err != nil {
		logrus.Warnf("mail dispatch disabled: %v", err)
	} else {
		notification.Handlers = append(notification.Handlers, notification.MailNotificationHandler(mailConfig))
	}

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling(), tracing.TracingIngress())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "shiftgate")
	})

	account.RegisterSessionsRestAPI(engine)
	account.RegisterWorkersRestAPI(engine, session.SimpleAuthFilter())
	shift.RegisterShiftsRestAPI(engine, session.SimpleAuthFilter())
	availability.RegisterAvailabilitiesRestAPI(engine, session.SimpleAuthFilter())
	assignment.RegisterAssignmentsRestAPI(engine, session.SimpleAuthFilter())
	attendance.RegisterAttendancesRestAPI(engine, session.SimpleAuthFilter())

	servehttp.StartHTTPServer(engine)
}
