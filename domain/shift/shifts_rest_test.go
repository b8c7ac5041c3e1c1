package shift_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/domain/shift"
	"shiftgate/session"
	"shiftgate/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestCreateShiftAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	shift.RegisterShiftsRestAPI(router)

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, shift.PathShifts, strings.NewReader(`{"timeType": "day"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message": "Key: 'ShiftCreation.ProjectID' Error:Field validation for 'ProjectID' failed on the 'required' tag\n` +
			`Key: 'ShiftCreation.Date' Error:Field validation for 'Date' failed on the 'required' tag\n` +
			`Key: 'ShiftCreation.StartTime' Error:Field validation for 'StartTime' failed on the 'required' tag\n` +
			`Key: 'ShiftCreation.StopTime' Error:Field validation for 'StopTime' failed on the 'required' tag",
			"data":null}`))
	})

	t.Run("should be able to handle create request successfully", func(t *testing.T) {
		var c1 shift.ShiftCreation
		shift.CreateShiftFunc = func(c *shift.ShiftCreation, s *session.Session) (*domain.Shift, error) {
			c1 = *c
			return &domain.Shift{ID: 1, ProjectID: c.ProjectID, DayOfWeek: "monday",
				Status: domain.ShiftStatusPublished}, nil
		}
		req := httptest.NewRequest(http.MethodPost, shift.PathShifts,
			strings.NewReader(`{"projectId": "100", "date": "2021-06-07T00:00:00Z", "timeType": "day",
				"startTime": "2021-06-07T08:00:00Z", "stopTime": "2021-06-07T17:00:00Z", "requiredStudents": 3}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(c1.ProjectID).To(Equal(types.ID(100)))
		Expect(c1.TimeType).To(Equal(domain.TimeTypeDay))
		Expect(c1.RequiredStudents).To(Equal(3))
		Expect(c1.Date.Time().UTC()).To(Equal(time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC)))
	})
}

func TestGetProjectShiftsAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	shift.RegisterShiftsRestAPI(router)

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, shift.PathShifts, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message": "Key: 'ShiftQuery.ProjectID' Error:Field validation for 'ProjectID' failed on the 'required' tag",
			"data":null}`))
	})

	t.Run("should be able to handle error", func(t *testing.T) {
		shift.GetProjectShiftsFunc = func(q *domain.ShiftQuery, s *session.Session) ([]shift.ShiftDetail, error) {
			return nil, errors.New("some error")
		}
		req := httptest.NewRequest(http.MethodGet, shift.PathShifts+"?projectId=100", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error", "message":"some error", "data":null}`))
	})

	t.Run("should be able to handle query request successfully", func(t *testing.T) {
		var q1 domain.ShiftQuery
		shift.GetProjectShiftsFunc = func(q *domain.ShiftQuery, s *session.Session) ([]shift.ShiftDetail, error) {
			q1 = *q
			return []shift.ShiftDetail{}, nil
		}
		req := httptest.NewRequest(http.MethodGet, shift.PathShifts+"?projectId=100&timeType=day", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`[]`))
		Expect(q1.ProjectID).To(Equal(types.ID(100)))
		Expect(q1.TimeType).To(Equal(domain.TimeTypeDay))
	})
}
