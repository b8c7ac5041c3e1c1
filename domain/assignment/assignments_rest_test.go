package assignment_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shiftgate/account"
	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/domain/assignment"
	"shiftgate/session"
	"shiftgate/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestCreateShiftAssignmentAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	assignment.RegisterAssignmentsRestAPI(router)

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, assignment.PathShiftAssignments, strings.NewReader("{}"))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message": "Key: 'AssignmentCreation.ShiftID' Error:Field validation for 'ShiftID' failed on the 'required' tag\n` +
			`Key: 'AssignmentCreation.StudentID' Error:Field validation for 'StudentID' failed on the 'required' tag",
			"data":null}`))
	})

	t.Run("should map duplicate active assignment to conflict", func(t *testing.T) {
		assignment.CreateShiftAssignmentFunc = func(c *assignment.AssignmentCreation, s *session.Session) (*assignment.AssignmentDetail, error) {
			return nil, bizerror.ErrAlreadyAssigned
		}
		req := httptest.NewRequest(http.MethodPost, assignment.PathShiftAssignments,
			strings.NewReader(`{"shiftId": "1", "studentId": "20"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusConflict))
		Expect(body).To(MatchJSON(`{"code":"assignment.already_assigned",
			"message":"worker already holds an active assignment for this shift", "data":null}`))
	})

	t.Run("should map ineligible worker to conflict", func(t *testing.T) {
		assignment.CreateShiftAssignmentFunc = func(c *assignment.AssignmentCreation, s *session.Session) (*assignment.AssignmentDetail, error) {
			return nil, bizerror.ErrWorkerIneligible
		}
		req := httptest.NewRequest(http.MethodPost, assignment.PathShiftAssignments,
			strings.NewReader(`{"shiftId": "1", "studentId": "20"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusConflict))
		Expect(body).To(MatchJSON(`{"code":"assignment.worker_ineligible",
			"message":"worker is not available for this shift", "data":null}`))
	})

	t.Run("should be able to handle create request successfully", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 6, 7, 10, 0, 0, 0, time.Now().Location())
		timeBytes, err := demoTime.Time().MarshalJSON()
		Expect(err).To(BeNil())
		timeString := strings.Trim(string(timeBytes), `"`)

		var c1 assignment.AssignmentCreation
		assignment.CreateShiftAssignmentFunc = func(c *assignment.AssignmentCreation, s *session.Session) (*assignment.AssignmentDetail, error) {
			c1 = *c
			return &assignment.AssignmentDetail{
				ShiftAssignment: domain.ShiftAssignment{ID: 500, ShiftID: c.ShiftID, StudentID: c.StudentID,
					Status: domain.AssignmentStatusAssigned, IsExtra: true, CreateTime: demoTime, UpdateTime: demoTime},
				Coverage: domain.Coverage{Value: 3, Total: 3, Assigned: 4, Percentage: 133.3, IsOver: true},
			}, nil
		}
		req := httptest.NewRequest(http.MethodPost, assignment.PathShiftAssignments,
			strings.NewReader(`{"shiftId": "1", "studentId": "20"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"id": "500", "shiftId": "1", "studentId": "20",
			"status": "assigned", "isExtra": true, "confirmedAt": null,
			"createTime": "` + timeString + `", "updateTime": "` + timeString + `",
			"coverage": {"value": 3, "total": 3, "assigned": 4, "percentage": 133.3, "isOver": true}}`))
		Expect(c1).To(Equal(assignment.AssignmentCreation{ShiftID: 1, StudentID: 20}))
	})
}

func TestCancelShiftAssignmentAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	assignment.RegisterAssignmentsRestAPI(router)

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, assignment.PathShiftAssignments, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message": "Key: 'AssignmentCancellation.ShiftID' Error:Field validation for 'ShiftID' failed on the 'required' tag\n` +
			`Key: 'AssignmentCancellation.StudentID' Error:Field validation for 'StudentID' failed on the 'required' tag",
			"data":null}`))
	})

	t.Run("should be able to handle cancel request successfully", func(t *testing.T) {
		var c1 assignment.AssignmentCancellation
		assignment.CancelShiftAssignmentFunc = func(c *assignment.AssignmentCancellation, s *session.Session) error {
			c1 = *c
			return nil
		}
		req := httptest.NewRequest(http.MethodDelete, assignment.PathShiftAssignments+"?shiftId=1&studentId=20", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(body).To(BeEmpty())
		Expect(c1).To(Equal(assignment.AssignmentCancellation{ShiftID: 1, StudentID: 20}))
	})

	t.Run("should map absent assignment to not found", func(t *testing.T) {
		assignment.CancelShiftAssignmentFunc = func(c *assignment.AssignmentCancellation, s *session.Session) error {
			return bizerror.ErrNotFound
		}
		req := httptest.NewRequest(http.MethodDelete, assignment.PathShiftAssignments+"?shiftId=1&studentId=20", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code":"common.record_not_found", "message":"record not found", "data":null}`))
	})
}

func TestQueryEligibleWorkersAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	assignment.RegisterAssignmentsRestAPI(router)

	t.Run("should be able to handle error", func(t *testing.T) {
		assignment.QueryEligibleWorkersFunc = func(q *assignment.EligibleWorkersQuery, s *session.Session) ([]account.WorkerInfo, error) {
			return nil, errors.New("some error")
		}
		req := httptest.NewRequest(http.MethodGet, assignment.PathEligibleWorkers+"?shiftId=1", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error", "message":"some error", "data":null}`))
	})

	t.Run("should be able to handle query request successfully", func(t *testing.T) {
		var q1 assignment.EligibleWorkersQuery
		assignment.QueryEligibleWorkersFunc = func(q *assignment.EligibleWorkersQuery, s *session.Session) ([]account.WorkerInfo, error) {
			q1 = *q
			return []account.WorkerInfo{{ID: 20, Name: "alice", Nickname: "ally", Email: "alice@example.com",
				Role: account.RoleStudent, PunctualityRating: 4.5}}, nil
		}
		req := httptest.NewRequest(http.MethodGet,
			assignment.PathEligibleWorkers+"?shiftId=1&punctualityOrder=desc&punctualityMin=3", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`[{"id": "20", "name": "alice", "nickname": "ally",
			"email": "alice@example.com", "role": "student", "punctualityRating": 4.5}]`))
		Expect(q1.ShiftID).To(Equal(types.ID(1)))
		Expect(q1.Punctuality).To(Equal(assignment.PunctualityFilter{Order: "desc", MinValue: 3}))
	})
}

func TestGetShiftAssignmentStatsAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	assignment.RegisterAssignmentsRestAPI(router)

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, assignment.PathShiftAssignmentStats, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message": "Key: 'StatsQuery.ProjectID' Error:Field validation for 'ProjectID' failed on the 'required' tag",
			"data":null}`))
	})

	t.Run("should be able to handle query request successfully", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 6, 7, 0, 0, 0, 0, time.Now().Location())
		timeBytes, err := demoTime.Time().MarshalJSON()
		Expect(err).To(BeNil())
		timeString := strings.Trim(string(timeBytes), `"`)

		assignment.GetShiftAssignmentStatsFunc = func(q *assignment.StatsQuery, s *session.Session) ([]assignment.AssignmentStats, error) {
			return []assignment.AssignmentStats{{Date: demoTime, TimeType: domain.TimeTypeDay, ShiftCount: 2,
				Coverage: domain.Coverage{Value: 3, Total: 3, Assigned: 3, Percentage: 100, IsOver: false}}}, nil
		}
		req := httptest.NewRequest(http.MethodGet, assignment.PathShiftAssignmentStats+"?projectId=100", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`[{"date": "` + timeString + `", "timeType": "day", "shiftCount": 2,
			"coverage": {"value": 3, "total": 3, "assigned": 3, "percentage": 100, "isOver": false}}]`))
	})
}
