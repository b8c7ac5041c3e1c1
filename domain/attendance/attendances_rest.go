package attendance

import (
	"net/http"

	"shiftgate/bizerror"
	"shiftgate/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathAttendanceVerifications = "/v1/attendance-verifications"
	PathAttendances             = "/v1/attendances"
	PathConfirmations           = "/v1/shift-assignment-confirmations"
)

func RegisterAttendancesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.Group(PathAttendanceVerifications, middleWares...).POST("", handleVerifyStudentShift)

	g := r.Group(PathAttendances, middleWares...)
	g.POST("", handleCreateAttendanceRecord)
	g.PATCH("/clock-out", handleCloseAttendanceRecord)

	r.Group(PathConfirmations, middleWares...).POST("", handleUpdateShiftAssignment)
}

func handleVerifyStudentShift(c *gin.Context) {
	req := VerificationRequest{}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := VerifyStudentShiftFunc(&req, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func handleCreateAttendanceRecord(c *gin.Context) {
	creation := AttendanceCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateAttendanceRecordFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCloseAttendanceRecord(c *gin.Context) {
	req := ClockOutRequest{}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CloseAttendanceRecordFunc(&req, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdateShiftAssignment(c *gin.Context) {
	req := ConfirmationRequest{}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateShiftAssignmentFunc(&req, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}
