package shift

import (
	"net/http"

	"shiftgate/bizerror"
	"shiftgate/domain"
	"shiftgate/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathShifts = "/v1/shifts"
)

func RegisterShiftsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathShifts, middleWares...)
	g.POST("", handleCreateShift)
	g.GET("", handleGetProjectShifts)
}

func handleCreateShift(c *gin.Context) {
	creation := ShiftCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateShiftFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleGetProjectShifts(c *gin.Context) {
	query := domain.ShiftQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := GetProjectShiftsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}
