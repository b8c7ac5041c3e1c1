package availability

import (
	"net/http"

	"shiftgate/bizerror"
	"shiftgate/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathAvailabilities = "/v1/availabilities"
	PathAvailableDates = "/v1/available-dates"
)

func RegisterAvailabilitiesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathAvailabilities, middleWares...)
	g.GET("", handleGetUserAvailabilities)
	g.PUT("", handleSetUserAvailabilities)

	d := r.Group(PathAvailableDates, middleWares...)
	d.GET("", handleGetUserAvailableDates)
}

func handleGetUserAvailabilities(c *gin.Context) {
	query := AvailabilityQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := GetUserAvailabilitiesFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleSetUserAvailabilities(c *gin.Context) {
	updating := AvailabilityUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := SetUserAvailabilitiesFunc(&updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}

func handleGetUserAvailableDates(c *gin.Context) {
	query := AvailableDatesQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	records, err := GetUserAvailableDatesFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, records)
}
