package assignment

import (
	"net/http"

	"shiftgate/bizerror"
	"shiftgate/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathShiftAssignments      = "/v1/shift-assignments"
	PathShiftAssignmentStats  = "/v1/shift-assignment-stats"
	PathSelectedDaysStats     = "/v1/selected-days-stats"
	PathEligibleWorkers       = "/v1/workers/eligible"
	PathShiftAssignmentExport = "/v1/shift-assignments/export"
)

func RegisterAssignmentsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathShiftAssignments, middleWares...)
	g.POST("", handleCreateShiftAssignment)
	g.DELETE("", handleCancelShiftAssignment)
	g.GET("/export", handleExportShiftAssignments)

	r.Group(PathShiftAssignmentStats, middleWares...).GET("", handleGetShiftAssignmentStats)
	r.Group(PathSelectedDaysStats, middleWares...).GET("", handleGetSelectedDaysStats)
	r.Group(PathEligibleWorkers, middleWares...).GET("", handleQueryEligibleWorkers)
}

func handleCreateShiftAssignment(c *gin.Context) {
	creation := AssignmentCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateShiftAssignmentFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCancelShiftAssignment(c *gin.Context) {
	cancellation := AssignmentCancellation{}
	if err := c.MustBindWith(&cancellation, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := CancelShiftAssignmentFunc(&cancellation, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleGetShiftAssignmentStats(c *gin.Context) {
	query := StatsQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	stats, err := GetShiftAssignmentStatsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, stats)
}

func handleGetSelectedDaysStats(c *gin.Context) {
	query := SelectedDaysQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	stats, err := GetSelectedDaysStatsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, stats)
}

func handleQueryEligibleWorkers(c *gin.Context) {
	query := EligibleWorkersQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	workers, err := QueryEligibleWorkersFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, workers)
}

func handleExportShiftAssignments(c *gin.Context) {
	query := StatsQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	file, err := ExportShiftAssignmentsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.Header("Content-Disposition", `attachment; filename="shift-assignments.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		panic(err)
	}
}
