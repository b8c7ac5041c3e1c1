package bizerror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"shiftgate/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

func ErrorHandling() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handle(c)
		c.Next()
	}
}

func handle(c *gin.Context) {
	if ret := recover(); ret != nil {
		err, ok := ret.(error)
		if !ok {
			err = errors.New(fmt.Sprintf("%s", ret))
		}
		HandleError(c, err)
	} else {
		if err := c.Errors.Last(); err != nil {
			HandleError(c, err)
		}
	}
}

func HandleError(c *gin.Context, err error) {
	logrus.Error(err)

	genericErr := err
	var ginErr *gin.Error
	if errors.As(err, &ginErr) {
		genericErr = ginErr.Err
	}

	if bizErr, ok := genericErr.(common.BizError); ok {
		respond := bizErr.Respond()
		c.JSON(respond.Status, &common.ErrorBody{Code: respond.Code, Message: respond.Message, Data: respond.Data})
		c.Abort()
		return
	}

	// bad request:  io.EOF (no body).
	if errors.Is(genericErr, io.EOF) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.body_not_found", Message: "body not found"})
		c.Abort()
		return
	}
	// bad request: json syntax Error
	if syntaxErr, ok := genericErr.(*json.SyntaxError); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.invalid_body_format", Message: "invalid body format", Data: syntaxErr.Error()})
		c.Abort()
		return
	}
	// validation failed
	if validationErr, ok := genericErr.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "bad_request.validation_failed", Message: "validation failed", Data: validationErr.Error()})
		c.Abort()
		return
	}

	if errors.Is(genericErr, ErrUnauthenticated) {
		c.JSON(http.StatusUnauthorized, &common.ErrorBody{Code: "common.unauthenticated", Message: "unauthenticated"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrForbidden) {
		c.JSON(http.StatusForbidden, &common.ErrorBody{Code: "security.forbidden", Message: "access forbidden"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrWorkerIneligible) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "assignment.worker_ineligible", Message: "worker is not available for this shift"})
		c.Abort()
		return
	}
	// a lost race on the storage unique index responds exactly as a pre-check miss
	if errors.Is(genericErr, ErrAlreadyAssigned) || errors.Is(genericErr, ErrConflict) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "assignment.already_assigned", Message: "worker already holds an active assignment for this shift"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrNoValidAssignment) {
		c.JSON(http.StatusNotFound, &common.ErrorBody{Code: "attendance.no_valid_assignment", Message: "no active assignment for this shift"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrAlreadyClockedIn) {
		c.JSON(http.StatusConflict, &common.ErrorBody{Code: "attendance.already_clocked_in", Message: "worker is already clocked in for this shift"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrOutsideClockInWindow) {
		c.JSON(http.StatusBadRequest, &common.ErrorBody{Code: "attendance.outside_clock_in_window", Message: "clock-in outside the allowed window"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, ErrTransient) || errors.Is(genericErr, context.DeadlineExceeded) {
		c.JSON(http.StatusServiceUnavailable, &common.ErrorBody{Code: "common.transient_failure", Message: "temporary failure, retry later"})
		c.Abort()
		return
	}
	if errors.Is(genericErr, gorm.ErrRecordNotFound) || errors.Is(genericErr, ErrNotFound) {
		c.JSON(http.StatusNotFound, &common.ErrorBody{Code: "common.record_not_found", Message: "record not found"})
		c.Abort()
		return
	}

	c.JSON(http.StatusInternalServerError, &common.ErrorBody{Code: "common.internal_server_error", Message: err.Error()})
	c.Abort()
}
