package bizerror

import (
	"errors"
	"net/http"

	"shiftgate/common"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// staffing taxonomy
	ErrNotFound             = errors.New("record not found")
	ErrNoValidAssignment    = errors.New("no valid assignment for shift")
	ErrWorkerIneligible     = errors.New("worker ineligible for shift")
	ErrAlreadyAssigned      = errors.New("worker already assigned to shift")
	ErrAlreadyClockedIn     = errors.New("worker already clocked in for shift")
	ErrOutsideClockInWindow = errors.New("timestamp outside clock-in window")
	ErrConflict             = errors.New("storage conflict")
	ErrTransient            = errors.New("transient storage failure")
)

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *common.BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &common.BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}
