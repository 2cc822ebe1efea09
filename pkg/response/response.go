package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error Codes
type ErrCode string

var (
	FAILED_REQUEST  ErrCode = "REQUEST_FAILED"
	BAD_REQUEST     ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND       ErrCode = "NOT_FOUND"
	LOCKED          ErrCode = "LOCKED"
	CONFLICT        ErrCode = "CONFLICT"
	INVALID_TIME    ErrCode = "OUTSIDE_OPERATING_HOURS"
	NOT_CONFIGURED  ErrCode = "NOT_CONFIGURED"
	INVALID_STATUS  ErrCode = "INVALID_STATUS_TRANSITION"
	VALIDATION_FAIL ErrCode = "VALIDATION_FAILED"
)

var (
	ErrBadRequest            = errors.New("bad request")
	ErrNotFound              = errors.New("resource not found")
	ErrLocked                = errors.New("resource is locked")
	ErrConflict              = errors.New("time slot already occupied")
	ErrOutsideOperatingHours = errors.New("time is outside operating hours")
	ErrNoPricingRule         = errors.New("no pricing rule configured")
	ErrInvalidDuration       = errors.New("invalid booking duration")
	ErrInvalidTransition     = errors.New("invalid status transition")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsg []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is required", err.Field()))
		case "min":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is below the minimum of %s", err.Field(), err.Param()))
		case "max":
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is above the maximum of %s", err.Field(), err.Param()))
		default:
			errMsg = append(errMsg, fmt.Sprintf("Field '%s' is invalid", err.Field()))
		}
	}

	return Response{
		ResponseError: ResponseError{
			Code:    string(VALIDATION_FAIL),
			Message: strings.Join(errMsg, ", "),
		},
	}
}
