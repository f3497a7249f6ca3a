package borrows

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
	// 業務エラー（延長の前提条件違反）
	CodeAlreadyExtended    Code = "ALREADY_EXTENDED"
	CodeReturnDateOutdated Code = "RETURN_DATE_OUTDATED"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

// 延長は1貸出につき1回だけ
func ErrAlreadyExtended() *APIError {
	return &APIError{Code: CodeAlreadyExtended, Message: "loan has already been extended"}
}

// 返却期限を過ぎた貸出は延長不可
func ErrReturnDateOutdated() *APIError {
	return &APIError{Code: CodeReturnDateOutdated, Message: "cannot extend a loan whose return date has passed"}
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict, CodeAlreadyExtended:
			return 409
		case CodeReturnDateOutdated:
			return 422
		default:
			return 500
		}
	}
	return 500
}
