// Package businessflow contains the daily batch jobs and the orchestrator that sequences them
package businessflow

import (
	"errors"
	"fmt"

	"github.com/mh853/Funnely-sub001/app/services"
)

// Business flow error constants
var (
	ErrDatabaseUnavailable        = errors.New("database unavailable")
	ErrDailyTasksAlreadyRunning   = errors.New("daily tasks are already running")
	ErrSheetSourceUnavailable     = errors.New("sheet source not configured")
	ErrEmailProviderNotConfigured = services.ErrEmailProviderNotConfigured
	ErrDecodeFailed               = errors.New("failed to decode stored payload")
	ErrCompanyHasNoRecipients     = errors.New("company has no notification recipients")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsDatabaseUnavailable(err error) bool {
	return errors.Is(err, ErrDatabaseUnavailable)
}

func IsDailyTasksAlreadyRunning(err error) bool {
	return errors.Is(err, ErrDailyTasksAlreadyRunning)
}

func IsSheetSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSheetSourceUnavailable)
}

func IsDecodeFailed(err error) bool {
	return errors.Is(err, ErrDecodeFailed)
}
