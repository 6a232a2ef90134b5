package ora

import (
	"fmt"

	"github.com/sqlsqrt/sqlsqrt/driver"
)

// Error is the single error kind surfaced by the binding layer. Info is nil
// when the failure was detected locally (a precondition such as a value size
// limit) rather than reported by the native driver.
type Error struct {
	// Context describes the operation that failed.
	Context string

	// Info is the native error record, when the driver produced one.
	Info *driver.ErrorInfo
}

func (e *Error) Error() string {
	if e.Info == nil {
		return e.Context
	}
	return fmt.Sprintf("%s: %s", e.Context, e.Info.Message)
}

// newError wraps a native error record with an operation context.
func newError(info driver.ErrorInfo, context string) *Error {
	return &Error{Context: context, Info: &info}
}

// newContextError builds a locally detected failure carrying only a
// description. No native error record is fabricated.
func newContextError(context string) *Error {
	return &Error{Context: context}
}

// checkInfo translates a status code using a call-local error record, for
// the one call that runs before any context exists.
func checkInfo(st driver.Status, info driver.ErrorInfo, context string) error {
	if st == driver.StatusOK {
		return nil
	}
	return newError(info, context)
}

// checkThat raises a context-only error when a locally checked precondition
// does not hold.
func checkThat(ok bool, context string) error {
	if ok {
		return nil
	}
	return newContextError(context)
}
