package object

import (
	"fmt"

	"fred/pkg/platform/sentinel"
)

// DoesNotExistError reports that no non-erased registry entry of Type matches
// the locator.
type DoesNotExistError struct {
	Type    Type
	Locator Locator
}

func (e *DoesNotExistError) Error() string {
	return fmt.Sprintf("%s does not exist (%s)", e.Type, e.Locator)
}

func (e *DoesNotExistError) Unwrap() error {
	return sentinel.ErrNotFound
}

// InvalidHistoryIntervalError reports a history window that does not resolve
// to an ordered pair of timestamps for an object of Type.
type InvalidHistoryIntervalError struct {
	Type   Type
	Reason string
}

func (e *InvalidHistoryIntervalError) Error() string {
	return fmt.Sprintf("invalid %s history interval: %s", e.Type, e.Reason)
}

func (e *InvalidHistoryIntervalError) Unwrap() error {
	return sentinel.ErrInvalidInterval
}
