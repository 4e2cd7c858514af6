package bonus

import (
	"errors"
	"fmt"

	"github.com/warp/bonus-engine/generic"
)

var (
	// ErrEmployeeNotFound is fatal to a single computation, never to a batch.
	ErrEmployeeNotFound = fmt.Errorf("employee: %w", generic.ErrEntityNotFound)

	// ErrInvalidYear is returned for years the engine cannot evaluate.
	ErrInvalidYear = fmt.Errorf("year: %w", generic.ErrInvalidInput)
)

// EmployeeNotFoundError names the employee and year that could not be computed.
type EmployeeNotFoundError struct {
	EmployeeID EmployeeID
	Year       int
}

func (e *EmployeeNotFoundError) Error() string {
	return fmt.Sprintf("employee %s not found (year %d)", e.EmployeeID, e.Year)
}

func (e *EmployeeNotFoundError) Unwrap() error {
	return ErrEmployeeNotFound
}

// IsEmployeeNotFound reports whether err means the employee record was absent.
func IsEmployeeNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}

// MinYear and MaxYear bound the years a computation accepts.
const (
	MinYear = 1900
	MaxYear = 9999
)

func validateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}
