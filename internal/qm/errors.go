package qm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidTermValue  = errors.New("term value out of range")
	ErrInvalidWidth      = errors.New("invalid bit width")
	ErrWidthMismatch     = errors.New("implicant width mismatch")
	ErrIncompatibleMerge = errors.New("implicants cannot be merged")
	ErrUncoverableTerm   = errors.New("term is not covered by any prime implicant")
	ErrResourceExhausted = errors.New("petrick expansion exceeded its cap")
)

// ResourceExhaustedError reports a Petrick expansion that grew past the
// configured number of surviving products.
type ResourceExhaustedError struct {
	Cap        int
	Remaining  int
	Candidates int
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("%s: %d candidate products exceed cap %d (%d terms left uncovered by essentials)",
		ErrResourceExhausted, e.Candidates, e.Cap, e.Remaining)
}

func (e *ResourceExhaustedError) Is(target error) bool {
	return target == ErrResourceExhausted
}
