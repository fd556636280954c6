package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNumericInput marks a cost, quantity or price that is not a finite number.
	ErrInvalidNumericInput = errors.New("invalid numeric input")
	// ErrUnsupportedPromoType is matched by every UnsupportedPromoTypeError.
	ErrUnsupportedPromoType = errors.New("unsupported promo type")
)

// UnsupportedPromoTypeError carries the promo type that the evaluator does not know.
type UnsupportedPromoTypeError struct {
	Type PromoType
}

func (e *UnsupportedPromoTypeError) Error() string {
	return fmt.Sprintf("unsupported promo type %q", string(e.Type))
}

func (e *UnsupportedPromoTypeError) Is(target error) bool {
	return target == ErrUnsupportedPromoType
}
