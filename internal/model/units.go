package model

import "fmt"

// ResolveFraction picks a fraction-valued field from whichever of its two
// spellings the caller supplied. fraction is used as-is and percent is
// divided by 100. Supplying both is ambiguous and rejected; supplying
// neither returns def.
func ResolveFraction(field string, fraction, percent *float64, def float64) (float64, error) {
	switch {
	case fraction != nil && percent != nil:
		return 0, fmt.Errorf("%w: set either %s or %s_percent, not both", ErrValidation, field, field)
	case percent != nil:
		return Percent(*percent), nil
	case fraction != nil:
		return *fraction, nil
	default:
		return def, nil
	}
}
