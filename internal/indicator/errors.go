package indicator

import "fmt"

// InsufficientDataError means the candle window is too short for the
// requested computation. Strategy cycles log it and skip the symbol.
type InsufficientDataError struct {
	Indicator string
	Required  int
	Actual    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need %d candles, have %d", e.Indicator, e.Required, e.Actual)
}

func insufficientData(indicator string, required, actual int) error {
	return &InsufficientDataError{Indicator: indicator, Required: required, Actual: actual}
}
