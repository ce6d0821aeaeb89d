package history

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBrokerSelected means no data source is authenticated.
	ErrNoBrokerSelected = errors.New("no broker selected for history APIs")
	// ErrUnsupportedBroker means the configuration references an unknown
	// provider id.
	ErrUnsupportedBroker = errors.New("broker not supported for history APIs")
)

// ProviderError wraps a transport or auth failure from one data source.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError checks whether err is a ProviderError anywhere in its chain.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
