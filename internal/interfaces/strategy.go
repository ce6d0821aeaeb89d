package interfaces

import "context"

// Strategy is one decision loop instance. Process refreshes candle caches and
// composes new trade signals; EvaluateQuotes runs the gating chain for
// pending signals against live quotes.
type Strategy interface {
	Name() string
	Stocks() []string
	Process(ctx context.Context) error
	EvaluateQuotes(ctx context.Context)
}
