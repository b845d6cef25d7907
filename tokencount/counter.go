package tokencount

import (
	"fmt"
	"sync"
)

// Counter is the unified token counting interface.
type Counter interface {
	// CountTokens returns the number of tokens in the given text.
	CountTokens(text string) (int, error)

	// Encode converts text to a list of token IDs.
	Encode(text string) ([]int, error)

	// Name returns the counter's name.
	Name() string
}

// Global counter registry.
var (
	modelCounters   = make(map[string]Counter)
	modelCountersMu sync.RWMutex
)

// RegisterCounter registers a counter for the given model name.
func RegisterCounter(model string, c Counter) {
	modelCountersMu.Lock()
	defer modelCountersMu.Unlock()
	modelCounters[model] = c
}

// GetCounter returns the counter registered for the given model. It also
// tries prefix matching (e.g. "gpt-4o" matches "gpt-4o-mini").
func GetCounter(model string) (Counter, error) {
	modelCountersMu.RLock()
	defer modelCountersMu.RUnlock()

	if c, ok := modelCounters[model]; ok {
		return c, nil
	}

	for prefix, c := range modelCounters {
		if len(model) >= len(prefix) && model[:len(prefix)] == prefix {
			return c, nil
		}
	}

	return nil, fmt.Errorf("no counter registered for model: %s", model)
}

// GetCounterOrEstimator returns the registered counter for the model,
// falling back to the generic estimator when none is registered.
func GetCounterOrEstimator(model string) Counter {
	c, err := GetCounter(model)
	if err != nil {
		return NewEstimator()
	}
	return c
}
