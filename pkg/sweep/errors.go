package sweep

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidJSONParameter = errors.New("parameter is not a valid JSON array")
	ErrNotMapping           = errors.New("strategy must be a mapping")
)

// InvalidParameter identifies a parameter excluded from the expansion.
type InvalidParameter struct {
	StrategyKey string
	Name        string
	Value       string
	Err         error
}

// InvalidParametersError reports every invalid parameter of a strategy.
type InvalidParametersError struct {
	Parameters []InvalidParameter
}

func (e *InvalidParametersError) Error() string {
	msgs := make([]string, 0, len(e.Parameters))
	for _, param := range e.Parameters {
		msgs = append(msgs, fmt.Sprintf("%s: %v", FlatKey(param.StrategyKey, param.Name), param.Err))
	}

	return ErrInvalidJSONParameter.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *InvalidParametersError) Unwrap() error { return ErrInvalidJSONParameter }

// Has reports whether the given parameter is invalid.
func (e *InvalidParametersError) Has(strategyKey, name string) bool {
	for _, param := range e.Parameters {
		if param.StrategyKey == strategyKey && param.Name == name {
			return true
		}
	}

	return false
}
