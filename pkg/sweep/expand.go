package sweep

import (
	"strings"

	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

const keySeparator = "#"

// FlatKey joins a strategy key and a parameter name.
func FlatKey(strategyKey, name string) string {
	return strategyKey + keySeparator + name
}

// SplitFlatKey splits a flat key on its first separator. The parameter name
// may itself contain the separator.
func SplitFlatKey(key string) (strategyKey, name string, ok bool) {
	return strings.Cut(key, keySeparator)
}

// Flat is a strategy reduced to one namespace. Keys keep flattening order.
type Flat struct {
	keys   []string
	values map[string][]any
}

// Keys returns the flat keys in flattening order.
func (f Flat) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Values returns the candidates of a flat key.
func (f Flat) Values(key string) []any {
	return f.values[key]
}

// Len returns the number of flat keys.
func (f Flat) Len() int {
	return len(f.keys)
}

// Count returns the number of runs Expand generates.
func (f Flat) Count() int {
	count := 1
	for _, key := range f.keys {
		count *= len(f.values[key])
	}

	return count
}

func (f *Flat) add(key string, values []any) {
	if f.values == nil {
		f.values = make(map[string][]any)
	}

	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}

	f.values[key] = values
}

// Flatten parses every parameter of the strategy. Parameters that are not a
// JSON array are left out and reported together in an
// *InvalidParametersError; the returned Flat holds the valid ones.
func Flatten(strategy Strategy) (Flat, error) {
	var (
		flat    Flat
		invalid []InvalidParameter
	)

	for _, entry := range strategy {
		for _, param := range entry.Parameters {
			values, err := parseLiteral(param.Value)
			if err != nil {
				invalid = append(invalid, InvalidParameter{
					StrategyKey: entry.Key,
					Name:        param.Name,
					Value:       param.Value,
					Err:         err,
				})

				continue
			}

			flat.add(FlatKey(entry.Key, param.Name), values)
		}
	}

	if len(invalid) > 0 {
		return flat, &InvalidParametersError{Parameters: invalid}
	}

	return flat, nil
}

// Parameterization is one run: a value for every flat key.
type Parameterization map[string]any

func (p Parameterization) with(key string, value any) Parameterization {
	out := make(Parameterization, len(p)+1)
	for k, v := range p {
		out[k] = v
	}

	out[key] = model.CloneValue(value)

	return out
}

// Expand returns the cartesian product of the flat candidates. The first key
// varies slowest and the values of a key are taken in array order. An empty
// Flat yields a single empty run.
func Expand(flat Flat) []Parameterization {
	runs := make([]Parameterization, 0, flat.Count())

	expand(flat, Parameterization{}, map[string]struct{}{}, &runs)

	return runs
}

func expand(flat Flat, partial Parameterization, unpacked map[string]struct{}, runs *[]Parameterization) {
	for _, key := range flat.keys {
		if _, ok := unpacked[key]; ok {
			continue
		}

		next := make(map[string]struct{}, len(unpacked)+1)
		for k := range unpacked {
			next[k] = struct{}{}
		}

		next[key] = struct{}{}

		for _, value := range flat.values[key] {
			expand(flat, partial.with(key, value), next, runs)
		}

		return
	}

	*runs = append(*runs, partial)
}

// Generate flattens and expands a strategy. Invalid parameters are reported
// and left out; the runs of the valid ones are still returned.
func Generate(strategy Strategy) ([]Parameterization, error) {
	flat, err := Flatten(strategy)

	return Expand(flat), err
}
