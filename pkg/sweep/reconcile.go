package sweep

import (
	"encoding/json"
	"sort"
)

// NestedParameters is the persisted shape of a run: parameters grouped by
// strategy key.
type NestedParameters map[string]map[string]any

// Nest converts a run to its persisted shape.
func Nest(run Parameterization) NestedParameters {
	out := make(NestedParameters)

	for key, value := range run {
		strategyKey, name, ok := SplitFlatKey(key)
		if !ok {
			continue
		}

		if out[strategyKey] == nil {
			out[strategyKey] = make(map[string]any)
		}

		out[strategyKey][name] = value
	}

	return out
}

// Select returns the persisted shape of the runs at the given indices.
// Indices out of range are ignored.
func Select(runs []Parameterization, indices []int) []NestedParameters {
	out := make([]NestedParameters, 0, len(indices))

	for _, idx := range indices {
		if idx < 0 || idx >= len(runs) {
			continue
		}

		out = append(out, Nest(runs[idx]))
	}

	return out
}

// Reconcile finds the previously selected runs in a new expansion and returns
// their indices in ascending order. Runs are compared by JSON equality of the
// persisted shape. Each stored selection consumes the first remaining
// candidate it matches, so duplicated selections map to distinct runs. A
// stored selection without a match is dropped.
func Reconcile(runs []Parameterization, stored []NestedParameters) []int {
	type candidate struct {
		index     int
		canonical string
	}

	remaining := make([]candidate, 0, len(runs))

	for i, run := range runs {
		canonical, err := canonicalJSON(Nest(run))
		if err != nil {
			continue
		}

		remaining = append(remaining, candidate{index: i, canonical: canonical})
	}

	selected := make([]int, 0, len(stored))

	for _, selection := range stored {
		canonical, err := canonicalJSON(selection)
		if err != nil {
			continue
		}

		for i, c := range remaining {
			if c.canonical != canonical {
				continue
			}

			selected = append(selected, c.index)
			remaining = append(remaining[:i], remaining[i+1:]...)

			break
		}
	}

	sort.Ints(selected)

	return selected
}

// canonicalJSON relies on encoding/json writing map keys sorted.
func canonicalJSON(value NestedParameters) (string, error) {
	if len(value) == 0 {
		return "{}", nil
	}

	out, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
