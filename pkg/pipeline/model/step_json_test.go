package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

func TestStepUnmarshalDropsTransientFields(t *testing.T) {
	t.Parallel()

	var step model.Step

	err := json.Unmarshal([]byte(`{
		"uuid": "a",
		"title": "A",
		"_drag_count": 3,
		"_dragged": true,
		"outgoing_connections": ["b"],
		"meta_data": {"position": [1, 2], "hidden": true},
		"extra_field": {"k": [1, 2]}
	}`), &step)
	require.NoError(t, err)

	assert.Equal(t, model.Step{
		UUID:     "a",
		Title:    "A",
		MetaData: model.MetaData{Position: model.Point{X: 1, Y: 2}, Hidden: true},
		Extra:    map[string][]byte{"extra_field": []byte(`{"k":[1,2]}`)},
	}, step)
}

func TestStepMarshal(t *testing.T) {
	t.Parallel()

	step := model.Step{
		UUID:                "a",
		Title:               "A",
		FilePath:            "a.ipynb",
		Parameters:          map[string]any{"x": 1},
		IncomingConnections: []string{"b"},
		MetaData:            model.MetaData{Position: model.Point{X: 3, Y: 4}},
		Extra: map[string][]byte{
			"_runtime":             []byte(`1`),
			"outgoing_connections": []byte(`["c"]`),
			"title":                []byte(`"shadowed"`),
			"kept":                 []byte(`"yes"`),
		},
		DragCount: 9,
	}

	out, err := json.Marshal(step)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"uuid": "a",
		"title": "A",
		"file_path": "a.ipynb",
		"parameters": {"x": 1},
		"incoming_connections": ["b"],
		"kernel": {"name": "", "display_name": ""},
		"environment": "",
		"meta_data": {"position": [3, 4], "hidden": false},
		"kept": "yes"
	}`, string(out))
}

func TestIsPersistedField(t *testing.T) {
	t.Parallel()

	assert.True(t, model.IsPersistedField("title"))
	assert.False(t, model.IsPersistedField("_drag_count"))
	assert.False(t, model.IsPersistedField("outgoing_connections"))
}

func TestStepClone(t *testing.T) {
	t.Parallel()

	step := model.Step{
		UUID:                "a",
		Parameters:          map[string]any{"nested": map[string]any{"list": []any{1.0}}},
		IncomingConnections: []string{"b"},
		Extra:               map[string][]byte{"k": []byte(`1`)},
	}

	clone := step.Clone()
	clone.Parameters["nested"].(map[string]any)["list"].([]any)[0] = 2.0
	clone.IncomingConnections[0] = "c"
	clone.Extra["k"][0] = '2'

	assert.Equal(t, 1.0, step.Parameters["nested"].(map[string]any)["list"].([]any)[0])
	assert.Equal(t, []string{"b"}, step.IncomingConnections)
	assert.Equal(t, []byte(`1`), step.Extra["k"])
}
