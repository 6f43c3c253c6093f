package codec_test

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/pipeline-editor/pkg/pipeline"
	"github.com/askiada/pipeline-editor/pkg/pipeline/codec"
	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

const definition = `{
	"name": "training",
	"uuid": "pipe-1",
	"version": "1.0.0",
	"settings": {"auto_eviction": false},
	"parameters": {"epochs": 10},
	"steps": {
		"load": {
			"uuid": "load",
			"title": "Load data",
			"file_path": "load.ipynb",
			"parameters": {"source": "s3://bucket"},
			"incoming_connections": [],
			"kernel": {"name": "python", "display_name": "Python 3"},
			"environment": "env-1",
			"meta_data": {"position": [10, 20], "hidden": false},
			"_drag_count": 4,
			"outgoing_connections": ["train"]
		},
		"clean": {
			"uuid": "clean",
			"title": "Clean",
			"file_path": "clean.py",
			"parameters": {},
			"incoming_connections": ["load"],
			"meta_data": {"position": [200, 20]},
			"custom": {"colour": "red"}
		},
		"train": {
			"uuid": "train",
			"title": "Train",
			"file_path": "train.ipynb",
			"parameters": {"lr": [0.1, 0.01]},
			"incoming_connections": ["clean", "load"],
			"meta_data": {"position": [400, 20]}
		}
	}
}`

func TestDecode(t *testing.T) {
	t.Parallel()

	pipe, err := codec.Decode([]byte(definition))
	require.NoError(t, err)

	assert.Equal(t, "pipe-1", pipe.UUID())
	assert.Equal(t, "training", pipe.Name())
	assert.Equal(t, map[string]any{"epochs": 10.0}, pipe.Parameters())
	assert.Equal(t, []string{"load", "clean", "train"}, pipe.StepUUIDs())
	assert.Equal(t, []model.Connection{
		{Source: "load", Target: "clean"},
		{Source: "clean", Target: "train"},
		{Source: "load", Target: "train"},
	}, pipe.Connections())

	load, ok := pipe.Step("load")
	require.True(t, ok)
	assert.Equal(t, 0, load.DragCount)
	assert.Nil(t, load.Extra)
	assert.Equal(t, model.Point{X: 10, Y: 20}, load.Position())
	assert.Equal(t, model.Kernel{Name: "python", DisplayName: "Python 3"}, load.Kernel)

	clean, _ := pipe.Step("clean")
	assert.Equal(t, map[string][]byte{"custom": []byte(`{"colour":"red"}`)}, clean.Extra)

	assert.Equal(t, map[string][]byte{
		"version":  []byte(`"1.0.0"`),
		"settings": []byte(`{"auto_eviction":false}`),
	}, pipe.Attributes())
}

func TestEncodeStripsTransientFields(t *testing.T) {
	t.Parallel()

	pipe, err := codec.Decode([]byte(definition))
	require.NoError(t, err)

	_, err = pipe.UpdateStep("load", func(step *model.Step) {
		step.Extra = map[string][]byte{"_selected": []byte(`true`)}
	})
	require.NoError(t, err)

	out, err := codec.Encode(pipe)
	require.NoError(t, err)

	var doc struct {
		Steps map[string]map[string]json.RawMessage `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	for uuid, fields := range doc.Steps {
		for name := range fields {
			assert.NotEqual(t, "outgoing_connections", name, uuid)
			assert.NotEqual(t, byte('_'), name[0], uuid)
		}
	}

	assert.Contains(t, string(out), `"custom":{"colour":"red"}`)
	assert.Contains(t, string(out), `"settings":{"auto_eviction":false}`)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	pipe := pipeline.New("pipe-2", "round trip", pipeline.WithParameters(map[string]any{
		"nested": map[string]any{"list": []any{1.0, "two", true, nil}},
	}))

	for _, step := range []model.Step{
		{
			UUID:       "a",
			Title:      "A",
			FilePath:   "a.ipynb",
			Parameters: map[string]any{"x": []any{1.0, 2.0}},
			Kernel:     model.Kernel{Name: "ir", DisplayName: "R"},
			MetaData:   model.MetaData{Position: model.Point{X: 1.5, Y: -3}, Hidden: true},
			Extra:      map[string][]byte{"custom": []byte(`[1,2]`)},
		},
		{UUID: "b", Title: "B", FilePath: "b.sh"},
		{UUID: "c", Title: "C", FilePath: "c.ipynb"},
	} {
		_, err := pipe.AddStep(step)
		require.NoError(t, err)
	}

	for _, conn := range []model.Connection{{Source: "a", Target: "c"}, {Source: "b", Target: "c"}, {Source: "a", Target: "b"}} {
		_, err := pipe.AddConnection(conn.Source, conn.Target)
		require.NoError(t, err)
	}

	_, err := pipe.MoveStep("b", model.Point{X: 7, Y: 8})
	require.NoError(t, err)

	out, err := codec.Encode(pipe)
	require.NoError(t, err)

	decoded, err := codec.Decode(out)
	require.NoError(t, err)

	assert.Equal(t, pipe.UUID(), decoded.UUID())
	assert.Equal(t, pipe.Name(), decoded.Name())
	assert.Equal(t, pipe.Parameters(), decoded.Parameters())
	assert.Equal(t, pipe.Connections(), decoded.Connections())
	assert.Equal(t, withoutTransient(pipe.Steps()), decoded.Steps())

	again, err := codec.Encode(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(out), string(again))
}

func withoutTransient(steps []model.Step) []model.Step {
	for i := range steps {
		steps[i].DragCount = 0
	}

	return steps
}

func TestDecodeIsIdempotent(t *testing.T) {
	t.Parallel()

	first, err := codec.Decode([]byte(definition))
	require.NoError(t, err)

	second, err := codec.Decode([]byte(definition))
	require.NoError(t, err)

	assert.Equal(t, first.Steps(), second.Steps())
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		data string
		want error
	}{
		"missing uuid": {
			data: `{"name": "x", "steps": {}}`,
			want: codec.ErrInvalidDocument,
		},
		"missing step uuid": {
			data: `{"uuid": "p", "steps": {"a": {"title": "A"}}}`,
			want: codec.ErrInvalidDocument,
		},
		"key mismatch": {
			data: `{"uuid": "p", "steps": {"a": {"uuid": "b"}}}`,
			want: codec.ErrInvalidDocument,
		},
		"unknown connection": {
			data: `{"uuid": "p", "steps": {"a": {"uuid": "a", "incoming_connections": ["ghost"]}}}`,
			want: codec.ErrUnknownConnection,
		},
		"cycle": {
			data: `{"uuid": "p", "steps": {
				"a": {"uuid": "a", "incoming_connections": ["b"]},
				"b": {"uuid": "b", "incoming_connections": ["a"]}
			}}`,
			want: pipeline.ErrCycleInducing,
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := codec.Decode([]byte(tc.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), err.Error())
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	_, err := codec.Decode([]byte(`{"uuid": `))
	require.Error(t, err)
}

func TestEncodeNilPipeline(t *testing.T) {
	t.Parallel()

	_, err := codec.Encode(nil)
	require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}
