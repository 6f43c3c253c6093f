package codec_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/pipeline-editor/pkg/pipeline"
	"github.com/askiada/pipeline-editor/pkg/pipeline/codec"
	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

func pipelineWithFiles(t *testing.T, files map[string]string, order ...string) *pipeline.Pipeline {
	t.Helper()

	pipe := pipeline.New("p", "files")
	for _, uuid := range order {
		_, err := pipe.AddStep(model.Step{UUID: uuid, FilePath: files[uuid]})
		require.NoError(t, err)
	}

	return pipe
}

func TestValidate(t *testing.T) {
	t.Parallel()

	pipe := pipelineWithFiles(t, map[string]string{
		"a": "a.ipynb",
		"b": "b.ipynb",
		"c": "run.sh",
		"d": "run.sh",
	}, "a", "b", "c", "d")

	require.NoError(t, codec.Validate(pipe))
}

func TestValidateReportsEveryPair(t *testing.T) {
	t.Parallel()

	pipe := pipelineWithFiles(t, map[string]string{
		"a": "shared.ipynb",
		"b": "other.ipynb",
		"c": "./shared.ipynb",
		"d": "shared.ipynb",
		"e": "other.ipynb",
	}, "a", "b", "c", "d", "e")

	err := codec.Validate(pipe)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrSharedNotebookFile))

	var shared *codec.SharedNotebookError
	require.True(t, errors.As(err, &shared))
	assert.Equal(t, []codec.NotebookPair{
		{First: "a", Second: "c", FilePath: "shared.ipynb"},
		{First: "a", Second: "d", FilePath: "shared.ipynb"},
		{First: "c", Second: "d", FilePath: "shared.ipynb"},
		{First: "b", Second: "e", FilePath: "other.ipynb"},
	}, shared.Pairs)
	assert.Contains(t, err.Error(), "a and c (shared.ipynb)")
}

func TestEncodeForSaveRejectsSharedNotebook(t *testing.T) {
	t.Parallel()

	pipe := pipelineWithFiles(t, map[string]string{"a": "x.ipynb", "b": "x.ipynb"}, "a", "b")

	out, err := codec.EncodeForSave(pipe)
	require.ErrorIs(t, err, codec.ErrSharedNotebookFile)
	assert.Nil(t, out)

	_, err = pipe.UpdateStep("b", func(step *model.Step) { step.FilePath = "y.ipynb" })
	require.NoError(t, err)

	out, err = codec.EncodeForSave(pipe)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
