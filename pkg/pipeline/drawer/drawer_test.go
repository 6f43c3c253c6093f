package drawer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/pipeline-editor/pkg/pipeline"
	"github.com/askiada/pipeline-editor/pkg/pipeline/drawer"
	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

func newPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()

	pipe := pipeline.New("p", "demo")

	for _, step := range []model.Step{
		{UUID: "c", Title: "Train", FilePath: "train.ipynb", MetaData: model.MetaData{Position: model.Point{X: 400}}},
		{UUID: "a", Title: `Load "raw"`},
		{UUID: "b", Title: "Clean", MetaData: model.MetaData{Position: model.Point{X: 200, Y: 10}, Hidden: true}},
	} {
		_, err := pipe.AddStep(step)
		require.NoError(t, err)
	}

	for _, conn := range [][2]string{{"b", "c"}, {"a", "c"}, {"a", "b"}} {
		_, err := pipe.AddConnection(conn[0], conn[1])
		require.NoError(t, err)
	}

	return pipe
}

func TestRender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, drawer.Render(&buf, newPipeline(t)))

	want := strings.Join([]string{
		`strict digraph {`,
		`	label="demo";`,
		`	"a" [ label="Load \"raw\"", pos="0,0!", shape="box", weight=0 ];`,
		`	"b" [ label="Clean", pos="200,10!", shape="box", style="dashed", weight=0 ];`,
		`	"c" [ label=<Train <BR /> <FONT POINT-SIZE="10">train.ipynb</FONT>>, pos="400,0!", shape="box", weight=0 ];`,
		`	"a" -> "c" [ weight=0 ];`,
		`	"a" -> "b" [ weight=0 ];`,
		`	"b" -> "c" [ weight=0 ];`,
		`}`,
		``,
	}, "\n")

	assert.Equal(t, want, buf.String())
}

func TestRenderSelected(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := drawer.Render(&buf, newPipeline(t),
		drawer.Selected("a"),
		drawer.WithHighlight(255, 0, 0),
		drawer.GraphAttribute("rankdir", "LR"),
	)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `	"a" [ fillcolor="#ff0000", label="Load \"raw\"", pos="0,0!", shape="box", style="filled", weight=0 ];`)
	assert.Contains(t, buf.String(), `	rankdir="LR";`)
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.ErrorIs(t, drawer.Render(&buf, nil), pipeline.ErrPipelineMustBeSet)
	require.Error(t, drawer.Render(&buf, newPipeline(t), drawer.Selected("missing")))
}
