package codec

import (
	"path"
	"strings"

	"github.com/askiada/pipeline-editor/pkg/pipeline"
)

const notebookExtension = ".ipynb"

// Validate checks the rules a pipeline must satisfy before it is saved. Two
// steps must not use the same notebook: every offending pair is reported, in
// step insertion order.
func Validate(pipe *pipeline.Pipeline) error {
	if pipe == nil {
		return pipeline.ErrPipelineMustBeSet
	}

	seen := make(map[string][]string)

	var pairs []NotebookPair

	for _, step := range pipe.Steps() {
		if !strings.HasSuffix(strings.ToLower(step.FilePath), notebookExtension) {
			continue
		}

		file := path.Clean(step.FilePath)
		for _, other := range seen[file] {
			pairs = append(pairs, NotebookPair{First: other, Second: step.UUID, FilePath: file})
		}

		seen[file] = append(seen[file], step.UUID)
	}

	if len(pairs) > 0 {
		return &SharedNotebookError{Pairs: pairs}
	}

	return nil
}
