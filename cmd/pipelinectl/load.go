package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/askiada/pipeline-editor/pkg/sweep"
)

// readFiles reads files concurrently and returns their content in argument
// order.
func readFiles(ctx context.Context, paths ...string) ([][]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	files := make([][]byte, len(paths))

	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		i, path := i, path

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, "context canceled")
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "unable to read %s", path)
			}

			files[i] = data

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	return files, nil
}

// decodeStrategy reads a YAML strategy when the file has a .yaml or .yml
// extension and a JSON one otherwise.
func decodeStrategy(path string, data []byte) (sweep.Strategy, error) {
	var strategy sweep.Strategy

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err := yaml.Unmarshal(data, &strategy)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to decode strategy %s", path)
		}
	default:
		err := json.Unmarshal(data, &strategy)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to decode strategy %s", path)
		}
	}

	return strategy, nil
}
