package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/pipeline-editor/pkg/pipeline"
	"github.com/askiada/pipeline-editor/pkg/pipeline/codec"
	"github.com/askiada/pipeline-editor/pkg/pipeline/drawer"
	"github.com/askiada/pipeline-editor/pkg/sweep"
)

var errInvalidFiles = errors.New("invalid files")

type app struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	rootCmd := &cobra.Command{
		Use:          "pipelinectl",
		Short:        "Inspect pipeline definitions and parameter sweep strategies",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}

			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logs")

	rootCmd.AddCommand(
		a.validateCmd(),
		a.strategyCmd(),
		a.expandCmd(),
		a.reconcileCmd(),
		a.drawCmd(),
	)

	return rootCmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [pipeline.json...]",
		Short: "Check that pipeline definitions can be loaded and saved",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(cmd.Context(), args...)
			if err != nil {
				return err
			}

			failed := 0

			for i, data := range files {
				order, err := a.validate(data)
				if err != nil {
					failed++

					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", args[i], err)

					continue
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", args[i], strings.Join(order, " -> "))
			}

			if failed > 0 {
				return errors.Wrapf(errInvalidFiles, "%d of %d", failed, len(files))
			}

			return nil
		},
	}
}

func (a *app) validate(data []byte) ([]string, error) {
	pipe, err := codec.Decode(data, pipeline.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	err = codec.Validate(pipe)
	if err != nil {
		return nil, err
	}

	return pipe.TopologicalOrder()
}

func (a *app) strategyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategy [pipeline.json]",
		Short: "Print the default strategy of a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := a.loadPipeline(cmd, args[0])
			if err != nil {
				return err
			}

			strategy, err := sweep.DefaultStrategy(pipe)
			if err != nil {
				return errors.Wrap(err, "unable to build default strategy")
			}

			out, err := json.MarshalIndent(strategy, "", "  ")
			if err != nil {
				return errors.Wrap(err, "unable to encode strategy")
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
}

func (a *app) expandCmd() *cobra.Command {
	countOnly := false

	cmd := &cobra.Command{
		Use:   "expand [strategy.json|strategy.yaml]",
		Short: "Print the runs of a strategy, one JSON document per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			runs, err := a.generate(args[0], files[0])
			if err != nil {
				return err
			}

			if countOnly {
				fmt.Fprintln(cmd.OutOrStdout(), len(runs))

				return nil
			}

			for _, run := range runs {
				out, err := json.Marshal(sweep.Nest(run))
				if err != nil {
					return errors.Wrap(err, "unable to encode run")
				}

				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&countOnly, "count", false, "only print the number of runs")

	return cmd
}

func (a *app) reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [strategy] [selected.json]",
		Short: "Print the indices of previously selected runs in a new expansion",
		Args:  cobra.ExactArgs(2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(cmd.Context(), args...)
			if err != nil {
				return err
			}

			runs, err := a.generate(args[0], files[0])
			if err != nil {
				return err
			}

			var stored []sweep.NestedParameters

			err = json.Unmarshal(files[1], &stored)
			if err != nil {
				return errors.Wrapf(err, "unable to decode selected runs %s", args[1])
			}

			indices := sweep.Reconcile(runs, stored)
			a.logger.Debug("runs reconciled", slog.Int("stored", len(stored)), slog.Int("kept", len(indices)))

			out, err := json.Marshal(indices)
			if err != nil {
				return errors.Wrap(err, "unable to encode indices")
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
}

func (a *app) drawCmd() *cobra.Command {
	var (
		output   string
		selected []string
		rankdir  string
	)

	cmd := &cobra.Command{
		Use:   "draw [pipeline.json]",
		Short: "Render a pipeline as a Graphviz DOT graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipe, err := a.loadPipeline(cmd, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return errors.Wrapf(err, "unable to create file %s", output)
				}
				defer file.Close()

				w = file
			}

			opts := []drawer.Option{drawer.Selected(selected...)}
			if rankdir != "" {
				opts = append(opts, drawer.GraphAttribute("rankdir", rankdir))
			}

			err = drawer.Render(w, pipe, opts...)
			if err != nil {
				return errors.Wrapf(err, "unable to draw %s", args[0])
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph to a file instead of stdout")
	cmd.Flags().StringSliceVar(&selected, "select", nil, "steps to highlight")
	cmd.Flags().StringVar(&rankdir, "rankdir", "", "graph direction, such as LR")

	return cmd
}

func (a *app) loadPipeline(cmd *cobra.Command, path string) (*pipeline.Pipeline, error) {
	files, err := readFiles(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	pipe, err := codec.Decode(files[0], pipeline.WithLogger(a.logger))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load %s", path)
	}

	return pipe, nil
}

// generate expands a strategy. Invalid parameters are logged and the runs of
// the valid ones are returned.
func (a *app) generate(path string, data []byte) ([]sweep.Parameterization, error) {
	strategy, err := decodeStrategy(path, data)
	if err != nil {
		return nil, err
	}

	runs, err := sweep.Generate(strategy)

	var invalid *sweep.InvalidParametersError

	switch {
	case err == nil:
	case errors.As(err, &invalid):
		for _, param := range invalid.Parameters {
			a.logger.Warn("parameter skipped",
				slog.String("key", param.StrategyKey),
				slog.String("name", param.Name),
				slog.Any("error", param.Err),
			)
		}
	default:
		return nil, errors.Wrapf(err, "unable to expand %s", path)
	}

	a.logger.Debug("strategy expanded", slog.String("file", path), slog.Int("runs", len(runs)))

	return runs, nil
}
