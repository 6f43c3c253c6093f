// Command pipelinectl validates pipeline definitions, expands parameter sweep
// strategies and renders pipelines as Graphviz graphs.
package main

import (
	"os"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
