// Package drawer renders a pipeline as a Graphviz DOT digraph.
package drawer

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/pipeline-editor/internal/store"
	"github.com/askiada/pipeline-editor/pkg/pipeline"
	"github.com/askiada/pipeline-editor/pkg/pipeline/model"
)

var defaultHighlight = [3]uint8{255, 215, 0}

type renderer struct {
	selected   map[string]struct{}
	attributes map[string]string
	highlight  [3]uint8
}

// Render writes the DOT description of p to w. Steps are listed in stable
// topological order and connections follow the order of their source.
func Render(w io.Writer, p *pipeline.Pipeline, opts ...Option) error {
	if p == nil {
		return pipeline.ErrPipelineMustBeSet
	}

	r := &renderer{
		selected:   make(map[string]struct{}),
		attributes: map[string]string{"label": p.Name()},
		highlight:  defaultHighlight,
	}

	for _, opt := range opts {
		opt(r)
	}

	st := store.NewOrderedStore[string, model.Step]()

	g, err := r.build(p, st)
	if err != nil {
		return err
	}

	err = r.highlightSelected(st)
	if err != nil {
		return err
	}

	desc, err := r.describe(p, g)
	if err != nil {
		return err
	}

	return renderDOT(w, desc)
}

func stepHash(step model.Step) string {
	return step.UUID
}

func (r *renderer) build(p *pipeline.Pipeline, st store.Store[string, model.Step]) (graph.Graph[string, model.Step], error) {
	g := graph.NewWithStore(stepHash, st, graph.Directed(), graph.PreventCycles())

	for _, step := range p.Steps() {
		label := step.Title
		if label == "" {
			label = step.UUID
		}

		props := []func(*graph.VertexProperties){
			graph.VertexAttribute("shape", "box"),
			graph.VertexAttribute("pos", fmt.Sprintf("%g,%g!", step.MetaData.Position.X, step.MetaData.Position.Y)),
		}

		if step.FilePath != "" {
			props = append(props, graph.VertexAttribute("html_label", fmt.Sprintf(
				`<%s <BR /> <FONT POINT-SIZE="10">%s</FONT>>`, html.EscapeString(label), html.EscapeString(step.FilePath))))
		} else {
			props = append(props, graph.VertexAttribute("label", label))
		}

		if step.MetaData.Hidden {
			props = append(props, graph.VertexAttribute("style", "dashed"))
		}

		err := g.AddVertex(step, props...)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add vertex %s", step.UUID)
		}
	}

	for _, conn := range p.Connections() {
		err := g.AddEdge(conn.Source, conn.Target)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add edge from %s to %s", conn.Source, conn.Target)
		}
	}

	return g, nil
}

func (r *renderer) highlightSelected(st store.Store[string, model.Step]) error {
	if len(r.selected) == 0 {
		return nil
	}

	fill, err := colors.RGB(r.highlight[0], r.highlight[1], r.highlight[2]) //nolint
	if err != nil {
		return errors.Wrap(err, "unable to get colour")
	}

	uuids := make([]string, 0, len(r.selected))
	for uuid := range r.selected {
		uuids = append(uuids, uuid)
	}

	sort.Strings(uuids)

	for _, uuid := range uuids {
		err := st.UpdateVertex(uuid,
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", fill.ToHEX().String()),
		)
		if err != nil {
			return errors.Wrapf(err, "unable to highlight step %s", uuid)
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict digraph {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range .Statements}}
	"{{.Source}}"{{if .Target}} -> "{{.Target}}"{{end}} [ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}}{{range $k, $v := .Attributes}}{{$k}}="{{$v}}", {{end}}weight={{.Weight}} ];
{{- end}}
}
`

type description struct {
	Attributes map[string]string
	Statements []statement
}

type statement struct {
	Source         string
	Target         string
	Attributes     map[string]string
	HTMLAttributes map[string]string
	Weight         int
}

func (r *renderer) describe(p *pipeline.Pipeline, g graph.Graph[string, model.Step]) (description, error) {
	desc := description{
		Attributes: make(map[string]string, len(r.attributes)),
	}

	for k, v := range r.attributes {
		desc.Attributes[k] = escape(v)
	}

	index := make(map[string]int, p.Len())
	for i, uuid := range p.StepUUIDs() {
		index[uuid] = i
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return index[a] < index[b]
	})
	if err != nil {
		return desc, errors.Wrap(err, "unable to sort steps")
	}

	adjacencyMap, err := g.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range order {
		_, props, err := g.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(props.Attributes))
		htmlAttributes := make(map[string]string)

		for k, v := range props.Attributes {
			if k == "html_label" {
				htmlAttributes["label"] = v

				continue
			}

			attributes[k] = escape(v)
		}

		desc.Statements = append(desc.Statements, statement{
			Source:         vertex,
			Attributes:     attributes,
			HTMLAttributes: htmlAttributes,
			Weight:         props.Weight,
		})
	}

	for _, vertex := range order {
		targets := make([]string, 0, len(adjacencyMap[vertex]))
		for target := range adjacencyMap[vertex] {
			targets = append(targets, target)
		}

		sort.Slice(targets, func(i, j int) bool {
			return index[targets[i]] < index[targets[j]]
		})

		for _, target := range targets {
			edge := adjacencyMap[vertex][target]

			attributes := make(map[string]string, len(edge.Properties.Attributes))
			for k, v := range edge.Properties.Attributes {
				attributes[k] = escape(v)
			}

			desc.Statements = append(desc.Statements, statement{
				Source:     vertex,
				Target:     target,
				Attributes: attributes,
				Weight:     edge.Properties.Weight,
			})
		}
	}

	return desc, nil
}

func escape(value string) string {
	return strings.ReplaceAll(value, `"`, `\"`)
}

func renderDOT(w io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	err = tpl.Execute(w, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}
