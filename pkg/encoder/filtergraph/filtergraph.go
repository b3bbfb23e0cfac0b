// Package filtergraph :: Define ffmpeg filters as an oriented graph-like structure to be later used in
// ffmpeg filter_complex option
package filtergraph

import (
	"fmt"
	"strings"
)

// Node A single node of an FFMPEG filter Tree
type Node struct {
	// Unique Node Id, used as the output label of the filter
	name string
	// All filter to be applied before this one can be compiled
	children []Filter
}

type Filter interface {
	// Build Resolve the graph into a string usable in FFMPEG -filter_complex option
	Build() string
	// Return a unique id for this filter
	Id() string
}

// Build every child of the node, in order
func (n *Node) buildChildren(ss *strings.Builder) {
	for _, c := range n.children {
		ss.WriteString(c.Build())
	}
}

// Compile Resolve the whole graph rooted at root into a complete filter_complex value.
// The graph is checked before being returned : brackets and quotes must be balanced,
// every output label must be produced once, and the last step must output root's label
func Compile(root Filter) (string, error) {
	if root == nil {
		return "", fmt.Errorf("no filter graph to compile")
	}
	// Remove the last ";" in the last step of the filtergraph. That's how FFmpeg knows it's complete
	graph := strings.TrimSuffix(root.Build(), ";")
	if graph == "" {
		return "", fmt.Errorf("filter graph rooted at [%s] has no filter", root.Id())
	}
	if err := checkGraph(graph, root.Id()); err != nil {
		return "", fmt.Errorf("malformed filter graph %q : %w", graph, err)
	}
	return graph, nil
}

func checkGraph(graph string, output string) error {
	steps := strings.Split(graph, ";")
	produced := make(map[string]bool, len(steps))
	for i, step := range steps {
		if strings.Count(step, "'")%2 != 0 {
			return fmt.Errorf("step %d has unbalanced quotes", i)
		}
		labels, err := labelsOf(step)
		if err != nil {
			return fmt.Errorf("step %d : %w", i, err)
		}
		if len(labels) == 0 || !strings.HasSuffix(step, fmt.Sprintf("[%s]", labels[len(labels)-1])) {
			return fmt.Errorf("step %d has no output label", i)
		}
		out := labels[len(labels)-1]
		if produced[out] {
			return fmt.Errorf("label [%s] is produced twice", out)
		}
		produced[out] = true
	}
	last := steps[len(steps)-1]
	if !strings.HasSuffix(last, fmt.Sprintf("[%s]", output)) {
		return fmt.Errorf("graph does not end with output label [%s]", output)
	}
	return nil
}

// Return all the bracketed labels of a single step, ignoring quoted sections
func labelsOf(step string) ([]string, error) {
	var labels []string
	quoted := false
	start := -1
	for i, r := range step {
		switch {
		case r == '\'':
			quoted = !quoted
		case quoted:
		case r == '[':
			if start != -1 {
				return nil, fmt.Errorf("nested bracket at %d", i)
			}
			start = i
		case r == ']':
			if start == -1 {
				return nil, fmt.Errorf("unopened bracket at %d", i)
			}
			labels = append(labels, step[start+1:i])
			start = -1
		}
	}
	if start != -1 {
		return nil, fmt.Errorf("unclosed bracket at %d", start)
	}
	return labels, nil
}
