/*
 * graph.go, part of mkmkit.
 *
 * Copyright 2026 The mkmkit authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package network

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// StateNode is a stable state in the graph of a network.
type StateNode struct {
	Name string
	id   int64
}

func (S *StateNode) ID() int64 { return S.id }

// StepEdge links the two sides of one or more steps.
type StepEdge struct {
	F, T  *StateNode
	Steps []*Step
}

func (E *StepEdge) From() graph.Node { return E.F }
func (E *StepEdge) To() graph.Node   { return E.T }

// ReversedEdge returns the edge with its ends swapped. The graph is undirected, so
// both represent the same connection.
func (E *StepEdge) ReversedEdge() graph.Edge {
	return &StepEdge{F: E.T, T: E.F, Steps: E.Steps}
}

// StateGraph is an undirected graph with a node per stable state, and an edge between
// states found on opposite sides of a step.
type StateGraph struct {
	*simple.UndirectedGraph
	nodes map[string]*StateNode
}

// StateNode returns the node for the named state, or nil.
func (G *StateGraph) StateNode(name string) *StateNode {
	return G.nodes[name]
}

// sides returns the two sides linked by the step. For surf steps, these are the initial
// states of the forward and the backward directions.
func sides(S *Step) ([]Term, []Term) {
	if S.Kind == Ads {
		return S.Adsorption.Initial, S.Adsorption.Final
	}
	return S.Forward.Initial, S.Backward.Initial
}

// Graph returns the graph of stable states of the network. Node IDs follow the alphabetical
// order of the state names.
func (N *Network) Graph() *StateGraph {
	names := make([]string, 0, len(N.States))
	for name := range N.States {
		names = append(names, name)
	}
	sort.Strings(names)
	G := &StateGraph{UndirectedGraph: simple.NewUndirectedGraph(), nodes: make(map[string]*StateNode, len(names))}
	for i, name := range names {
		n := &StateNode{Name: name, id: int64(i)}
		G.nodes[name] = n
		G.AddNode(n)
	}
	for _, s := range N.Steps {
		left, right := sides(s)
		for _, l := range left {
			for _, r := range right {
				a, b := G.nodes[l.Name], G.nodes[r.Name]
				if a == nil || b == nil || a == b {
					continue
				}
				if e, ok := G.Edge(a.id, b.id).(*StepEdge); ok {
					if !containsStep(e.Steps, s) {
						e.Steps = append(e.Steps, s)
						G.SetEdge(e)
					}
					continue
				}
				G.SetEdge(&StepEdge{F: a, T: b, Steps: []*Step{s}})
			}
		}
	}
	return G
}

func containsStep(steps []*Step, s *Step) bool {
	for _, v := range steps {
		if v == s {
			return true
		}
	}
	return false
}

// Components returns the names of the stable states in each connected component of the
// network graph. Names within a component, and components, are sorted.
func (N *Network) Components() [][]string {
	G := N.Graph()
	var ret [][]string
	for _, c := range topo.ConnectedComponents(G) {
		names := make([]string, 0, len(c))
		for _, n := range c {
			names = append(names, n.(*StateNode).Name)
		}
		sort.Strings(names)
		ret = append(ret, names)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}

// Islands returns, sorted, the stable states with no edge in the network graph, that
// is, states no step links to another state.
func (N *Network) Islands() []string {
	G := N.Graph()
	var ret []string
	for name, n := range G.nodes {
		if G.From(n.ID()).Len() == 0 {
			ret = append(ret, name)
		}
	}
	sort.Strings(ret)
	return ret
}
