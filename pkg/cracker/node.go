package cracker

import (
	"github.com/skyf0l/basecracker/pkg/pipeline"
	"github.com/skyf0l/basecracker/pkg/scheme"
)

// Node is one vertex of the exploration tree. The root holds the raw input
// and has no scheme; every other node holds the text produced by decoding
// its parent's text with Scheme.
type Node struct {
	Scheme   *scheme.Scheme
	Text     string
	Ratio    float64
	Depth    int
	Parent   *Node
	Children []*Node

	// Terminal marks a reported chain end.
	Terminal bool
	// Pruned marks a node that was accepted but never queued because a
	// resource bound was hit.
	Pruned bool
}

func (n *Node) addChild(s *scheme.Scheme, text string, ratio float64) *Node {
	c := &Node{Scheme: s, Text: text, Ratio: ratio, Depth: n.Depth + 1, Parent: n}
	n.Children = append(n.Children, c)
	return c
}

// Name returns the scheme name, or "input" for the root.
func (n *Node) Name() string {
	if n.Scheme == nil {
		return "input"
	}
	return n.Scheme.Name()
}

// Chain returns the path from the root to n, root first.
func (n *Node) Chain() []*Node {
	out := make([]*Node, n.Depth+1)
	for cur := n; cur != nil; cur = cur.Parent {
		out[cur.Depth] = cur
	}
	return out
}

// Walk visits n and its descendants depth-first in insertion order.
// Returning false from fn skips a node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool { total++; return true })
	return total
}

// result converts the chain ending at n into a Result.
func (n *Node) result() Result {
	chain := n.Chain()
	r := Result{
		Input:     chain[0].Text,
		Plaintext: n.Text,
		Schemes:   make([]string, 0, n.Depth),
		IDs:       make([]string, 0, n.Depth),
		Steps:     make([]pipeline.Step, 0, n.Depth),
	}
	for _, c := range chain[1:] {
		r.Steps = append(r.Steps, pipeline.Step{Scheme: c.Scheme.Name(), ID: c.Scheme.ID, Text: c.Text})
	}
	// Schemes are listed in encode order, the reverse of the decode trace.
	for i := len(chain) - 1; i >= 1; i-- {
		r.Schemes = append(r.Schemes, chain[i].Scheme.Name())
		r.IDs = append(r.IDs, chain[i].Scheme.ID)
	}
	return r
}
