// Package tree renders a crack exploration tree with Graphviz.
//
// [ToDOT] produces DOT text; [RenderSVG] lays it out with the embedded
// Graphviz build from github.com/goccy/go-graphviz, so no system install is
// needed.
package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/skyf0l/basecracker/pkg/cracker"
)

// Options configures DOT output.
type Options struct {
	// MaxLabel truncates node text to this many bytes. Zero means 24.
	MaxLabel int
	// ShowRatio adds the printable ratio to each label.
	ShowRatio bool
}

const defaultMaxLabel = 24

// ToDOT converts the tree rooted at root to DOT. Reported chain ends are
// filled green, pruned nodes are dashed.
func ToDOT(root *cracker.Node, opts Options) string {
	if opts.MaxLabel <= 0 {
		opts.MaxLabel = defaultMaxLabel
	}

	var buf bytes.Buffer
	buf.WriteString("digraph crack {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")
	if root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	ids := make(map[*cracker.Node]string)
	root.Walk(func(n *cracker.Node) bool {
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		fmt.Fprintf(&buf, "  %s [%s];\n", id, strings.Join(attrs(n, opts), ", "))
		return true
	})

	buf.WriteString("\n")
	root.Walk(func(n *cracker.Node) bool {
		if n.Parent != nil {
			fmt.Fprintf(&buf, "  %s -> %s [label=\"%s\"];\n", ids[n.Parent], ids[n], escape(n.Scheme.ID))
		}
		return true
	})
	buf.WriteString("}\n")
	return buf.String()
}

func attrs(n *cracker.Node, opts Options) []string {
	label := n.Name() + "\\n" + escape(truncate(n.Text, opts.MaxLabel))
	if opts.ShowRatio {
		label += fmt.Sprintf("\\n%.2f", n.Ratio)
	}
	out := []string{fmt.Sprintf("label=\"%s\"", label)}
	switch {
	case n.Parent == nil:
		out = append(out, "fillcolor=lightgrey")
	case n.Terminal:
		out = append(out, "fillcolor=palegreen", "penwidth=2")
	case n.Pruned:
		out = append(out, "style=\"rounded,filled,dashed\"", "fontcolor=grey40")
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// escape makes s safe inside a double-quoted DOT string. Unprintable bytes
// become '.'.
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c > 0x7e:
			b.WriteByte('.')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// RenderSVG lays out a DOT graph and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag to a zero-origin viewBox with
// matching pixel size so browsers scale the drawing.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
