package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the structural skeleton of node in stream syntax to the
// writer: groups and garbage spans only, with children separated by commas.
//
// Garbage content never contains '>' or '!' ([NewGarbage] and [FromNative]
// reject it), so it is written verbatim and the output parses back to an
// equivalent tree. If indent is positive, each child is written on its own
// line indented by indent spaces per level.
func Format(w io.Writer, node Node, indent int) error {
	if err := formatNode(w, node, indent, 0); err != nil {
		return err
	}

	// Final newline
	_, err := fmt.Fprintln(w)

	return err
}

// String returns the compact skeleton of node.
func String(node Node) string {
	var sb strings.Builder

	_ = formatNode(&sb, node, 0, 0)

	return sb.String()
}

func formatNode(w io.Writer, node Node, indent, level int) error {
	switch n := node.(type) {
	case *Garbage:
		_, err := fmt.Fprint(w, "<", n.Content(), ">")

		return err

	case *Group:
		return formatGroup(w, n, indent, level)

	default:
		return nil
	}
}

func formatGroup(w io.Writer, g *Group, indent, level int) error {
	if _, err := fmt.Fprint(w, "{"); err != nil {
		return err
	}

	if g.Len() == 0 {
		_, err := fmt.Fprint(w, "}")

		return err
	}

	pad := func(depth int) string {
		return strings.Repeat(" ", indent*depth)
	}

	count := 0
	for child := range g.All() {
		if count > 0 {
			if _, err := fmt.Fprint(w, ","); err != nil {
				return err
			}
		}

		if indent > 0 {
			if _, err := fmt.Fprint(w, "\n", pad(level+1)); err != nil {
				return err
			}
		}

		if err := formatNode(w, child, indent, level+1); err != nil {
			return err
		}

		count++
	}

	if indent > 0 {
		if _, err := fmt.Fprint(w, "\n", pad(level)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "}")

	return err
}

// FormatJSON writes node as JSON to the writer.
func FormatJSON(w io.Writer, node Node, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(
			ToNative(node), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ToNative(node))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes node as YAML to the writer.
func FormatYAML(ctx context.Context, w io.Writer, node Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ToNative(node), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}

// Print writes an indented tree representation of node to the writer,
// one node per line, annotated with depth and garbage length.
func Print(w io.Writer, node Node) error {
	return printNode(w, node, 1, "")
}

func printNode(w io.Writer, node Node, depth int, prefix string) error {
	switch n := node.(type) {
	case *Garbage:
		_, err := fmt.Fprintf(w, "%sGarbage len=%d %s\n",
			prefix, n.Len(), strconv.Quote(n.Content()))

		return err

	case *Group:
		_, err := fmt.Fprintf(w, "%sGroup depth=%d children=%d\n",
			prefix, depth, n.Len())
		if err != nil {
			return err
		}

		for child := range n.All() {
			err := printNode(w, child, depth+1, prefix+"  ")
			if err != nil {
				return err
			}
		}

		return nil

	default:
		return nil
	}
}
