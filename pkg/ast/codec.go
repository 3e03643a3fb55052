package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("ast: unknown format %q", s)
	}
}

// Encode writes doc to w. YAML output keeps the JSON key order.
func Encode(w io.Writer, doc *Document, f Format) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	switch f {
	case FormatJSON:
		var buf strings.Builder
		if err := indentJSON(&buf, b); err != nil {
			return err
		}
		_, err = io.WriteString(w, buf.String())
		return err

	case FormatYAML:
		// JSON is a YAML subset; decoding into a node keeps mapping order.
		var n yaml.Node
		if err := yaml.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("ast: yaml: %w", err)
		}
		blockStyle(&n)

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&n); err != nil {
			return fmt.Errorf("ast: yaml: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("ast: unknown format %q", f)
	}
}

// Decode reads a document written by Encode.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document

	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("ast: json: %w", err)
		}
		return &doc, nil

	case FormatYAML:
		var v any
		if err := yaml.NewDecoder(r).Decode(&v); err != nil {
			return nil, fmt.Errorf("ast: yaml: %w", err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("ast: yaml: %w", err)
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("ast: yaml: %w", err)
		}
		return &doc, nil

	default:
		return nil, fmt.Errorf("ast: unknown format %q", f)
	}
}

func indentJSON(w *strings.Builder, b []byte) error {
	var v json.RawMessage = b
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	w.Write(out)
	w.WriteByte('\n')
	return nil
}

// blockStyle drops the flow/quoted styles inherited from the JSON input.
// Scalars keep their tag, so the encoder still quotes strings such as "123".
func blockStyle(n *yaml.Node) {
	stack := []*yaml.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur.Style = 0
		stack = append(stack, cur.Content...)
	}
}
