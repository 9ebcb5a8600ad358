package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is human-readable output (default). Listings render as tables.
	FormatText Format = "text"
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format type.
// Empty string defaults to FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "", "table":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|json|yaml)")
	}
}

// Structured reports whether f is a machine-readable format.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Printer handles output formatting across different formats.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a new Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Print outputs data in the configured format after applying the --jsonpath
// and --query transforms found in ctx.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}

	if path := strings.TrimSpace(JSONPathFromContext(ctx)); path != "" {
		extracted, err := applyJSONPath(data, path)
		if err != nil {
			return err
		}
		data = extracted
	}

	if query := strings.TrimSpace(QueryFromContext(ctx)); query != "" {
		results, err := runQuery(query, data)
		if err != nil {
			return err
		}
		switch len(results) {
		case 0:
			return nil
		case 1:
			data = results[0]
		default:
			if p.format == FormatJSON {
				return p.printJSONStream(results)
			}
			data = results
		}
	}

	switch p.format {
	case FormatJSON:
		return p.printJSON(data)
	case FormatYAML:
		return p.printYAML(data)
	case FormatText:
		return p.printText(data)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func (p *Printer) printJSON(data interface{}) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// printJSONStream writes one document per jq result, like jq itself.
func (p *Printer) printJSONStream(results []interface{}) error {
	for _, r := range results {
		if err := p.printJSON(r); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printYAML(data interface{}) error {
	normalized, err := normalizeToInterface(data)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(normalized)
}

// printText writes scalars as-is, objects as sorted "key: value" lines and
// lists one element per line.
func (p *Printer) printText(data interface{}) error {
	normalized, err := normalizeToInterface(data)
	if err != nil {
		return err
	}

	switch v := normalized.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(p.w, "%s: %s\n", k, scalarText(v[k])); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		for _, item := range v {
			if _, err := fmt.Fprintln(p.w, scalarText(item)); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(p.w, scalarText(v))
		return err
	}
}

func scalarText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool, float64, json.Number:
		return fmt.Sprint(t)
	default:
		buf, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(buf)
	}
}
