package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func parseFormat(s string) (string, error) {
	switch s {
	case formatJSON, formatYAML:
		return s, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want json or yaml)", s)
	}
}

// render writes v in the requested format. YAML output keeps the JSON field
// names by going through the JSON encoding first.
func render(w io.Writer, format string, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return err
	}
	return renderJSON(w, format, data)
}

// renderJSON writes an already encoded JSON document.
func renderJSON(w io.Writer, format string, data []byte) error {
	if format != formatYAML {
		_, err := fmt.Fprintf(w, "%s\n", data)
		return err
	}
	var tree any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return fmt.Errorf("decode output: %w", err)
	}
	out, err := yaml.Marshal(yamlValue(tree))
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// yamlValue converts json.Number leaves so integers stay unquoted.
func yamlValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = yamlValue(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = yamlValue(e)
		}
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// readInput reads the named file, or stdin for "-".
func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
