// Package normalize turns arbitrary VCT-shaped JSON into the canonical working
// document. Legacy field names are migrated by an ordered list of named rules
// applied to a loosely typed tree before the typed decode.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"vctbuilder/internal/vct/models"
)

var (
	// ErrNotObject is returned by NormalizeJSON when the root is not a JSON object.
	ErrNotObject = errors.New("root must be a JSON object")
	// ErrTrailingData is returned when more than one JSON value is present.
	ErrTrailingData = errors.New("unexpected data after top-level value")
)

// Result is the normalized document plus the names of the rules that changed it.
type Result struct {
	VCT     models.VCT
	Applied []string
}

// Normalize is total: any input yields a document. Non-object input yields an
// empty document; individual fields of the wrong type are dropped.
func Normalize(raw any) Result {
	tree, ok := raw.(map[string]any)
	if !ok {
		return Result{VCT: decodeVCT(map[string]any{})}
	}
	var applied []string
	for _, rule := range Rules {
		if rule.Apply(tree) {
			applied = append(applied, rule.Name)
		}
	}
	return Result{VCT: decodeVCT(tree), Applied: applied}
}

// NormalizeJSON parses data and normalizes it. Parse failures and non-object
// roots are the only errors.
func NormalizeJSON(data []byte) (Result, error) {
	tree, err := parse(data)
	if err != nil {
		return Result{}, err
	}
	return Normalize(tree), nil
}

func parse(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document: %w", io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	tree, ok := root.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return tree, nil
}
