package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PathSegment is one element of a claim path: a string or the JSON null
// wildcard. Null segments are carried through untouched.
type PathSegment struct {
	Value string
	Null  bool
}

func Segment(s string) PathSegment {
	return PathSegment{Value: s}
}

func NullSegment() PathSegment {
	return PathSegment{Null: true}
}

// IsBlank reports whether the segment contributes nothing to a claim key.
func (p PathSegment) IsBlank() bool {
	return p.Null || p.Value == ""
}

func (p PathSegment) MarshalJSON() ([]byte, error) {
	if p.Null {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *PathSegment) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = NullSegment()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("path segment must be a string or null: %w", err)
	}
	*p = Segment(s)
	return nil
}

type Path []PathSegment

// UnmarshalJSON keeps string and null segments and drops any other element,
// the same way the normalizer treats claim paths. A non-array value decodes
// to an empty path.
func (p *Path) UnmarshalJSON(data []byte) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		*p = nil
		return nil
	}
	var out Path
	for _, raw := range elems {
		var seg PathSegment
		if seg.UnmarshalJSON(raw) == nil {
			out = append(out, seg)
		}
	}
	*p = out
	return nil
}

// NewPath builds a path from plain strings.
func NewPath(segments ...string) Path {
	p := make(Path, len(segments))
	for i, s := range segments {
		p[i] = Segment(s)
	}
	return p
}

// Keyed returns the non-blank segment values in order.
func (p Path) Keyed() []string {
	out := make([]string, 0, len(p))
	for _, s := range p {
		if !s.IsBlank() {
			out = append(out, s.Value)
		}
	}
	return out
}

// ClaimKey joins the non-empty, non-null segments with ".". It is the single
// key used for canonical path filtering, sample data and preview rows.
func ClaimKey(p Path) string {
	return strings.Join(p.Keyed(), ".")
}
