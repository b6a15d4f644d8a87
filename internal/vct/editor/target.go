package editor

import (
	"fmt"

	"vctbuilder/internal/vct/models"
	dErrors "vctbuilder/pkg/domain-errors"
)

// TargetKind names a URI field that carries a sibling "#integrity" hash.
type TargetKind string

const (
	TargetExtends         TargetKind = "extends"
	TargetSchemaURI       TargetKind = "schema_uri"
	TargetLogo            TargetKind = "logo"
	TargetBackgroundImage TargetKind = "background_image"
	TargetSVGTemplate     TargetKind = "svg_template"
)

func (k TargetKind) IsValid() bool {
	switch k {
	case TargetExtends, TargetSchemaURI, TargetLogo, TargetBackgroundImage, TargetSVGTemplate:
		return true
	}
	return false
}

// Target addresses one integrity-bearing URI in a document. Display is used by
// logo, background image and template targets; Template only by templates.
type Target struct {
	Kind     TargetKind `json:"kind"`
	Display  int        `json:"display,omitempty"`
	Template int        `json:"template,omitempty"`
}

func (t Target) String() string {
	switch t.Kind {
	case TargetExtends, TargetSchemaURI:
		return string(t.Kind)
	case TargetSVGTemplate:
		return fmt.Sprintf("display[%d].svg_templates[%d]", t.Display, t.Template)
	default:
		return fmt.Sprintf("display[%d].%s", t.Display, t.Kind)
	}
}

// URI returns the target's current URI; ok is false when the target does not
// exist in doc.
func (t Target) URI(doc models.VCT) (uri string, ok bool) {
	switch t.Kind {
	case TargetExtends:
		return models.Deref(doc.Extends), true
	case TargetSchemaURI:
		return models.Deref(doc.SchemaURI), true
	}
	if t.Display < 0 || t.Display >= len(doc.Display) {
		return "", false
	}
	r := doc.Display[t.Display].Rendering
	switch t.Kind {
	case TargetLogo:
		if r == nil || r.Simple == nil || r.Simple.Logo == nil {
			return "", true
		}
		return r.Simple.Logo.URI, true
	case TargetBackgroundImage:
		if r == nil || r.Simple == nil || r.Simple.BackgroundImage == nil {
			return "", true
		}
		return r.Simple.BackgroundImage.URI, true
	case TargetSVGTemplate:
		if r == nil || t.Template < 0 || t.Template >= len(r.SVGTemplates) {
			return "", false
		}
		return r.SVGTemplates[t.Template].URI, true
	}
	return "", false
}

// SetIntegrity stores hash next to the target's URI.
func SetIntegrity(t Target, hash string) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		uri, ok := t.URI(doc)
		if !ok || uri == "" {
			return models.VCT{}, dErrors.Newf(dErrors.CodeNotFound, "%s has no uri", t)
		}
		out := doc.Clone()
		h := models.Ptr(hash)
		switch t.Kind {
		case TargetExtends:
			out.ExtendsIntegrity = h
		case TargetSchemaURI:
			out.SchemaURIIntegrity = h
		case TargetLogo:
			out.Display[t.Display].Rendering.Simple.Logo.URIIntegrity = h
		case TargetBackgroundImage:
			out.Display[t.Display].Rendering.Simple.BackgroundImage.URIIntegrity = h
		case TargetSVGTemplate:
			out.Display[t.Display].Rendering.SVGTemplates[t.Template].URIIntegrity = h
		}
		return out, nil
	}
}

// Reference is one URI with its declared integrity, as found in a document.
type Reference struct {
	Target    Target `json:"target"`
	URI       string `json:"uri"`
	Integrity string `json:"integrity,omitempty"`
}

// References lists every non-empty integrity-bearing URI in document order.
func References(doc models.VCT) []Reference {
	var refs []Reference
	add := func(t Target, uri string, integrity *string) {
		if uri != "" {
			refs = append(refs, Reference{Target: t, URI: uri, Integrity: models.Deref(integrity)})
		}
	}
	add(Target{Kind: TargetExtends}, models.Deref(doc.Extends), doc.ExtendsIntegrity)
	add(Target{Kind: TargetSchemaURI}, models.Deref(doc.SchemaURI), doc.SchemaURIIntegrity)
	for i, d := range doc.Display {
		if d.Rendering == nil {
			continue
		}
		if s := d.Rendering.Simple; s != nil {
			if s.Logo != nil {
				add(Target{Kind: TargetLogo, Display: i}, s.Logo.URI, s.Logo.URIIntegrity)
			}
			if s.BackgroundImage != nil {
				add(Target{Kind: TargetBackgroundImage, Display: i}, s.BackgroundImage.URI, s.BackgroundImage.URIIntegrity)
			}
		}
		for j, tmpl := range d.Rendering.SVGTemplates {
			add(Target{Kind: TargetSVGTemplate, Display: i, Template: j}, tmpl.URI, tmpl.URIIntegrity)
		}
	}
	return refs
}
