// Package canonical produces the minimal publishable form of a VCT document.
// Output key order follows struct declaration order.
package canonical

import (
	"bytes"
	"encoding/json"

	"vctbuilder/internal/vct/models"
)

type Document struct {
	VCT                string    `json:"vct"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Extends            string    `json:"extends,omitempty"`
	ExtendsIntegrity   string    `json:"extends#integrity,omitempty"`
	SchemaURI          string    `json:"schema_uri,omitempty"`
	SchemaURIIntegrity string    `json:"schema_uri#integrity,omitempty"`
	Display            []Display `json:"display"`
	Claims             []Claim   `json:"claims,omitempty"`
}

type Display struct {
	Locale      string     `json:"locale"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Rendering   *Rendering `json:"rendering,omitempty"`
}

type Rendering struct {
	Simple       *Simple       `json:"simple,omitempty"`
	SVGTemplates []SVGTemplate `json:"svg_templates,omitempty"`
}

type Simple struct {
	BackgroundColor string `json:"background_color,omitempty"`
	TextColor       string `json:"text_color,omitempty"`
	Logo            *Logo  `json:"logo,omitempty"`
	BackgroundImage *Image `json:"background_image,omitempty"`
}

type Logo struct {
	URI          string `json:"uri"`
	URIIntegrity string `json:"uri#integrity,omitempty"`
	AltText      string `json:"alt_text,omitempty"`
}

type Image struct {
	URI          string `json:"uri"`
	URIIntegrity string `json:"uri#integrity,omitempty"`
}

type SVGTemplate struct {
	URI          string      `json:"uri"`
	URIIntegrity string      `json:"uri#integrity,omitempty"`
	Properties   *Properties `json:"properties,omitempty"`
}

type Properties struct {
	Orientation string `json:"orientation,omitempty"`
	ColorScheme string `json:"color_scheme,omitempty"`
	Contrast    string `json:"contrast,omitempty"`
}

type Claim struct {
	Path      []string       `json:"path"`
	Display   []ClaimDisplay `json:"display"`
	SD        string         `json:"sd,omitempty"`
	Mandatory bool           `json:"mandatory,omitempty"`
	SvgID     string         `json:"svg_id,omitempty"`
}

type ClaimDisplay struct {
	Locale      string `json:"locale"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Canonicalize is pure and deterministic. Empty optional values are dropped,
// integrity hashes only travel with their URI, and claims without a usable
// path are omitted.
func Canonicalize(v models.VCT) Document {
	doc := Document{
		VCT:         v.VCT,
		Name:        v.Name,
		Description: models.Deref(v.Description),
		Display:     make([]Display, 0, len(v.Display)),
	}
	if ext := models.Deref(v.Extends); ext != "" {
		doc.Extends = ext
		doc.ExtendsIntegrity = models.Deref(v.ExtendsIntegrity)
	}
	if schema := models.Deref(v.SchemaURI); schema != "" {
		doc.SchemaURI = schema
		doc.SchemaURIIntegrity = models.Deref(v.SchemaURIIntegrity)
	}
	for _, d := range v.Display {
		doc.Display = append(doc.Display, display(d))
	}
	for _, c := range v.Claims {
		if out, ok := claim(c); ok {
			doc.Claims = append(doc.Claims, out)
		}
	}
	return doc
}

func display(d models.Display) Display {
	out := Display{
		Locale:      d.Locale,
		Name:        d.Name,
		Description: models.Deref(d.Description),
	}
	if d.Rendering == nil {
		return out
	}
	r := &Rendering{Simple: simple(d.Rendering.Simple)}
	for _, t := range d.Rendering.SVGTemplates {
		tmpl := SVGTemplate{URI: t.URI, URIIntegrity: models.Deref(t.URIIntegrity)}
		if !t.Properties.IsEmpty() {
			tmpl.Properties = &Properties{
				Orientation: string(models.Deref(t.Properties.Orientation)),
				ColorScheme: string(models.Deref(t.Properties.ColorScheme)),
				Contrast:    string(models.Deref(t.Properties.Contrast)),
			}
			if *tmpl.Properties == (Properties{}) {
				tmpl.Properties = nil
			}
		}
		r.SVGTemplates = append(r.SVGTemplates, tmpl)
	}
	if r.Simple != nil || len(r.SVGTemplates) > 0 {
		out.Rendering = r
	}
	return out
}

func simple(s *models.SimpleRendering) *Simple {
	if s == nil {
		return nil
	}
	out := &Simple{
		BackgroundColor: models.Deref(s.BackgroundColor),
		TextColor:       models.Deref(s.TextColor),
	}
	if s.Logo != nil && s.Logo.URI != "" {
		out.Logo = &Logo{
			URI:          s.Logo.URI,
			URIIntegrity: models.Deref(s.Logo.URIIntegrity),
			AltText:      models.Deref(s.Logo.AltText),
		}
	}
	if s.BackgroundImage != nil && s.BackgroundImage.URI != "" {
		out.BackgroundImage = &Image{
			URI:          s.BackgroundImage.URI,
			URIIntegrity: models.Deref(s.BackgroundImage.URIIntegrity),
		}
	}
	if *out == (Simple{}) {
		return nil
	}
	return out
}

func claim(c models.Claim) (Claim, bool) {
	path := c.Path.Keyed()
	if len(path) == 0 {
		return Claim{}, false
	}
	out := Claim{
		Path:      path,
		Display:   []ClaimDisplay{},
		Mandatory: c.IsMandatory(),
		SvgID:     models.Deref(c.SvgID),
	}
	if sd := c.Disclosure(); sd != models.SDAllowed {
		out.SD = string(sd)
	}
	for _, d := range c.Display {
		if d.Label == "" {
			continue
		}
		out.Display = append(out.Display, ClaimDisplay{
			Locale:      d.Locale,
			Label:       d.Label,
			Description: models.Deref(d.Description),
		})
	}
	return out, true
}

// Marshal returns compact canonical JSON. URIs are written without HTML escaping.
func Marshal(v models.VCT) ([]byte, error) {
	return encode(Canonicalize(v), "")
}

// MarshalIndent returns canonical JSON indented by two spaces.
func MarshalIndent(v models.VCT) ([]byte, error) {
	return encode(Canonicalize(v), "  ")
}

func encode(doc Document, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
