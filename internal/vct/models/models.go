// Package models holds the VCT document model shared by the normalizer,
// canonicalizer, editor and preview packages.
package models

// VCT is the working (raw) document. Optional fields are pointers so that
// "absent" and "present but empty" stay distinguishable until export.
type VCT struct {
	VCT                string    `json:"vct"`
	Name               string    `json:"name"`
	Description        *string   `json:"description,omitempty"`
	Extends            *string   `json:"extends,omitempty"`
	ExtendsIntegrity   *string   `json:"extends#integrity,omitempty"`
	SchemaURI          *string   `json:"schema_uri,omitempty"`
	SchemaURIIntegrity *string   `json:"schema_uri#integrity,omitempty"`
	Display            []Display `json:"display"`
	Claims             []Claim   `json:"claims"`
}

// Display is the localized presentation of the credential for one locale.
type Display struct {
	Locale      string     `json:"locale"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Rendering   *Rendering `json:"rendering,omitempty"`
}

type Rendering struct {
	Simple       *SimpleRendering `json:"simple,omitempty"`
	SVGTemplates []SVGTemplate    `json:"svg_templates,omitempty"`
}

type SimpleRendering struct {
	BackgroundColor *string `json:"background_color,omitempty"`
	TextColor       *string `json:"text_color,omitempty"`
	Logo            *Logo   `json:"logo,omitempty"`
	BackgroundImage *Image  `json:"background_image,omitempty"`
}

type Logo struct {
	URI          string  `json:"uri"`
	URIIntegrity *string `json:"uri#integrity,omitempty"`
	AltText      *string `json:"alt_text,omitempty"`
}

type Image struct {
	URI          string  `json:"uri"`
	URIIntegrity *string `json:"uri#integrity,omitempty"`
}

type SVGTemplate struct {
	URI          string                 `json:"uri"`
	URIIntegrity *string                `json:"uri#integrity,omitempty"`
	Properties   *SVGTemplateProperties `json:"properties,omitempty"`
}

type SVGTemplateProperties struct {
	Orientation *Orientation `json:"orientation,omitempty"`
	ColorScheme *ColorScheme `json:"color_scheme,omitempty"`
	Contrast    *Contrast    `json:"contrast,omitempty"`
}

// IsEmpty reports whether no property is set.
func (p *SVGTemplateProperties) IsEmpty() bool {
	return p == nil || (p.Orientation == nil && p.ColorScheme == nil && p.Contrast == nil)
}

// Claim describes one disclosable attribute of the credential.
type Claim struct {
	Path      Path           `json:"path"`
	Display   []ClaimDisplay `json:"display"`
	SD        *SD            `json:"sd,omitempty"`
	Mandatory *bool          `json:"mandatory,omitempty"`
	SvgID     *string        `json:"svg_id,omitempty"`
}

// Disclosure returns the effective selective-disclosure policy.
func (c Claim) Disclosure() SD {
	if c.SD == nil || *c.SD == "" {
		return SDAllowed
	}
	return *c.SD
}

// IsMandatory treats an absent flag as false.
func (c Claim) IsMandatory() bool {
	return c.Mandatory != nil && *c.Mandatory
}

type ClaimDisplay struct {
	Locale      string  `json:"locale"`
	Label       string  `json:"label"`
	Description *string `json:"description,omitempty"`
}

// SampleData maps a claim key (see ClaimKey) to a preview value. Never exported.
type SampleData map[string]string

// Locales returns the document's display locales in order.
func (v VCT) Locales() []string {
	out := make([]string, len(v.Display))
	for i, d := range v.Display {
		out[i] = d.Locale
	}
	return out
}

// DisplayIndex returns the index of the block for locale, or -1.
func (v VCT) DisplayIndex(locale string) int {
	for i, d := range v.Display {
		if d.Locale == locale {
			return i
		}
	}
	return -1
}

// DisplayFor returns the block for locale, if any.
func (v VCT) DisplayFor(locale string) (Display, bool) {
	if i := v.DisplayIndex(locale); i >= 0 {
		return v.Display[i], true
	}
	return Display{}, false
}

// DisplayFor returns the claim label entry for locale, if any.
func (c Claim) DisplayFor(locale string) (ClaimDisplay, bool) {
	for _, d := range c.Display {
		if d.Locale == locale {
			return d, true
		}
	}
	return ClaimDisplay{}, false
}

// Ptr returns a pointer to v. Used for optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the pointed-to value or the zero value.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
