// Package preview builds the per-locale credential card shown next to the editor.
package preview

import (
	"vctbuilder/internal/vct/models"
)

// Placeholder is shown for claims without sample data.
const Placeholder = "—"

// Card is the render model of one locale's simple rendering.
type Card struct {
	Locale          string     `json:"locale"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	BackgroundColor string     `json:"background_color"`
	TextColor       string     `json:"text_color"`
	LogoURI         string     `json:"logo_uri,omitempty"`
	LogoAltText     string     `json:"logo_alt_text,omitempty"`
	BackgroundImage string     `json:"background_image,omitempty"`
	Templates       []Template `json:"templates,omitempty"`
	Rows            []Row      `json:"rows"`
	Footer          string     `json:"footer"`
}

type Template struct {
	URI         string `json:"uri"`
	Orientation string `json:"orientation,omitempty"`
	ColorScheme string `json:"color_scheme,omitempty"`
	Contrast    string `json:"contrast,omitempty"`
}

// Row is one claim line. SvgID binds the value into an SVG template.
type Row struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	HasValue  bool   `json:"has_value"`
	Mandatory bool   `json:"mandatory,omitempty"`
	SvgID     string `json:"svg_id,omitempty"`
}

// Render builds the card for locale. An unknown locale falls back to the
// first display block; claims without a key are skipped and a missing label
// falls back to the key.
func Render(doc models.VCT, sample models.SampleData, locale string) Card {
	d, ok := doc.DisplayFor(locale)
	if !ok && len(doc.Display) > 0 {
		d = doc.Display[0]
	}

	card := Card{
		Locale:          d.Locale,
		Name:            firstNonEmpty(d.Name, doc.Name, "Credential Name"),
		Description:     models.Deref(d.Description),
		BackgroundColor: models.DefaultBackgroundColor,
		TextColor:       models.DefaultTextColor,
		Rows:            []Row{},
		Footer:          firstNonEmpty(doc.VCT, "Credential Type URI"),
	}
	if r := d.Rendering; r != nil {
		if s := r.Simple; s != nil {
			card.BackgroundColor = firstNonEmpty(models.Deref(s.BackgroundColor), card.BackgroundColor)
			card.TextColor = firstNonEmpty(models.Deref(s.TextColor), card.TextColor)
			if s.Logo != nil {
				card.LogoURI = s.Logo.URI
				card.LogoAltText = models.Deref(s.Logo.AltText)
			}
			if s.BackgroundImage != nil {
				card.BackgroundImage = s.BackgroundImage.URI
			}
		}
		for _, t := range r.SVGTemplates {
			if t.URI == "" {
				continue
			}
			tmpl := Template{URI: t.URI}
			if p := t.Properties; p != nil {
				tmpl.Orientation = string(models.Deref(p.Orientation))
				tmpl.ColorScheme = string(models.Deref(p.ColorScheme))
				tmpl.Contrast = string(models.Deref(p.Contrast))
			}
			card.Templates = append(card.Templates, tmpl)
		}
	}

	for _, c := range doc.Claims {
		key := models.ClaimKey(c.Path)
		if key == "" {
			continue
		}
		row := Row{
			Key:       key,
			Label:     key,
			Value:     Placeholder,
			Mandatory: c.IsMandatory(),
			SvgID:     models.Deref(c.SvgID),
		}
		if cd, ok := c.DisplayFor(d.Locale); ok && cd.Label != "" {
			row.Label = cd.Label
		}
		if v, ok := sample[key]; ok && v != "" {
			row.Value = v
			row.HasValue = true
		}
		card.Rows = append(card.Rows, row)
	}
	return card
}

// SampleKeys lists the keys a sample-data form should offer, in claim order
// and without duplicates.
func SampleKeys(doc models.VCT) []string {
	seen := make(map[string]bool, len(doc.Claims))
	keys := make([]string, 0, len(doc.Claims))
	for _, c := range doc.Claims {
		k := models.ClaimKey(c.Path)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
