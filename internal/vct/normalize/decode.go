package normalize

import (
	"vctbuilder/internal/vct/models"
)

func decodeVCT(m map[string]any) models.VCT {
	v := models.VCT{
		VCT:                str(m, "vct"),
		Name:               str(m, "name"),
		Description:        optStr(m, "description"),
		Extends:            optStr(m, "extends"),
		ExtendsIntegrity:   optStr(m, "extends#integrity"),
		SchemaURI:          optStr(m, "schema_uri"),
		SchemaURIIntegrity: optStr(m, "schema_uri#integrity"),
		Display:            []models.Display{},
		Claims:             []models.Claim{},
	}
	for _, d := range objects(m["display"]) {
		v.Display = append(v.Display, decodeDisplay(d))
	}
	for _, c := range objects(m["claims"]) {
		v.Claims = append(v.Claims, decodeClaim(c))
	}
	return v
}

func decodeDisplay(m map[string]any) models.Display {
	d := models.Display{
		Locale:      str(m, "locale"),
		Name:        str(m, "name"),
		Description: optStr(m, "description"),
	}
	if r, ok := m["rendering"].(map[string]any); ok {
		d.Rendering = decodeRendering(r)
	}
	return d
}

func decodeRendering(m map[string]any) *models.Rendering {
	r := &models.Rendering{}
	if s, ok := m["simple"].(map[string]any); ok {
		simple := &models.SimpleRendering{
			BackgroundColor: optStr(s, "background_color"),
			TextColor:       optStr(s, "text_color"),
		}
		if l, ok := s["logo"].(map[string]any); ok {
			simple.Logo = &models.Logo{
				URI:          str(l, "uri"),
				URIIntegrity: optStr(l, "uri#integrity"),
				AltText:      optStr(l, "alt_text"),
			}
		}
		if b, ok := s["background_image"].(map[string]any); ok {
			simple.BackgroundImage = &models.Image{
				URI:          str(b, "uri"),
				URIIntegrity: optStr(b, "uri#integrity"),
			}
		}
		r.Simple = simple
	}
	if _, ok := m["svg_templates"].([]any); ok {
		r.SVGTemplates = []models.SVGTemplate{}
		for _, t := range objects(m["svg_templates"]) {
			r.SVGTemplates = append(r.SVGTemplates, decodeTemplate(t))
		}
	}
	return r
}

func decodeTemplate(m map[string]any) models.SVGTemplate {
	t := models.SVGTemplate{
		URI:          str(m, "uri"),
		URIIntegrity: optStr(m, "uri#integrity"),
	}
	if p, ok := m["properties"].(map[string]any); ok {
		props := &models.SVGTemplateProperties{}
		if v := optStr(p, "orientation"); v != nil {
			props.Orientation = models.Ptr(models.Orientation(*v))
		}
		if v := optStr(p, "color_scheme"); v != nil {
			props.ColorScheme = models.Ptr(models.ColorScheme(*v))
		}
		if v := optStr(p, "contrast"); v != nil {
			props.Contrast = models.Ptr(models.Contrast(*v))
		}
		t.Properties = props
	}
	return t
}

func decodeClaim(m map[string]any) models.Claim {
	c := models.Claim{
		Path:    models.Path{},
		Display: []models.ClaimDisplay{},
		SvgID:   optStr(m, "svg_id"),
	}
	if segs, ok := m["path"].([]any); ok {
		for _, s := range segs {
			switch v := s.(type) {
			case nil:
				c.Path = append(c.Path, models.NullSegment())
			case string:
				c.Path = append(c.Path, models.Segment(v))
			}
		}
	}
	for _, d := range objects(m["display"]) {
		c.Display = append(c.Display, models.ClaimDisplay{
			Locale:      str(d, "locale"),
			Label:       str(d, "label"),
			Description: optStr(d, "description"),
		})
	}
	if v := optStr(m, "sd"); v != nil {
		c.SD = models.Ptr(models.SD(*v))
	}
	if b, ok := m["mandatory"].(bool); ok {
		c.Mandatory = models.Ptr(b)
	}
	return c
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func optStr(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok {
		return nil
	}
	return &s
}
