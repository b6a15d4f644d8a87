package models

// Clone returns a deep copy. Saved projects and session reads hand out clones
// so that later edits never reach a stored snapshot.
func (v VCT) Clone() VCT {
	out := v
	out.Description = clonePtr(v.Description)
	out.Extends = clonePtr(v.Extends)
	out.ExtendsIntegrity = clonePtr(v.ExtendsIntegrity)
	out.SchemaURI = clonePtr(v.SchemaURI)
	out.SchemaURIIntegrity = clonePtr(v.SchemaURIIntegrity)

	out.Display = make([]Display, len(v.Display))
	for i, d := range v.Display {
		out.Display[i] = d.Clone()
	}
	out.Claims = make([]Claim, len(v.Claims))
	for i, c := range v.Claims {
		out.Claims[i] = c.Clone()
	}
	return out
}

func (d Display) Clone() Display {
	out := d
	out.Description = clonePtr(d.Description)
	if d.Rendering != nil {
		r := d.Rendering.Clone()
		out.Rendering = &r
	}
	return out
}

func (r Rendering) Clone() Rendering {
	out := Rendering{}
	if r.Simple != nil {
		s := *r.Simple
		s.BackgroundColor = clonePtr(r.Simple.BackgroundColor)
		s.TextColor = clonePtr(r.Simple.TextColor)
		if r.Simple.Logo != nil {
			l := *r.Simple.Logo
			l.URIIntegrity = clonePtr(l.URIIntegrity)
			l.AltText = clonePtr(l.AltText)
			s.Logo = &l
		}
		if r.Simple.BackgroundImage != nil {
			img := *r.Simple.BackgroundImage
			img.URIIntegrity = clonePtr(img.URIIntegrity)
			s.BackgroundImage = &img
		}
		out.Simple = &s
	}
	if r.SVGTemplates != nil {
		out.SVGTemplates = make([]SVGTemplate, len(r.SVGTemplates))
		for i, t := range r.SVGTemplates {
			t.URIIntegrity = clonePtr(t.URIIntegrity)
			if t.Properties != nil {
				p := SVGTemplateProperties{
					Orientation: clonePtr(t.Properties.Orientation),
					ColorScheme: clonePtr(t.Properties.ColorScheme),
					Contrast:    clonePtr(t.Properties.Contrast),
				}
				t.Properties = &p
			}
			out.SVGTemplates[i] = t
		}
	}
	return out
}

func (c Claim) Clone() Claim {
	out := c
	out.Path = append(Path(nil), c.Path...)
	if out.Path == nil {
		out.Path = Path{}
	}
	out.Display = make([]ClaimDisplay, len(c.Display))
	for i, d := range c.Display {
		d.Description = clonePtr(d.Description)
		out.Display[i] = d
	}
	out.SD = clonePtr(c.SD)
	out.Mandatory = clonePtr(c.Mandatory)
	out.SvgID = clonePtr(c.SvgID)
	return out
}

// Clone copies the map; a nil receiver yields an empty map.
func (s SampleData) Clone() SampleData {
	out := make(SampleData, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
