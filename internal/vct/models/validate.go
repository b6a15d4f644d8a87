package models

import (
	"fmt"
	"slices"

	"vctbuilder/pkg/validation"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding of Validate. Field uses JSON-pointer-like notation,
// e.g. "display[1].rendering.simple.logo.uri".
type Issue struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Validate reports problems that would make the document unpublishable or
// inconsistent. It never modifies the document and never fails.
func Validate(v VCT) []Issue {
	var issues []Issue
	add := func(sev Severity, field, format string, args ...any) {
		issues = append(issues, Issue{Field: field, Message: fmt.Sprintf(format, args...), Severity: sev})
	}
	checkURI := func(field string, value string) {
		if value == "" {
			return
		}
		if err := validation.Var(field, value, "uri"); err != nil {
			add(SeverityError, field, "%s is not a valid URI", field)
		}
	}
	checkColor := func(field string, value *string) {
		if value == nil || *value == "" {
			return
		}
		if err := validation.Var(field, *value, "hexcolor"); err != nil {
			add(SeverityWarning, field, "%s is not a hex color", field)
		}
	}

	if v.VCT == "" {
		add(SeverityError, "vct", "vct is required")
	} else {
		checkURI("vct", v.VCT)
	}
	if v.Name == "" {
		add(SeverityError, "name", "name is required")
	}
	checkURI("extends", Deref(v.Extends))
	checkURI("schema_uri", Deref(v.SchemaURI))

	if len(v.Display) == 0 {
		add(SeverityError, "display", "at least one language is required")
	}
	seen := make(map[string]bool, len(v.Display))
	for i, d := range v.Display {
		field := fmt.Sprintf("display[%d]", i)
		switch {
		case d.Locale == "":
			add(SeverityError, field+".locale", "locale is required")
		case seen[d.Locale]:
			add(SeverityError, field+".locale", "duplicate locale %s", d.Locale)
		}
		seen[d.Locale] = true
		if d.Name == "" {
			add(SeverityWarning, field+".name", "display name is empty for %s", d.Locale)
		}
		if d.Rendering == nil {
			continue
		}
		if s := d.Rendering.Simple; s != nil {
			checkColor(field+".rendering.simple.background_color", s.BackgroundColor)
			checkColor(field+".rendering.simple.text_color", s.TextColor)
			if s.Logo != nil {
				checkURI(field+".rendering.simple.logo.uri", s.Logo.URI)
			}
			if s.BackgroundImage != nil {
				checkURI(field+".rendering.simple.background_image.uri", s.BackgroundImage.URI)
			}
		}
		for j, t := range d.Rendering.SVGTemplates {
			tf := fmt.Sprintf("%s.rendering.svg_templates[%d]", field, j)
			if t.URI == "" {
				add(SeverityError, tf+".uri", "svg template uri is required")
			}
			checkURI(tf+".uri", t.URI)
			if p := t.Properties; p != nil {
				if p.Orientation != nil && !p.Orientation.IsValid() {
					add(SeverityError, tf+".properties.orientation", "orientation must be portrait or landscape")
				}
				if p.ColorScheme != nil && !p.ColorScheme.IsValid() {
					add(SeverityError, tf+".properties.color_scheme", "color_scheme must be light or dark")
				}
				if p.Contrast != nil && !p.Contrast.IsValid() {
					add(SeverityError, tf+".properties.contrast", "contrast must be normal or high")
				}
			}
		}
	}

	locales := v.Locales()
	keys := make(map[string]int, len(v.Claims))
	for i, c := range v.Claims {
		field := fmt.Sprintf("claims[%d]", i)
		key := ClaimKey(c.Path)
		if key == "" {
			add(SeverityWarning, field+".path", "claim has no path and will not be exported")
		} else if prev, dup := keys[key]; dup {
			add(SeverityWarning, field+".path", "path %s duplicates claims[%d]", key, prev)
		} else {
			keys[key] = i
		}
		if c.SD != nil && !c.SD.IsValid() {
			add(SeverityError, field+".sd", "sd must be one of always, allowed, never")
		}
		claimLocales := make([]string, len(c.Display))
		for j, d := range c.Display {
			claimLocales[j] = d.Locale
		}
		if !slices.Equal(claimLocales, locales) {
			add(SeverityWarning, field+".display", "claim labels are out of sync with display locales")
		}
	}
	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
