package normalize

// Rule is one named migration over the loose tree. Apply reports whether it
// changed anything.
type Rule struct {
	Name  string
	Apply func(tree map[string]any) bool
}

// Rules run in order. Everything they do not touch passes through.
var Rules = []Rule{
	{Name: "display-lang-to-locale", Apply: displayLangToLocale},
	{Name: "svg-template-to-templates", Apply: svgTemplateToTemplates},
	{Name: "claim-display-lang-to-locale", Apply: claimDisplayLangToLocale},
}

func displayLangToLocale(tree map[string]any) bool {
	changed := false
	for _, d := range objects(tree["display"]) {
		changed = langToLocale(d) || changed
	}
	return changed
}

func claimDisplayLangToLocale(tree map[string]any) bool {
	changed := false
	for _, c := range objects(tree["claims"]) {
		for _, d := range objects(c["display"]) {
			changed = langToLocale(d) || changed
		}
	}
	return changed
}

func langToLocale(entry map[string]any) bool {
	lang, ok := entry["lang"].(string)
	if !ok {
		return false
	}
	if _, has := entry["locale"]; has {
		return false
	}
	entry["locale"] = lang
	delete(entry, "lang")
	return true
}

func svgTemplateToTemplates(tree map[string]any) bool {
	changed := false
	for _, d := range objects(tree["display"]) {
		rendering, ok := d["rendering"].(map[string]any)
		if !ok {
			continue
		}
		legacy, ok := rendering["svg_template"].(map[string]any)
		if !ok {
			continue
		}
		if _, has := rendering["svg_templates"]; has {
			continue
		}
		if uri, _ := legacy["uri"].(string); uri == "" {
			continue
		}
		tmpl := map[string]any{"uri": legacy["uri"]}
		for _, key := range []string{"uri#integrity", "properties"} {
			if v, ok := legacy[key]; ok {
				tmpl[key] = v
			}
		}
		rendering["svg_templates"] = []any{tmpl}
		delete(rendering, "svg_template")
		changed = true
	}
	return changed
}

// objects returns the object elements of v when v is an array.
func objects(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
