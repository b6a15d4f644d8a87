// Package locale is the static registry of locales offered by the editor.
package locale

// Locale is a selectable language/region pair.
type Locale struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var registry = []Locale{
	{Code: "en-CA", Name: "English (Canada)"},
	{Code: "fr-CA", Name: "Français (Canada)"},
	{Code: "en-US", Name: "English (US)"},
	{Code: "en-GB", Name: "English (UK)"},
	{Code: "fr-FR", Name: "Français (France)"},
	{Code: "es-ES", Name: "Español (España)"},
	{Code: "es-MX", Name: "Español (México)"},
	{Code: "de-DE", Name: "Deutsch"},
	{Code: "it-IT", Name: "Italiano"},
	{Code: "pt-BR", Name: "Português (Brasil)"},
	{Code: "pt-PT", Name: "Português (Portugal)"},
	{Code: "nl-NL", Name: "Nederlands"},
	{Code: "ja-JP", Name: "日本語"},
	{Code: "zh-CN", Name: "中文 (简体)"},
	{Code: "ko-KR", Name: "한국어"},
	{Code: "ar-SA", Name: "العربية"},
}

var byCode = func() map[string]Locale {
	m := make(map[string]Locale, len(registry))
	for _, l := range registry {
		m[l.Code] = l
	}
	return m
}()

// All returns every registered locale in registry order.
func All() []Locale {
	out := make([]Locale, len(registry))
	copy(out, registry)
	return out
}

func Lookup(code string) (Locale, bool) {
	l, ok := byCode[code]
	return l, ok
}

// Name returns the display name for code, or code itself when unregistered.
func Name(code string) string {
	if l, ok := byCode[code]; ok {
		return l.Name
	}
	return code
}

// Available returns the registered locales not in used, preserving registry order.
func Available(used []string) []Locale {
	skip := make(map[string]struct{}, len(used))
	for _, u := range used {
		skip[u] = struct{}{}
	}
	out := make([]Locale, 0, len(registry))
	for _, l := range registry {
		if _, ok := skip[l.Code]; !ok {
			out = append(out, l)
		}
	}
	return out
}
