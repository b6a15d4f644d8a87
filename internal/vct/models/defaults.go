package models

// NewDocument returns the editor's starting document: empty identity fields and
// one display block per default locale.
func NewDocument() VCT {
	v := VCT{
		Display: make([]Display, 0, len(DefaultLocales)),
		Claims:  []Claim{},
	}
	for _, locale := range DefaultLocales {
		v.Display = append(v.Display, NewDisplay(locale))
	}
	return v
}

// NewDisplay returns a block for locale with the default simple colors.
func NewDisplay(locale string) Display {
	return Display{
		Locale: locale,
		Rendering: &Rendering{
			Simple: &SimpleRendering{
				BackgroundColor: Ptr(DefaultBackgroundColor),
				TextColor:       Ptr(DefaultTextColor),
			},
		},
	}
}

// NewClaim returns a claim with a single empty path segment and one empty
// label per locale, in the given order.
func NewClaim(locales []string) Claim {
	c := Claim{
		Path:    Path{Segment("")},
		Display: make([]ClaimDisplay, len(locales)),
	}
	for i, l := range locales {
		c.Display[i] = ClaimDisplay{Locale: l}
	}
	return c
}
