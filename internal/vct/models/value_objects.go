package models

// SD is the selective-disclosure policy of a claim.
type SD string

const (
	SDAlways  SD = "always"
	SDAllowed SD = "allowed"
	SDNever   SD = "never"
)

func (s SD) IsValid() bool {
	switch s {
	case SDAlways, SDAllowed, SDNever:
		return true
	}
	return false
}

type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}

type ColorScheme string

const (
	ColorSchemeLight ColorScheme = "light"
	ColorSchemeDark  ColorScheme = "dark"
)

func (c ColorScheme) IsValid() bool {
	return c == ColorSchemeLight || c == ColorSchemeDark
}

type Contrast string

const (
	ContrastNormal Contrast = "normal"
	ContrastHigh   Contrast = "high"
)

func (c Contrast) IsValid() bool {
	return c == ContrastNormal || c == ContrastHigh
}

// Default simple-rendering colors for new display blocks.
const (
	DefaultBackgroundColor = "#1E3A5F"
	DefaultTextColor       = "#FFFFFF"
)

// Default project names.
const (
	UntitledName = "Untitled"
	ImportedName = "Imported"
)

// DefaultLocales seed a fresh document.
var DefaultLocales = []string{"en-CA", "fr-CA"}
