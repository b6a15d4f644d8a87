package string

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"BackgroundColor": "background_color",
		"SvgID":           "svg_id",
		"SchemaURI":       "schema_uri",
		"name":            "name",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToSnakeCase(in), in)
	}
}

func TestTrimHelpers(t *testing.T) {
	a, b := "  en-CA ", "\tBadge\n"
	TrimStrings(&a, &b, nil)
	assert.Equal(t, "en-CA", a)
	assert.Equal(t, "Badge", b)

	assert.Nil(t, TrimPtr(nil))
	v := " x "
	assert.Equal(t, "x", *TrimPtr(&v))
}
