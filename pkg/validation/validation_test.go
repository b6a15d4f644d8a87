package validation

import (
	"testing"

	dErrors "vctbuilder/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type displayInput struct {
	Locale          string `validate:"required,locale"`
	Name            string `validate:"notblank"`
	BackgroundColor string `validate:"omitempty,hexcolor"`
	Sd              string `validate:"omitempty,oneof=always allowed never"`
}

func TestValidate(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		require.NoError(t, Validate(displayInput{Locale: "en-CA", Name: "Badge", BackgroundColor: "#1E3A5F", Sd: "always"}))
	})

	cases := []struct {
		name  string
		input displayInput
		msg   string
	}{
		{"missing locale", displayInput{Name: "x"}, "locale is required"},
		{"malformed locale", displayInput{Locale: "english!", Name: "x"}, "locale must be a locale code"},
		{"blank name", displayInput{Locale: "en", Name: "  "}, "name must not be blank"},
		{"bad color", displayInput{Locale: "en", Name: "x", BackgroundColor: "navy"}, "background_color must be a hex color"},
		{"bad sd", displayInput{Locale: "en", Name: "x", Sd: "sometimes"}, "sd must be one of [always allowed never]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("url", "https://example.com/logo.png", "required,url"))

	err := Var("url", "not a url", "required,url")
	require.Error(t, err)
	assert.Equal(t, "url must be a valid url", err.Error())
}
