package preview

import (
	"testing"

	"vctbuilder/internal/vct/models"
	"vctbuilder/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	doc := testutil.NewDocumentBuilder().
		WithLocales("en-CA", "fr-CA").
		WithLogo("https://example.com/logo.png").
		Build()
	doc.Claims = []models.Claim{
		{
			Path:    models.Path{models.Segment("credentialSubject"), models.NullSegment(), models.Segment("age")},
			Display: []models.ClaimDisplay{{Locale: "en-CA", Label: "Age"}, {Locale: "fr-CA", Label: "Âge"}},
		},
		{
			Path:    models.NewPath("given_name"),
			Display: []models.ClaimDisplay{{Locale: "en-CA", Label: "Given name"}, {Locale: "fr-CA"}},
			SvgID:   models.Ptr("given"),
		},
		models.NewClaim(doc.Locales()),
	}
	sample := models.SampleData{"credentialSubject.age": "42"}

	t.Run("renders the requested locale", func(t *testing.T) {
		card := Render(doc, sample, "fr-CA")

		assert.Equal(t, "fr-CA", card.Locale)
		assert.Equal(t, "https://example.com/logo.png", card.LogoURI)
		assert.Equal(t, models.DefaultBackgroundColor, card.BackgroundColor)
		require.Len(t, card.Rows, 2)
		assert.Equal(t, Row{Key: "credentialSubject.age", Label: "Âge", Value: "42", HasValue: true}, card.Rows[0])
		assert.Equal(t, "given_name", card.Rows[1].Label)
		assert.Equal(t, Placeholder, card.Rows[1].Value)
		assert.Equal(t, "given", card.Rows[1].SvgID)
	})

	t.Run("unknown locale falls back to the first block", func(t *testing.T) {
		card := Render(doc, sample, "de-DE")
		assert.Equal(t, "en-CA", card.Locale)
		assert.Equal(t, "Given name", card.Rows[1].Label)
	})

	t.Run("empty names fall back", func(t *testing.T) {
		bare := models.NewDocument()
		card := Render(bare, nil, "en-CA")
		assert.Equal(t, "Credential Name", card.Name)
		assert.Equal(t, "Credential Type URI", card.Footer)
		assert.Empty(t, card.Rows)
	})
}

func TestSampleKeys(t *testing.T) {
	doc := testutil.NewDocumentBuilder().
		WithClaim("Age", "credentialSubject", "age").
		WithClaim("Age again", "credentialSubject", "", "age").
		WithClaim("", "").
		WithClaim("Name", "name").
		Build()

	assert.Equal(t, []string{"credentialSubject.age", "name"}, SampleKeys(doc))
}
