package canonical

import (
	"encoding/json"
	"testing"

	"vctbuilder/internal/vct/models"
	"vctbuilder/internal/vct/normalize"
	"vctbuilder/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeMinimality(t *testing.T) {
	doc := testutil.NewDocumentBuilder().
		WithLocales("en-CA").
		WithClaim("Age", "age").
		WithClaim("Name", "name").
		Build()
	doc.Claims[0].SD = models.Ptr(models.SDAllowed)
	doc.Claims[1].SD = models.Ptr(models.SDAlways)
	doc.Claims[1].Mandatory = models.Ptr(false)

	out := Canonicalize(doc)

	require.Len(t, out.Claims, 2)
	raw, err := json.Marshal(out.Claims[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"sd"`)
	assert.NotContains(t, string(raw), `"mandatory"`)

	raw, err = json.Marshal(out.Claims[1])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sd":"always"`)
	assert.NotContains(t, string(raw), `"mandatory"`)
}

func TestCanonicalizeFiltering(t *testing.T) {
	doc := testutil.NewDocumentBuilder().WithLocales("en-CA", "fr-CA").Build()
	doc.Description = models.Ptr("")
	doc.Extends = models.Ptr("")
	doc.ExtendsIntegrity = models.Ptr("sha256-orphan")
	doc.Display[0].Rendering.Simple.Logo = &models.Logo{URI: "", AltText: models.Ptr("logo")}
	doc.Display[1].Rendering = &models.Rendering{Simple: &models.SimpleRendering{}}
	doc.Claims = []models.Claim{
		{Path: models.Path{models.Segment(""), models.NullSegment()}, Display: []models.ClaimDisplay{{Locale: "en-CA", Label: "Ghost"}}},
		{
			Path: models.Path{models.Segment("credentialSubject"), models.NullSegment(), models.Segment(""), models.Segment("age")},
			Display: []models.ClaimDisplay{
				{Locale: "en-CA", Label: "Age", Description: models.Ptr("")},
				{Locale: "fr-CA", Label: ""},
			},
		},
	}

	out := Canonicalize(doc)

	assert.Empty(t, out.Description)
	assert.Empty(t, out.Extends)
	assert.Empty(t, out.ExtendsIntegrity)
	assert.Nil(t, out.Display[0].Rendering.Simple.Logo)
	assert.Nil(t, out.Display[1].Rendering)

	require.Len(t, out.Claims, 1)
	assert.Equal(t, []string{"credentialSubject", "age"}, out.Claims[0].Path)
	assert.Equal(t, []ClaimDisplay{{Locale: "en-CA", Label: "Age"}}, out.Claims[0].Display)
}

func TestCanonicalizeOmitsEmptyClaims(t *testing.T) {
	doc := testutil.NewDocumentBuilder().Build()
	doc.Claims = []models.Claim{models.NewClaim(doc.Locales())}

	raw, err := Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"claims"`)
}

func TestCanonicalKeyOrder(t *testing.T) {
	doc := testutil.NewDocumentBuilder().
		WithLocales("en-CA").
		WithDescription("Proof of identity").
		WithSchemaURI("https://example.com/schema.json", "sha256-abc").
		WithClaim("Age", "age").
		Build()
	doc.Claims[0].SD = models.Ptr(models.SDNever)
	doc.Claims[0].Mandatory = models.Ptr(true)
	doc.Claims[0].SvgID = models.Ptr("age")

	raw, err := Marshal(doc)
	require.NoError(t, err)

	want := `{"vct":"https://credentials.example.com/identity_credential","name":"Identity Credential",` +
		`"description":"Proof of identity","schema_uri":"https://example.com/schema.json","schema_uri#integrity":"sha256-abc",` +
		`"display":[{"locale":"en-CA","name":"Identity Credential","rendering":{"simple":{"background_color":"#1E3A5F","text_color":"#FFFFFF"}}}],` +
		`"claims":[{"path":["age"],"display":[{"locale":"en-CA","label":"Age"}],"sd":"never","mandatory":true,"svg_id":"age"}]}`
	assert.Equal(t, want, string(raw))
}

func TestMarshalDoesNotEscapeURIs(t *testing.T) {
	doc := testutil.NewDocumentBuilder().WithVCT("https://example.com/vct?a=1&b=2").Build()

	raw, err := MarshalIndent(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"vct": "https://example.com/vct?a=1&b=2"`)
}

func TestRoundTripIdempotence(t *testing.T) {
	docs := map[string]models.VCT{
		"default":   models.NewDocument(),
		"populated": testutil.NewDocumentBuilder().WithClaim("Age", "age").WithLogo("https://example.com/logo.png").Build(),
	}
	templated := testutil.NewDocumentBuilder().Build()
	templated.Display[0].Rendering.SVGTemplates = []models.SVGTemplate{
		{URI: "https://example.com/a.svg", Properties: &models.SVGTemplateProperties{ColorScheme: models.Ptr(models.ColorSchemeDark)}},
		{URI: "https://example.com/b.svg", URIIntegrity: models.Ptr("sha256-b"), Properties: &models.SVGTemplateProperties{}},
	}
	templated.Claims = []models.Claim{{
		Path:    models.Path{models.Segment("a"), models.NullSegment(), models.Segment("b")},
		Display: []models.ClaimDisplay{{Locale: "fr-CA", Label: "B", Description: models.Ptr("desc")}},
		SD:      models.Ptr(models.SDAlways),
	}}
	docs["templated"] = templated

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			first, err := Marshal(doc)
			require.NoError(t, err)

			res, err := normalize.NormalizeJSON(first)
			require.NoError(t, err)

			second, err := Marshal(res.VCT)
			require.NoError(t, err)
			assert.JSONEq(t, string(first), string(second))
		})
	}
}

func TestClaimKeyConsistency(t *testing.T) {
	doc := testutil.NewDocumentBuilder().Build()
	doc.Claims = []models.Claim{{
		Path:    models.Path{models.Segment("credentialSubject"), models.NullSegment(), models.Segment("age")},
		Display: []models.ClaimDisplay{{Locale: "en-CA", Label: "Age"}},
	}}

	out := Canonicalize(doc)
	require.Len(t, out.Claims, 1)
	assert.Equal(t, "credentialSubject.age", models.ClaimKey(doc.Claims[0].Path))
	assert.Equal(t, []string{"credentialSubject", "age"}, out.Claims[0].Path)
}
