package testutil

import (
	"time"

	"github.com/google/uuid"

	"vctbuilder/internal/vct/models"
)

// TestIDs provides stable project IDs for deterministic test data.
var TestIDs = struct {
	Project1 uuid.UUID
	Project2 uuid.UUID
	Project3 uuid.UUID
}{
	Project1: uuid.MustParse("11111111-1111-1111-1111-111111111111"),
	Project2: uuid.MustParse("22222222-2222-2222-2222-222222222222"),
	Project3: uuid.MustParse("33333333-3333-3333-3333-333333333333"),
}

// FixedTime is a deterministic clock value for timestamps in tests.
var FixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// DocumentBuilder provides a fluent interface for building test documents.
type DocumentBuilder struct {
	doc models.VCT
}

// NewDocumentBuilder starts from the editor's default document with a
// publishable identity.
func NewDocumentBuilder() *DocumentBuilder {
	doc := models.NewDocument()
	doc.VCT = "https://credentials.example.com/identity_credential"
	doc.Name = "Identity Credential"
	doc.Display[0].Name = "Identity Credential"
	doc.Display[1].Name = "Attestation d'identité"
	return &DocumentBuilder{doc: doc}
}

func (b *DocumentBuilder) WithVCT(vct string) *DocumentBuilder {
	b.doc.VCT = vct
	return b
}

func (b *DocumentBuilder) WithName(name string) *DocumentBuilder {
	b.doc.Name = name
	return b
}

func (b *DocumentBuilder) WithDescription(desc string) *DocumentBuilder {
	b.doc.Description = models.Ptr(desc)
	return b
}

// WithLocales replaces the display blocks with default blocks for locales.
func (b *DocumentBuilder) WithLocales(locales ...string) *DocumentBuilder {
	b.doc.Display = make([]models.Display, 0, len(locales))
	for _, l := range locales {
		d := models.NewDisplay(l)
		d.Name = b.doc.Name
		b.doc.Display = append(b.doc.Display, d)
	}
	return b
}

// WithClaim appends a claim at path labelled in every current locale.
// A label of "" leaves the entry empty.
func (b *DocumentBuilder) WithClaim(label string, path ...string) *DocumentBuilder {
	c := models.NewClaim(b.doc.Locales())
	c.Path = models.NewPath(path...)
	for i := range c.Display {
		c.Display[i].Label = label
	}
	b.doc.Claims = append(b.doc.Claims, c)
	return b
}

// WithRawClaim appends c unchanged.
func (b *DocumentBuilder) WithRawClaim(c models.Claim) *DocumentBuilder {
	b.doc.Claims = append(b.doc.Claims, c)
	return b
}

func (b *DocumentBuilder) WithLogo(uri string) *DocumentBuilder {
	for i := range b.doc.Display {
		b.doc.Display[i].Rendering.Simple.Logo = &models.Logo{URI: uri}
	}
	return b
}

func (b *DocumentBuilder) WithSchemaURI(uri, integrity string) *DocumentBuilder {
	b.doc.SchemaURI = models.Ptr(uri)
	if integrity != "" {
		b.doc.SchemaURIIntegrity = models.Ptr(integrity)
	}
	return b
}

func (b *DocumentBuilder) Build() models.VCT {
	return b.doc.Clone()
}
