package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	vct "vctbuilder/internal/vct/models"
	"vctbuilder/internal/vct/normalize"
)

// Project is a named snapshot of a document and its sample data.
type Project struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	VCT        vct.VCT        `json:"vct"`
	SampleData vct.SampleData `json:"sampleData"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// UnmarshalJSON runs the stored document through the normalizer so projects
// written under an older document schema decode without losing fields.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	var raw struct {
		*plain
		VCT json.RawMessage `json:"vct"`
	}
	raw.plain = (*plain)(p)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	doc, err := DecodeDocument(raw.VCT)
	if err != nil {
		return err
	}
	p.VCT = doc
	return nil
}

// DecodeDocument turns stored document JSON into a normalized document. A
// missing or non-object document decodes to an empty one.
func DecodeDocument(data []byte) (vct.VCT, error) {
	if len(data) == 0 {
		return normalize.Normalize(nil).VCT, nil
	}
	res, err := normalize.NormalizeJSON(data)
	if errors.Is(err, normalize.ErrNotObject) {
		return normalize.Normalize(nil).VCT, nil
	}
	if err != nil {
		return vct.VCT{}, err
	}
	return res.VCT, nil
}

// Clone returns a copy sharing no mutable state with p.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	out.VCT = p.VCT.Clone()
	out.SampleData = p.SampleData.Clone()
	return &out
}

// Summary is the listing view of a project.
type Summary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	VCT       string    `json:"vct"`
	Locales   []string  `json:"locales"`
	Claims    int       `json:"claims"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Project) Summary() Summary {
	return Summary{
		ID:        p.ID,
		Name:      p.Name,
		VCT:       p.VCT.VCT,
		Locales:   p.VCT.Locales(),
		Claims:    len(p.VCT.Claims),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
