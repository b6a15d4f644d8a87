package handler

import (
	"github.com/google/uuid"

	"vctbuilder/internal/vct/editor"
	"vctbuilder/internal/vct/locale"
	"vctbuilder/internal/vct/models"
)

// StateResponse is the full editing state.
type StateResponse struct {
	VCT         models.VCT        `json:"vct"`
	SampleData  models.SampleData `json:"sampleData"`
	ProjectID   *uuid.UUID        `json:"projectId,omitempty"`
	ProjectName string            `json:"projectName"`
}

func NewStateResponse(st editor.State) StateResponse {
	res := StateResponse{
		VCT:         st.Doc,
		SampleData:  st.Sample,
		ProjectName: st.ProjectName,
	}
	if st.HasProject() {
		id := st.ProjectID
		res.ProjectID = &id
	}
	if res.SampleData == nil {
		res.SampleData = models.SampleData{}
	}
	return res
}

type IssuesResponse struct {
	Valid  bool           `json:"valid"`
	Issues []models.Issue `json:"issues"`
}

type SampleDataResponse struct {
	Keys   []string          `json:"keys"`
	Values models.SampleData `json:"values"`
}

type IntegrityResponse struct {
	Target    string     `json:"target"`
	URI       string     `json:"uri"`
	Integrity string     `json:"integrity"`
	VCT       models.VCT `json:"vct"`
}

type LocalesResponse struct {
	Locales   []locale.Locale `json:"locales"`
	Available []locale.Locale `json:"available"`
}
