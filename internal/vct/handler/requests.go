package handler

import (
	"strings"

	"vctbuilder/internal/vct/editor"
	"vctbuilder/internal/vct/models"
	dErrors "vctbuilder/pkg/domain-errors"
	"vctbuilder/pkg/platform/validation"
	s "vctbuilder/pkg/string"
	v "vctbuilder/pkg/validation"
)

// FieldsRequest patches the top-level identity fields. Absent keys are left alone.
type FieldsRequest struct {
	VCT                *string `json:"vct"`
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	Extends            *string `json:"extends"`
	ExtendsIntegrity   *string `json:"extends#integrity"`
	SchemaURI          *string `json:"schema_uri"`
	SchemaURIIntegrity *string `json:"schema_uri#integrity"`
}

func (r *FieldsRequest) Normalize() {
	r.VCT = s.TrimPtr(r.VCT)
	r.Extends = s.TrimPtr(r.Extends)
	r.SchemaURI = s.TrimPtr(r.SchemaURI)
}

func (r *FieldsRequest) Validate() error {
	checks := []error{
		validation.CheckOptionalLength("vct", r.VCT, validation.MaxURILength),
		validation.CheckOptionalLength("name", r.Name, validation.MaxNameLength),
		validation.CheckOptionalLength("description", r.Description, validation.MaxDescriptionLength),
		validation.CheckOptionalLength("extends", r.Extends, validation.MaxURILength),
		validation.CheckOptionalLength("schema_uri", r.SchemaURI, validation.MaxURILength),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *FieldsRequest) Patch() editor.FieldsPatch {
	return editor.FieldsPatch{
		VCT:                r.VCT,
		Name:               r.Name,
		Description:        r.Description,
		Extends:            r.Extends,
		ExtendsIntegrity:   r.ExtendsIntegrity,
		SchemaURI:          r.SchemaURI,
		SchemaURIIntegrity: r.SchemaURIIntegrity,
	}
}

type AddDisplayRequest struct {
	Locale string `json:"locale" validate:"required,locale,max=35"`
}

func (r *AddDisplayRequest) Normalize() {
	r.Locale = strings.TrimSpace(r.Locale)
}

func (r *AddDisplayRequest) Validate() error {
	return v.Validate(r)
}

type DisplayPatchRequest struct {
	Locale      *string           `json:"locale" validate:"omitempty,locale,max=35"`
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Rendering   *models.Rendering `json:"rendering"`
}

func (r *DisplayPatchRequest) Normalize() {
	r.Locale = s.TrimPtr(r.Locale)
}

func (r *DisplayPatchRequest) Validate() error {
	if err := v.Validate(r); err != nil {
		return err
	}
	if err := validation.CheckOptionalLength("name", r.Name, validation.MaxNameLength); err != nil {
		return err
	}
	return validation.CheckOptionalLength("description", r.Description, validation.MaxDescriptionLength)
}

func (r *DisplayPatchRequest) Patch() editor.DisplayPatch {
	return editor.DisplayPatch{
		Locale:      r.Locale,
		Name:        r.Name,
		Description: r.Description,
		Rendering:   r.Rendering,
	}
}

type ClaimPatchRequest struct {
	Path      *models.Path           `json:"path"`
	Display   *[]models.ClaimDisplay `json:"display"`
	SD        *models.SD             `json:"sd"`
	Mandatory *bool                  `json:"mandatory"`
	SvgID     *string                `json:"svg_id"`
}

func (r *ClaimPatchRequest) Validate() error {
	if r.SD != nil && !r.SD.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "sd must be one of [always allowed never]")
	}
	if r.Path != nil {
		if len(*r.Path) == 0 {
			return dErrors.New(dErrors.CodeValidation, "path must have at least one segment")
		}
		if err := validation.CheckSliceCount("path segments", len(*r.Path), validation.MaxPathSegments); err != nil {
			return err
		}
	}
	if r.Display != nil {
		return validation.CheckSliceCount("claim display entries", len(*r.Display), validation.MaxLocales)
	}
	return nil
}

func (r *ClaimPatchRequest) Patch() editor.ClaimPatch {
	return editor.ClaimPatch{
		Path:      r.Path,
		Display:   r.Display,
		SD:        r.SD,
		Mandatory: r.Mandatory,
		SvgID:     r.SvgID,
	}
}

// PathSegmentRequest sets one segment; Null stores an explicit null segment.
type PathSegmentRequest struct {
	Value string `json:"value"`
	Null  bool   `json:"null"`
}

func (r *PathSegmentRequest) Validate() error {
	return validation.CheckStringLength("value", r.Value, validation.MaxNameLength)
}

func (r *PathSegmentRequest) Segment() models.PathSegment {
	if r.Null {
		return models.NullSegment()
	}
	return models.Segment(r.Value)
}

type ClaimDisplayRequest struct {
	Label       string  `json:"label"`
	Description *string `json:"description"`
}

func (r *ClaimDisplayRequest) Validate() error {
	if err := validation.CheckStringLength("label", r.Label, validation.MaxNameLength); err != nil {
		return err
	}
	return validation.CheckOptionalLength("description", r.Description, validation.MaxDescriptionLength)
}

type SampleValueRequest struct {
	Key   string `json:"key" validate:"required,notblank"`
	Value string `json:"value"`
}

func (r *SampleValueRequest) Normalize() {
	r.Key = strings.TrimSpace(r.Key)
}

func (r *SampleValueRequest) Validate() error {
	if err := v.Validate(r); err != nil {
		return err
	}
	return validation.CheckStringLength("value", r.Value, validation.MaxSampleValueLength)
}

type SampleDataRequest struct {
	Values map[string]string `json:"values"`
}

func (r *SampleDataRequest) Validate() error {
	if err := validation.CheckSliceCount("sample values", len(r.Values), validation.MaxSampleEntries); err != nil {
		return err
	}
	for k, val := range r.Values {
		if strings.TrimSpace(k) == "" {
			return dErrors.New(dErrors.CodeValidation, "sample keys must not be blank")
		}
		if err := validation.CheckStringLength("value", val, validation.MaxSampleValueLength); err != nil {
			return err
		}
	}
	return nil
}

type IntegrityRequest struct {
	Target editor.Target `json:"target"`
}

func (r *IntegrityRequest) Validate() error {
	if !r.Target.Kind.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "target.kind must be one of [extends schema_uri logo background_image svg_template]")
	}
	return nil
}
