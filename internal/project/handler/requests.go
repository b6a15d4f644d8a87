package handler

import (
	"vctbuilder/pkg/platform/validation"
	s "vctbuilder/pkg/string"
)

// SaveRequest names the project being saved. A blank name keeps the current one.
type SaveRequest struct {
	Name string `json:"name"`
}

func (r *SaveRequest) Normalize() {
	s.TrimStrings(&r.Name)
}

func (r *SaveRequest) Validate() error {
	return validation.CheckStringLength("name", r.Name, validation.MaxNameLength)
}
