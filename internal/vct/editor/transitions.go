// Package editor implements the document mutation API. Transitions are pure:
// they take a document and return a new one, leaving the input untouched, and
// on error the caller keeps its current document.
package editor

import (
	"slices"
	"strings"

	"vctbuilder/internal/vct/models"
	dErrors "vctbuilder/pkg/domain-errors"
)

// Transition is one atomic edit of a document.
type Transition func(models.VCT) (models.VCT, error)

// Chain applies transitions in order and fails on the first error.
func Chain(ts ...Transition) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		var err error
		for _, t := range ts {
			if doc, err = t(doc); err != nil {
				return models.VCT{}, err
			}
		}
		return doc, nil
	}
}

// AddDisplay appends a block for locale and gives every claim lacking that
// locale an empty label entry.
func AddDisplay(locale string) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		loc := strings.TrimSpace(locale)
		if loc == "" {
			return models.VCT{}, dErrors.New(dErrors.CodeValidation, "locale is required")
		}
		if doc.DisplayIndex(loc) >= 0 {
			return models.VCT{}, dErrors.Newf(dErrors.CodeConflict, "locale %s is already present", loc)
		}
		out := doc.Clone()
		out.Display = append(out.Display, models.NewDisplay(loc))
		addClaimLocale(&out, loc)
		return out, nil
	}
}

// addClaimLocale gives every claim lacking locale an empty label entry.
func addClaimLocale(doc *models.VCT, locale string) {
	for i := range doc.Claims {
		if _, ok := doc.Claims[i].DisplayFor(locale); !ok {
			doc.Claims[i].Display = append(doc.Claims[i].Display, models.ClaimDisplay{Locale: locale})
		}
	}
}

// DisplayPatch replaces the non-nil fields of a display block.
type DisplayPatch struct {
	Locale      *string
	Name        *string
	Description *string
	Rendering   *models.Rendering
}

// UpdateDisplay merges patch into the block at index. A locale change is
// carried into every claim's matching label entry unless another block still
// uses the old locale.
func UpdateDisplay(index int, patch DisplayPatch) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		if err := checkIndex("display", index, len(doc.Display)); err != nil {
			return models.VCT{}, err
		}
		out := doc.Clone()
		d := &out.Display[index]
		if patch.Locale != nil && *patch.Locale != d.Locale {
			next := strings.TrimSpace(*patch.Locale)
			if next == "" {
				return models.VCT{}, dErrors.New(dErrors.CodeValidation, "locale is required")
			}
			if doc.DisplayIndex(next) >= 0 {
				return models.VCT{}, dErrors.Newf(dErrors.CodeConflict, "locale %s is already present", next)
			}
			prev := d.Locale
			d.Locale = next
			if out.DisplayIndex(prev) >= 0 {
				// Another block still uses prev; its labels stay.
				addClaimLocale(&out, next)
			} else {
				for ci := range out.Claims {
					for di := range out.Claims[ci].Display {
						if out.Claims[ci].Display[di].Locale == prev {
							out.Claims[ci].Display[di].Locale = next
						}
					}
				}
			}
		}
		if patch.Name != nil {
			d.Name = *patch.Name
		}
		if patch.Description != nil {
			d.Description = models.Ptr(*patch.Description)
		}
		if patch.Rendering != nil {
			r := patch.Rendering.Clone()
			d.Rendering = &r
		}
		return out, nil
	}
}

// RemoveDisplay drops the block at index and, when no other block shares its
// locale, the matching claim labels. The last remaining block cannot be
// removed.
func RemoveDisplay(index int) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		if err := checkIndex("display", index, len(doc.Display)); err != nil {
			return models.VCT{}, err
		}
		if len(doc.Display) <= 1 {
			return models.VCT{}, dErrors.New(dErrors.CodeInvariantViolation, "at least one language is required")
		}
		out := doc.Clone()
		removed := out.Display[index].Locale
		out.Display = slices.Delete(out.Display, index, index+1)
		if out.DisplayIndex(removed) >= 0 {
			return out, nil
		}
		for ci := range out.Claims {
			out.Claims[ci].Display = slices.DeleteFunc(out.Claims[ci].Display, func(d models.ClaimDisplay) bool {
				return d.Locale == removed
			})
		}
		return out, nil
	}
}

// AddClaim appends a claim with an empty path and one empty label per
// document locale, in document order.
func AddClaim() Transition {
	return func(doc models.VCT) (models.VCT, error) {
		out := doc.Clone()
		out.Claims = append(out.Claims, models.NewClaim(doc.Locales()))
		return out, nil
	}
}

// ClaimPatch replaces the non-nil fields of a claim.
type ClaimPatch struct {
	Path      *models.Path
	Display   *[]models.ClaimDisplay
	SD        *models.SD
	Mandatory *bool
	SvgID     *string
}

// UpdateClaim merges patch into the claim at index. Label locales are taken
// as given; run SyncClaimLocales to realign them.
func UpdateClaim(index int, patch ClaimPatch) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		if err := checkIndex("claim", index, len(doc.Claims)); err != nil {
			return models.VCT{}, err
		}
		out := doc.Clone()
		c := &out.Claims[index]
		if patch.Path != nil {
			c.Path = append(models.Path{}, (*patch.Path)...)
		}
		if patch.Display != nil {
			c.Display = models.Claim{Display: *patch.Display}.Clone().Display
		}
		if patch.SD != nil {
			c.SD = models.Ptr(*patch.SD)
		}
		if patch.Mandatory != nil {
			c.Mandatory = models.Ptr(*patch.Mandatory)
		}
		if patch.SvgID != nil {
			c.SvgID = models.Ptr(*patch.SvgID)
		}
		return out, nil
	}
}

func RemoveClaim(index int) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		if err := checkIndex("claim", index, len(doc.Claims)); err != nil {
			return models.VCT{}, err
		}
		out := doc.Clone()
		out.Claims = slices.Delete(out.Claims, index, index+1)
		return out, nil
	}
}

// SyncClaimLocales realigns every claim's labels with the display locales:
// unknown locales are dropped, missing ones added empty, and entries ordered
// as the display blocks. Applying it twice changes nothing.
func SyncClaimLocales() Transition {
	return func(doc models.VCT) (models.VCT, error) {
		out := doc.Clone()
		locales := doc.Locales()
		for ci := range out.Claims {
			existing := out.Claims[ci].Display
			synced := make([]models.ClaimDisplay, 0, len(locales))
			for _, l := range locales {
				entry := models.ClaimDisplay{Locale: l}
				if i := slices.IndexFunc(existing, func(d models.ClaimDisplay) bool { return d.Locale == l }); i >= 0 {
					entry = existing[i]
				}
				synced = append(synced, entry)
			}
			out.Claims[ci].Display = synced
		}
		return out, nil
	}
}

// SetPathSegment replaces one segment of a claim path.
func SetPathSegment(claim, segment int, value models.PathSegment) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		if err := checkIndex("claim", claim, len(doc.Claims)); err != nil {
			return models.VCT{}, err
		}
		if err := checkIndex("path segment", segment, len(doc.Claims[claim].Path)); err != nil {
			return models.VCT{}, err
		}
		out := doc.Clone()
		out.Claims[claim].Path[segment] = value
		return out, nil
	}
}

// AddPathSegment appends an empty segment to a claim path.
func AddPathSegment(claim int) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		if err := checkIndex("claim", claim, len(doc.Claims)); err != nil {
			return models.VCT{}, err
		}
		out := doc.Clone()
		out.Claims[claim].Path = append(out.Claims[claim].Path, models.Segment(""))
		return out, nil
	}
}

// RemovePathSegment drops one segment. A path never becomes empty: removing
// the last segment leaves a single empty one.
func RemovePathSegment(claim, segment int) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		if err := checkIndex("claim", claim, len(doc.Claims)); err != nil {
			return models.VCT{}, err
		}
		if err := checkIndex("path segment", segment, len(doc.Claims[claim].Path)); err != nil {
			return models.VCT{}, err
		}
		out := doc.Clone()
		p := slices.Delete(out.Claims[claim].Path, segment, segment+1)
		if len(p) == 0 {
			p = models.Path{models.Segment("")}
		}
		out.Claims[claim].Path = p
		return out, nil
	}
}

// SetClaimDisplay sets the label and description of a claim for locale,
// adding the entry when missing. Locale must be one of the document's.
func SetClaimDisplay(claim int, locale, label string, description *string) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		if err := checkIndex("claim", claim, len(doc.Claims)); err != nil {
			return models.VCT{}, err
		}
		if doc.DisplayIndex(locale) < 0 {
			return models.VCT{}, dErrors.Newf(dErrors.CodeNotFound, "locale %s is not a display locale", locale)
		}
		out := doc.Clone()
		c := &out.Claims[claim]
		entry := models.ClaimDisplay{Locale: locale, Label: label}
		if description != nil {
			entry.Description = models.Ptr(*description)
		}
		if i := slices.IndexFunc(c.Display, func(d models.ClaimDisplay) bool { return d.Locale == locale }); i >= 0 {
			c.Display[i] = entry
		} else {
			c.Display = append(c.Display, entry)
		}
		return out, nil
	}
}

// FieldsPatch replaces the non-nil top-level identity fields.
type FieldsPatch struct {
	VCT                *string
	Name               *string
	Description        *string
	Extends            *string
	ExtendsIntegrity   *string
	SchemaURI          *string
	SchemaURIIntegrity *string
}

func UpdateFields(patch FieldsPatch) Transition {
	return func(doc models.VCT) (models.VCT, error) {
		out := doc.Clone()
		if patch.VCT != nil {
			out.VCT = *patch.VCT
		}
		if patch.Name != nil {
			out.Name = *patch.Name
		}
		setOpt(&out.Description, patch.Description)
		setOpt(&out.Extends, patch.Extends)
		setOpt(&out.ExtendsIntegrity, patch.ExtendsIntegrity)
		setOpt(&out.SchemaURI, patch.SchemaURI)
		setOpt(&out.SchemaURIIntegrity, patch.SchemaURIIntegrity)
		return out, nil
	}
}

func setOpt(dst **string, v *string) {
	if v != nil {
		*dst = models.Ptr(*v)
	}
}

func checkIndex(what string, index, n int) error {
	if index < 0 || index >= n {
		return dErrors.Newf(dErrors.CodeNotFound, "%s %d not found", what, index)
	}
	return nil
}
