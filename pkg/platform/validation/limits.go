package validation

import dErrors "vctbuilder/pkg/domain-errors"

// HTTP body limits
const (
	// MaxBodySize bounds JSON request bodies on the editor API (1 MB).
	// Imported documents with many claims and inline templates fit well below it.
	MaxBodySize = 1 << 20

	// MaxUploadSize bounds a single asset upload (5 MB).
	MaxUploadSize = 5 << 20
)

// Document shape limits
const (
	// MaxLocales is the maximum number of display blocks in one document.
	MaxLocales = 64

	// MaxClaims is the maximum number of claims in one document.
	MaxClaims = 512

	// MaxPathSegments is the maximum depth of a claim path.
	MaxPathSegments = 32

	// MaxSampleEntries is the maximum number of sample data values.
	MaxSampleEntries = 1024
)

// String element length limits
const (
	MaxNameLength        = 255
	MaxLocaleLength      = 35
	MaxURILength         = 2048
	MaxDescriptionLength = 4096
	MaxSampleValueLength = 1024
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.Newf(dErrors.CodeValidation, "too many %s: max %d allowed", fieldName, max)
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.Newf(dErrors.CodeValidation, "%s exceeds max length of %d", fieldName, max)
	}
	return nil
}

// CheckOptionalLength is CheckStringLength for pointer fields; nil always passes.
func CheckOptionalLength(fieldName string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return CheckStringLength(fieldName, *value, max)
}

// CheckEachStringLength validates that each string in a slice does not exceed the maximum length.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for _, v := range values {
		if len(v) > max {
			return dErrors.Newf(dErrors.CodeValidation, "%s exceeds max length of %d", fieldName, max)
		}
	}
	return nil
}
