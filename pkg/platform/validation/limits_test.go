package validation

import (
	"strings"
	"testing"

	dErrors "vctbuilder/pkg/domain-errors"

	"github.com/stretchr/testify/suite"
)

// LimitsSuite pins the boundary behavior of the limit helpers:
// max passes and max+1 fails with a validation code.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckSliceCount() {
	s.Run("passes at max", func() {
		s.NoError(CheckSliceCount("claims", MaxClaims, MaxClaims))
	})

	s.Run("passes at zero", func() {
		s.NoError(CheckSliceCount("claims", 0, MaxClaims))
	})

	s.Run("fails above max", func() {
		err := CheckSliceCount("locales", MaxLocales+1, MaxLocales)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "too many locales")
		s.Contains(err.Error(), "max 64 allowed")
	})
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes at max", func() {
		s.NoError(CheckStringLength("name", strings.Repeat("a", MaxNameLength), MaxNameLength))
	})

	s.Run("fails above max", func() {
		err := CheckStringLength("name", strings.Repeat("a", MaxNameLength+1), MaxNameLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "name exceeds max length of 255")
	})
}

func (s *LimitsSuite) TestCheckOptionalLength() {
	s.NoError(CheckOptionalLength("description", nil, 1))

	long := strings.Repeat("d", 3)
	s.Error(CheckOptionalLength("description", &long, 2))
}

func (s *LimitsSuite) TestCheckEachStringLength() {
	s.Run("passes for nil slice", func() {
		s.NoError(CheckEachStringLength("path segment", nil, 10))
	})

	s.Run("fails on first long element", func() {
		err := CheckEachStringLength("path segment", []string{"credentialSubject", strings.Repeat("x", 11)}, 10)
		s.Require().Error(err)
		s.Contains(err.Error(), "path segment exceeds max length of 10")
	})
}
