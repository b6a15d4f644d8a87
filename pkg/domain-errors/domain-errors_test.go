package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite covers the error primitives every service and handler relies on:
// wrapped domain errors keep their original code, and errors.Is matches by code.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorString() {
	s.Run("message wins over code", func() {
		err := &Error{Code: CodeInvariantViolation, Message: "at least one language is required"}
		s.Equal("at least one language is required", err.Error())
	})

	s.Run("falls back to code", func() {
		err := &Error{Code: CodeConflict}
		s.Equal("conflict", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrapAndIs() {
	s.Run("unwraps the cause", func() {
		cause := errors.New("disk full")
		err := &Error{Code: CodeInternal, Message: "persist projects", Err: cause}
		s.Equal(cause, errors.Unwrap(err))
	})

	s.Run("matches by code only", func() {
		a := &Error{Code: CodeNotFound, Message: "project not found"}
		b := &Error{Code: CodeNotFound, Message: "asset not found"}
		s.True(errors.Is(a, b))
		s.False(errors.Is(a, &Error{Code: CodeConflict}))
	})

	s.Run("does not match plain errors", func() {
		s.False((&Error{Code: CodeNotFound}).Is(errors.New("not_found")))
	})

	s.Run("finds code through fmt wrapping", func() {
		inner := New(CodeInvalidInput, "invalid VCT JSON")
		wrapped := fmt.Errorf("import: %w", inner)
		s.True(errors.Is(wrapped, &Error{Code: CodeInvalidInput}))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves original domain code", func() {
		original := New(CodeConflict, "locale en-CA already present")
		wrapped := Wrap(original, CodeInternal, "add display")

		var domainErr *Error
		s.Require().True(errors.As(wrapped, &domainErr))
		s.Equal(CodeConflict, domainErr.Code)
		s.Equal("add display", domainErr.Message)
	})

	s.Run("uses provided code for foreign errors", func() {
		wrapped := Wrap(errors.New("connection reset"), CodeInternal, "save project")
		s.True(HasCode(wrapped, CodeInternal))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.True(HasCode(New(CodeUpstream, "fetch failed"), CodeUpstream))
	s.False(HasCode(New(CodeUpstream, "fetch failed"), CodeTimeout))
	s.False(HasCode(errors.New("plain"), CodeNotFound))
	s.False(HasCode(nil, CodeNotFound))
}

func (s *DomainErrorsSuite) TestNewfAndCodeOf() {
	err := Newf(CodeNotFound, "asset %s not found", "01J0")
	s.Equal("asset 01J0 not found", err.Error())

	code, ok := CodeOf(fmt.Errorf("load: %w", err))
	s.True(ok)
	s.Equal(CodeNotFound, code)

	_, ok = CodeOf(errors.New("plain"))
	s.False(ok)
}
