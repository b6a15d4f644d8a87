package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashBytes(t *testing.T) {
	// echo -n "hello" | openssl dgst -sha256 -binary | base64
	assert.Equal(t, "sha256-LPJNul+wow4m6DsqxbninhsWHlwfp0JecwQzYpOLmCQ=", HashBytes([]byte("hello")))
	assert.Equal(t, "sha256-47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=", HashBytes(nil))
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("sha256-abc", "sha256-abc"))
	assert.True(t, Matches("sha384-xyz  sha256-abc", "sha256-abc"))
	assert.False(t, Matches("sha256-abd", "sha256-abc"))
	assert.False(t, Matches("", "sha256-abc"))
}

func TestNewReport(t *testing.T) {
	assert.True(t, NewReport(nil).Valid)
	assert.NotNil(t, NewReport(nil).Results)

	ok := NewReport([]Verification{{Status: StatusMatch}, {Status: StatusUnpinned}})
	assert.True(t, ok.Valid)

	bad := NewReport([]Verification{{Status: StatusMatch}, {Status: StatusMismatch}})
	assert.False(t, bad.Valid)

	failed := NewReport([]Verification{{Status: StatusError}})
	assert.False(t, failed.Valid)
}
