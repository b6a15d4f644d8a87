// Package models holds the result types of the fetch-and-hash service.
package models

import (
	"crypto/sha256"
	"encoding/base64"
	"slices"
	"strings"
)

// SRIPrefix marks a Subresource Integrity value computed with SHA-256.
const SRIPrefix = "sha256-"

// HashResult describes one fetched and hashed resource.
type HashResult struct {
	URL         string `json:"url"`
	Hash        string `json:"hash"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// SRI formats a SHA-256 digest as an integrity value.
func SRI(sum [sha256.Size]byte) string {
	return SRIPrefix + base64.StdEncoding.EncodeToString(sum[:])
}

// HashBytes returns the integrity value of data.
func HashBytes(data []byte) string {
	return SRI(sha256.Sum256(data))
}

// Matches reports whether declared, which may list several space-separated
// values, contains actual.
func Matches(declared, actual string) bool {
	return slices.Contains(strings.Fields(declared), actual)
}

type VerifyStatus string

const (
	StatusMatch    VerifyStatus = "match"
	StatusMismatch VerifyStatus = "mismatch"
	// StatusUnpinned means the document carries no integrity for the URI.
	StatusUnpinned VerifyStatus = "unpinned"
	StatusError    VerifyStatus = "error"
)

// Verification is the outcome for one integrity-bearing reference.
type Verification struct {
	Target   string       `json:"target" yaml:"target"`
	URI      string       `json:"uri" yaml:"uri"`
	Expected string       `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   string       `json:"actual,omitempty" yaml:"actual,omitempty"`
	Status   VerifyStatus `json:"status" yaml:"status"`
	Error    string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report collects verifications in document order.
type Report struct {
	Valid   bool           `json:"valid" yaml:"valid"`
	Results []Verification `json:"results" yaml:"results"`
}

// NewReport marks the report invalid when any reference mismatched or failed.
func NewReport(results []Verification) Report {
	if results == nil {
		results = []Verification{}
	}
	valid := true
	for _, r := range results {
		if r.Status == StatusMismatch || r.Status == StatusError {
			valid = false
			break
		}
	}
	return Report{Valid: valid, Results: results}
}
