package models

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewID returns a time-ordered identifier, used for both the record id and
// the stored file name.
func NewID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// ValidID reports whether id has the shape of a NewID result.
func ValidID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
