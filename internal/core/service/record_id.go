package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

// newRecordID returns a unique identifier for a persisted lease row.
func newRecordID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%016x", time.Now().UnixNano())
	}
	return fmt.Sprintf("%016x", b)
}
