package audit

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// runIDSuffixLen is the number of random bytes appended to keep
// concurrent runs from colliding.
const runIDSuffixLen = 6

// NewRunID returns an identifier that sorts lexicographically by start
// time while staying unique across concurrent runs.
func NewRunID() (string, error) {
	return newRunID(time.Now(), rand.Reader)
}

func newRunID(now time.Time, random io.Reader) (string, error) {
	suffix := make([]byte, runIDSuffixLen)
	if _, err := io.ReadFull(random, suffix); err != nil {
		return "", fmt.Errorf("generate run id suffix: %w", err)
	}
	return now.UTC().Format("20060102T150405Z") + "-" + hex.EncodeToString(suffix), nil
}
