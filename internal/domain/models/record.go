package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Record is a single job posting discovered on a career page. Records are
// immutable once built; the ID is a content hash, so the same posting seen
// again (even with a different apply link) collapses to the same identity.
type Record struct {
	ID           string
	Source       string
	Title        string
	Location     string
	Link         string
	SourceURL    string
	DiscoveredAt time.Time
}

// RecordIdentity hashes the normalized (source, title, location) triple.
// Leading/trailing whitespace and letter case do not affect the result.
func RecordIdentity(source, title, location string) string {
	normalize := func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}
	raw := normalize(source) + "|" + normalize(title) + "|" + normalize(location)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func NewRecord(source, title, location, link, sourceURL string) Record {
	title = strings.TrimSpace(title)
	location = strings.TrimSpace(location)

	return Record{
		ID:           RecordIdentity(source, title, location),
		Source:       source,
		Title:        title,
		Location:     location,
		Link:         link,
		SourceURL:    sourceURL,
		DiscoveredAt: time.Now().UTC(),
	}
}
