// Package asset turns raw search hits into deduplicated, blacklist-filtered
// candidates and drives the adaptive retrieval loop.
package asset

import (
	"path"
	"strconv"
)

// Candidate is one search hit after extraction and normalization.
// It is not modified after Extract returns it.
type Candidate struct {
	URL         string  `json:"url"`
	IdentityKey string  `json:"identity_key,omitempty"`
	Size        *int64  `json:"size,omitempty"`
	Score       float64 `json:"score"`
	Image       string  `json:"-"`
}

// Name returns the final path segment of the URL, or "Unknown".
func (c Candidate) Name() string {
	name := path.Base(stripQuery(c.URL))
	if name == "" || name == "." || name == "/" {
		return "Unknown"
	}
	return name
}

// HasPreview reports whether the hit carried a preview image.
func (c Candidate) HasPreview() bool {
	return c.Image != ""
}

// SizeString returns the decimal size or "unknown".
func (c Candidate) SizeString() string {
	if c.Size == nil {
		return unknownSize
	}
	return strconv.FormatInt(*c.Size, 10)
}
