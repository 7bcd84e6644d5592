package asset

import (
	"strconv"
	"strings"
)

const unknownSize = "unknown"

// IdentityKey fingerprints an asset by file name, extension and size so the
// same file served from different paths or mirrors collapses to one entry.
//
// The key is "name.ext|size" (or "name|size" without an extension), lower-cased,
// with "unknown" in place of a missing size. It returns "" when the URL has no
// usable file name.
func IdentityKey(url string, size *int64) string {
	base := stripQuery(url)
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}

	name, ext := base, ""
	if i := strings.LastIndex(base, "."); i >= 0 {
		name, ext = base[:i], base[i+1:]
	}
	name = strings.ToLower(name)
	ext = strings.ToLower(ext)
	if name == "" && ext == "" {
		return ""
	}

	sizeToken := unknownSize
	if size != nil {
		sizeToken = strconv.FormatInt(*size, 10)
	}

	if ext == "" {
		return name + "|" + sizeToken
	}
	return name + "." + ext + "|" + sizeToken
}

func stripQuery(s string) string {
	if i := strings.Index(s, "?"); i >= 0 {
		return s[:i]
	}
	return s
}
