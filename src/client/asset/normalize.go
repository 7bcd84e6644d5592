package asset

import "strings"

const (
	// DefaultScheme is the service's native asset protocol.
	DefaultScheme = "omniverse"
	// DefaultHost is used for locators given as absolute paths.
	DefaultHost = "localhost"
)

// Normalizer canonicalizes asset locators so the same asset compares equal
// regardless of how the service spelled it.
type Normalizer struct {
	Scheme string
	Host   string
}

// NewNormalizer returns a Normalizer, substituting defaults for empty values.
func NewNormalizer(scheme, host string) Normalizer {
	scheme = strings.TrimSuffix(strings.TrimSpace(scheme), "://")
	if scheme == "" {
		scheme = DefaultScheme
	}
	host = strings.Trim(strings.TrimSpace(host), "/")
	if host == "" {
		host = DefaultHost
	}
	return Normalizer{Scheme: scheme, Host: host}
}

// Normalize rewrites raw into the native form:
//
//	""                     -> ""
//	http(s)://host/a.usd   -> omniverse://host/a.usd
//	/Projects/a.usd        -> omniverse://<host>/Projects/a.usd
//	anything else          -> trimmed, unchanged
//
// Normalize(Normalize(u)) == Normalize(u) for every u.
func (n Normalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	prefix := n.scheme() + "://"
	for _, web := range []string{"http://", "https://"} {
		if hasPrefixFold(s, web) {
			return prefix + s[len(web):]
		}
	}
	if strings.HasPrefix(s, "/") {
		return prefix + n.host() + s
	}
	return s
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func (n Normalizer) scheme() string {
	if n.Scheme == "" {
		return DefaultScheme
	}
	return n.Scheme
}

func (n Normalizer) host() string {
	if n.Host == "" {
		return DefaultHost
	}
	return n.Host
}
