package asset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/apimgr/assetsearch/src/client/api"
)

var (
	// dataFields hold the per-asset payload, checked in order.
	dataFields = []string{"_source", "source"}
	// urlFields are tried on the payload, then on the hit itself.
	urlFields = []string{"url", "asset_url", "omniverse_url", "uri", "path", "file_path", "base_key"}
	// sizeFields are tried on the payload, then on its stat object.
	sizeFields = []string{"size", "file_size", "size_bytes", "filesize", "bytes", "content_length"}
	statFields = append([]string{"st_size"}, sizeFields...)
)

// lookup is one named place a value may live in a hit.
type lookup struct {
	name string
	find func(hit, data api.Hit) (any, bool)
}

func inData(key string) lookup {
	return lookup{name: key, find: func(_, data api.Hit) (any, bool) {
		v, ok := data[key]
		return v, ok && v != nil
	}}
}

func inHit(key string) lookup {
	return lookup{name: "hit." + key, find: func(hit, _ api.Hit) (any, bool) {
		v, ok := hit[key]
		return v, ok && v != nil
	}}
}

func inStat(key string) lookup {
	return lookup{name: "stat." + key, find: func(_, data api.Hit) (any, bool) {
		stat, ok := data["stat"].(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := stat[key]
		return v, ok && v != nil
	}}
}

func buildLookups(keys []string, at func(string) lookup) []lookup {
	out := make([]lookup, 0, len(keys))
	for _, k := range keys {
		out = append(out, at(k))
	}
	return out
}

var (
	urlLookups   = append(buildLookups(urlFields, inData), buildLookups(urlFields, inHit)...)
	sizeLookups  = append(buildLookups(sizeFields, inData), buildLookups(statFields, inStat)...)
	scoreLookups = []lookup{inHit("score"), inHit("_score"), inData("score")}
	imageLookups = []lookup{inData("image"), inHit("image")}
)

// Extractor builds candidates from raw hits.
type Extractor struct {
	Normalizer Normalizer
}

// Extract resolves the candidate for hit. It returns false when no URL can be
// found; such hits carry metadata only and are skipped.
func (e Extractor) Extract(hit api.Hit) (Candidate, bool) {
	data := payload(hit)

	url := e.Normalizer.Normalize(firstString(hit, data, urlLookups))
	if url == "" {
		return Candidate{}, false
	}

	size := firstSize(hit, data)
	return Candidate{
		URL:         url,
		IdentityKey: IdentityKey(url, size),
		Size:        size,
		Score:       firstScore(hit, data),
		Image:       firstString(hit, data, imageLookups),
	}, true
}

// ExtractAll extracts every hit with a URL, preserving order.
func (e Extractor) ExtractAll(hits []api.Hit) []Candidate {
	out := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		if c, ok := e.Extract(hit); ok {
			out = append(out, c)
		}
	}
	return out
}

// payload returns the nested data object, or the hit itself.
func payload(hit api.Hit) api.Hit {
	for _, key := range dataFields {
		if m, ok := hit[key].(map[string]any); ok {
			return api.Hit(m)
		}
	}
	return hit
}

// firstString returns the first non-empty string among lookups.
func firstString(hit, data api.Hit, lookups []lookup) string {
	for _, l := range lookups {
		v, ok := l.find(hit, data)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstSize takes the first size field present. A value that is not a
// non-negative integer leaves the size unknown.
func firstSize(hit, data api.Hit) *int64 {
	for _, l := range sizeLookups {
		v, ok := l.find(hit, data)
		if !ok {
			continue
		}
		n, ok := parseSize(v)
		if !ok {
			return nil
		}
		return &n
	}
	return nil
}

func parseSize(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, n >= 0
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return floatSize(f)
	case float64:
		return floatSize(t)
	case int:
		return int64(t), t >= 0
	case int64:
		return t, t >= 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, n >= 0
	}
	return 0, false
}

func floatSize(f float64) (int64, bool) {
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func firstScore(hit, data api.Hit) float64 {
	for _, l := range scoreLookups {
		v, ok := l.find(hit, data)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f
			}
		case float64:
			return t
		case string:
			if f, err := strconv.ParseFloat(t, 64); err == nil {
				return f
			}
		}
	}
	return 0
}
