package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Hit is one raw search hit. Numbers are decoded as json.Number.
type Hit map[string]any

// DecodeHits parses a search response body into its hits.
//
// Accepted shapes, first match wins:
//
//	[ {...}, ... ]
//	{"results": [ ... ]}
//	{"hits": {"hits": [ ... ]}}
//	{"hits": [ ... ]}
//
// Any other JSON value yields zero hits. Array elements that are not objects
// are skipped. Only invalid JSON is an error.
func DecodeHits(body []byte) ([]Hit, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return hitsFrom(v), nil
}

func hitsFrom(v any) []Hit {
	switch t := v.(type) {
	case []any:
		return toHits(t)
	case map[string]any:
		if list, ok := t["results"].([]any); ok {
			return toHits(list)
		}
		if nested, ok := t["hits"].(map[string]any); ok {
			if list, ok := nested["hits"].([]any); ok {
				return toHits(list)
			}
		}
		if list, ok := t["hits"].([]any); ok {
			return toHits(list)
		}
	}
	return nil
}

func toHits(list []any) []Hit {
	hits := make([]Hit, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			hits = append(hits, Hit(m))
		}
	}
	return hits
}
