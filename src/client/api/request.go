package api

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultEmbeddingField is the vector field text queries are matched against.
const DefaultEmbeddingField = "clip-embedding.embedding"

// VectorQuery is one entry of vector_queries.
type VectorQuery struct {
	FieldName string `json:"field_name"`
	QueryType string `json:"query_type"`
	Query     string `json:"query"`
}

// SearchRequest is the JSON body posted to the search service.
type SearchRequest struct {
	HybridTextQuery       string        `json:"hybrid_text_query,omitempty"`
	VectorQueries         []VectorQuery `json:"vector_queries,omitempty"`
	ImageSimilaritySearch []string      `json:"image_similarity_search,omitempty"`
	ReturnMetadata        bool          `json:"return_metadata"`
	ReturnImages          bool          `json:"return_images"`
	Limit                 int           `json:"limit"`
	FileExtensionInclude  string        `json:"file_extension_include,omitempty"`
	FileExtensionExclude  string        `json:"file_extension_exclude,omitempty"`

	// Hybrid routes the request to the hybrid endpoint.
	Hybrid bool `json:"-"`
}

// NewTextRequest builds a text-to-asset request against field.
func NewTextRequest(query, field string) *SearchRequest {
	if field == "" {
		field = DefaultEmbeddingField
	}
	return &SearchRequest{
		VectorQueries: []VectorQuery{{
			FieldName: field,
			QueryType: "text",
			Query:     query,
		}},
		ReturnMetadata: true,
		ReturnImages:   true,
	}
}

// NewHybridRequest builds a text request that is also matched lexically.
func NewHybridRequest(query, field string) *SearchRequest {
	req := NewTextRequest(query, field)
	req.HybridTextQuery = query
	req.Hybrid = true
	return req
}

// NewImageRequest builds an image-to-asset request from a data URI.
func NewImageRequest(dataURI string) *SearchRequest {
	return &SearchRequest{
		ImageSimilaritySearch: []string{dataURI},
		ReturnMetadata:        true,
		ReturnImages:          true,
	}
}

// WithExtensions sets the comma-separated include/exclude extension filters.
func (r *SearchRequest) WithExtensions(include, exclude string) *SearchRequest {
	r.FileExtensionInclude = include
	r.FileExtensionExclude = exclude
	return r
}

// Query returns a human-readable label for the request.
func (r *SearchRequest) Query() string {
	if len(r.VectorQueries) > 0 {
		return r.VectorQueries[0].Query
	}
	if len(r.ImageSimilaritySearch) > 0 {
		return "<image>"
	}
	return r.HybridTextQuery
}

// EncodeImageFile reads an image file into a data URI. jpg/jpeg become
// image/jpeg, everything else is sent as image/png.
func EncodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	mime := "png"
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "jpg", "jpeg":
		mime = "jpeg"
	}
	return "data:image/" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
