package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://search.example.com/", 30)

	if client.BaseURL != "https://search.example.com" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", client.BaseURL)
	}
	if client.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want %q", client.Endpoint, DefaultEndpoint)
	}
	if client.HybridEndpoint != DefaultHybridEndpoint {
		t.Errorf("HybridEndpoint = %q, want %q", client.HybridEndpoint, DefaultHybridEndpoint)
	}
	if client.HTTPClient.Timeout != 30*time.Second {
		t.Errorf("HTTPClient.Timeout = %v, want %v", client.HTTPClient.Timeout, 30*time.Second)
	}
}

func TestSearchRequestShape(t *testing.T) {
	var got map[string]any
	var gotHeaders http.Header
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"hits": [{"url": "omniverse://h/a.usd", "score": 0.5}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5)
	client.SetBasicAuth("alice", "s3cret")

	req := NewTextRequest("red car", "").WithExtensions("usd,usda,usdc,usdz", "png,jpg,jpeg")
	req.Limit = 20

	hits, err := client.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("len(hits) = %d, want 1", len(hits))
	}

	if gotPath != DefaultEndpoint {
		t.Errorf("path = %q, want %q", gotPath, DefaultEndpoint)
	}
	if ct := gotHeaders.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if accept := gotHeaders.Get("Accept"); accept != "application/json" {
		t.Errorf("Accept = %q", accept)
	}
	if _, err := uuid.Parse(gotHeaders.Get("X-Request-ID")); err != nil {
		t.Errorf("X-Request-ID = %q, want a UUID", gotHeaders.Get("X-Request-ID"))
	}
	if !strings.HasPrefix(gotHeaders.Get("User-Agent"), "assetsearch-cli/") {
		t.Errorf("User-Agent = %q", gotHeaders.Get("User-Agent"))
	}
	if !strings.HasPrefix(gotHeaders.Get("Authorization"), "Basic ") {
		t.Errorf("Authorization = %q, want basic auth", gotHeaders.Get("Authorization"))
	}

	if got["limit"] != float64(20) {
		t.Errorf("limit = %v, want 20", got["limit"])
	}
	if got["return_metadata"] != true || got["return_images"] != true {
		t.Errorf("return flags = %v/%v, want true", got["return_metadata"], got["return_images"])
	}
	if got["file_extension_include"] != "usd,usda,usdc,usdz" {
		t.Errorf("file_extension_include = %v", got["file_extension_include"])
	}
	if got["file_extension_exclude"] != "png,jpg,jpeg" {
		t.Errorf("file_extension_exclude = %v", got["file_extension_exclude"])
	}
	vq, ok := got["vector_queries"].([]any)
	if !ok || len(vq) != 1 {
		t.Fatalf("vector_queries = %v", got["vector_queries"])
	}
	first := vq[0].(map[string]any)
	if first["field_name"] != DefaultEmbeddingField || first["query_type"] != "text" || first["query"] != "red car" {
		t.Errorf("vector query = %v", first)
	}
	if _, ok := got["hybrid_text_query"]; ok {
		t.Error("hybrid_text_query should be omitted for plain text search")
	}
	if _, ok := got["Hybrid"]; ok {
		t.Error("Hybrid must not be serialized")
	}
}

func TestSearchWithoutCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("Authorization = %q, want none", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	hits, err := NewClient(srv.URL, 5).Search(context.Background(), NewTextRequest("x", ""))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("len(hits) = %d, want 0", len(hits))
	}
}

func TestSearchHybridEndpoint(t *testing.T) {
	var gotPath string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 5).Search(context.Background(), NewHybridRequest("chair", "")); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotPath != DefaultHybridEndpoint {
		t.Errorf("path = %q, want %q", gotPath, DefaultHybridEndpoint)
	}
	if body["hybrid_text_query"] != "chair" {
		t.Errorf("hybrid_text_query = %v", body["hybrid_text_query"])
	}
}

func TestSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 5).Search(context.Background(), NewTextRequest("x", ""))
	if err == nil {
		t.Fatal("Search() expected error for 503")
	}
	if !errors.Is(err, ErrStatus) {
		t.Errorf("errors.Is(err, ErrStatus) = false for %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("errors.As(*StatusError) failed for %v", err)
	}
	if se.Code != http.StatusServiceUnavailable {
		t.Errorf("Code = %d, want 503", se.Code)
	}
	if !strings.Contains(se.Body, "index offline") {
		t.Errorf("Body = %q", se.Body)
	}
}

func TestSearchInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 5).Search(context.Background(), NewTextRequest("x", "")); err == nil {
		t.Error("Search() expected decode error")
	}
}

func TestSearchTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()
	defer close(done)

	client := NewClient(srv.URL, 0)
	client.HTTPClient.Timeout = 50 * time.Millisecond

	if _, err := client.Search(context.Background(), NewTextRequest("x", "")); err == nil {
		t.Error("Search() expected timeout error")
	}
}

func TestSearchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	if _, err := NewClient(addr, 1).Search(context.Background(), NewTextRequest("x", "")); err == nil {
		t.Error("Search() expected connection error")
	}
}

func TestStatusErrorMessage(t *testing.T) {
	if got := (&StatusError{Code: 500}).Error(); got != "server error 500" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&StatusError{Code: 404, Body: "nope"}).Error(); got != "server error 404: nope" {
		t.Errorf("Error() = %q", got)
	}
}
