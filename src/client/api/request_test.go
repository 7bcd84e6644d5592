package api

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTextRequestDefaults(t *testing.T) {
	req := NewTextRequest("lamp", "")

	if !req.ReturnMetadata || !req.ReturnImages {
		t.Error("text request should ask for metadata and images")
	}
	if req.VectorQueries[0].FieldName != DefaultEmbeddingField {
		t.Errorf("FieldName = %q", req.VectorQueries[0].FieldName)
	}
	if req.Hybrid || req.HybridTextQuery != "" {
		t.Error("text request must not be hybrid")
	}
	if req.Query() != "lamp" {
		t.Errorf("Query() = %q", req.Query())
	}

	custom := NewTextRequest("lamp", "siglip.embedding")
	if custom.VectorQueries[0].FieldName != "siglip.embedding" {
		t.Errorf("FieldName = %q", custom.VectorQueries[0].FieldName)
	}
}

func TestNewImageRequest(t *testing.T) {
	req := NewImageRequest("data:image/png;base64,AAAA")

	if len(req.ImageSimilaritySearch) != 1 {
		t.Fatalf("ImageSimilaritySearch = %v", req.ImageSimilaritySearch)
	}
	if len(req.VectorQueries) != 0 {
		t.Error("image request should not carry vector queries")
	}
	if req.Query() != "<image>" {
		t.Errorf("Query() = %q", req.Query())
	}
}

func TestEncodeImageFile(t *testing.T) {
	dir := t.TempDir()
	payload := []byte{0x89, 'P', 'N', 'G'}

	tests := []struct {
		name   string
		prefix string
	}{
		{"photo.JPG", "data:image/jpeg;base64,"},
		{"photo.jpeg", "data:image/jpeg;base64,"},
		{"shot.png", "data:image/png;base64,"},
		{"scan.webp", "data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, payload, 0600); err != nil {
				t.Fatal(err)
			}
			uri, err := EncodeImageFile(path)
			if err != nil {
				t.Fatalf("EncodeImageFile() error = %v", err)
			}
			if !strings.HasPrefix(uri, tt.prefix) {
				t.Errorf("uri = %q, want prefix %q", uri, tt.prefix)
			}
			if got := strings.TrimPrefix(uri, tt.prefix); got != base64.StdEncoding.EncodeToString(payload) {
				t.Errorf("payload = %q", got)
			}
		})
	}
}

func TestEncodeImageFileMissing(t *testing.T) {
	if _, err := EncodeImageFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("EncodeImageFile() expected error for missing file")
	}
}
