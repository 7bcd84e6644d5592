package asset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/apimgr/assetsearch/src/client/blacklist"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  []int
	}{
		{"", 3, nil},
		{"   ", 3, nil},
		{"0", 3, []int{0}},
		{"0,2,99", 3, []int{0, 2}},
		{" 2 , 0 ", 3, []int{2, 0}},
		{"a,1,-1,1.5,,1", 3, []int{1}},
		{"0,0,0", 3, []int{0}},
		{"3", 3, nil},
		{"0", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseSelection(tt.input, tt.n)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseSelection(%q, %d) mismatch (-want +got):\n%s", tt.input, tt.n, diff)
			}
		})
	}
}

// Scenario D: indices 0 and 2 are blacklisted, 99 is ignored, the file is
// rewritten sorted.
func TestCurateWritesSortedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")
	store := blacklist.New(path, nil)

	cands := []Candidate{
		{URL: "omniverse://h/z.usd", IdentityKey: "z.usd|1"},
		{URL: "omniverse://h/m.usd", IdentityKey: "m.usd|2"},
		{URL: "omniverse://h/a/", IdentityKey: ""},
	}

	res := Curate(store, cands, "0,2,99", nil)
	if diff := cmp.Diff([]int{0, 2}, res.Indices); diff != "" {
		t.Errorf("Indices mismatch (-want +got):\n%s", diff)
	}
	if !res.Changed || !res.Persisted {
		t.Errorf("Curate() = %+v, want changed and persisted", res)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("blacklist not written: %v", err)
	}
	var onDisk struct {
		URLs []string `json:"urls"`
		Keys []string `json:"keys"`
	}
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"omniverse://h/a/", "omniverse://h/z.usd"}, onDisk.URLs); diff != "" {
		t.Errorf("urls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"z.usd|1"}, onDisk.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	// The next cycle excludes the curated candidates.
	reloaded := blacklist.Load(path, nil)
	left := FilterCandidates(cands, reloaded)
	if len(left) != 1 || left[0].URL != "omniverse://h/m.usd" {
		t.Errorf("FilterCandidates() after curation = %+v", left)
	}
}

func TestCurateEmptySelectionDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")
	store := blacklist.New(path, nil)
	cands := []Candidate{{URL: "omniverse://h/a.usd"}}

	for _, input := range []string{"", "  ", "x,y", "5"} {
		res := Curate(store, cands, input, nil)
		if len(res.Indices) != 0 || res.Persisted {
			t.Errorf("Curate(%q) = %+v, want no-op", input, res)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("blacklist file should not exist, stat err = %v", err)
	}
}

// failingStore records adds but cannot save.
type failingStore struct {
	setExclusions
	added []string
}

func (f *failingStore) Add(url, key string) bool {
	f.added = append(f.added, url)
	return true
}

func (f *failingStore) Save() error { return errors.New("disk full") }

func TestCurateSaveFailureIsLenient(t *testing.T) {
	store := &failingStore{}
	cands := []Candidate{{URL: "omniverse://h/a.usd", IdentityKey: "a.usd|1"}}

	res := Curate(store, cands, "0", nil)
	if res.Persisted {
		t.Error("Persisted = true after failed save")
	}
	if !res.Changed {
		t.Error("Changed = false, in-memory update should still happen")
	}
	if diff := cmp.Diff([]string{"omniverse://h/a.usd"}, store.added); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}
}
