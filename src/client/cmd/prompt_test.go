package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPrompterAsk(t *testing.T) {
	out := &bytes.Buffer{}
	p := newPrompter(strings.NewReader("first\nsecond\n"), out)

	for _, want := range []string{"first", "second"} {
		got, err := p.ask(t.Context(), "> ")
		if err != nil {
			t.Fatalf("ask() error = %v", err)
		}
		if got != want {
			t.Errorf("ask() = %q, want %q", got, want)
		}
	}

	if _, err := p.ask(t.Context(), "> "); !errors.Is(err, io.EOF) {
		t.Errorf("ask() at end = %v, want EOF", err)
	}
	// EOF is sticky
	if _, err := p.ask(t.Context(), "> "); !errors.Is(err, io.EOF) {
		t.Errorf("second ask() at end = %v, want EOF", err)
	}
	if got := strings.Count(out.String(), "> "); got != 4 {
		t.Errorf("labels printed = %d, want 4", got)
	}
}

func TestPrompterCanceled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := newPrompter(r, io.Discard)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := p.ask(ctx, "> "); !errors.Is(err, context.Canceled) {
		t.Errorf("ask() = %v, want context.Canceled", err)
	}
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/a.png", "/tmp/a.png"},
		{"'/tmp/a b.png' ", "/tmp/a b.png"},
		{`"C:\img\chair.jpg"`, `C:\img\chair.jpg`},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := cleanPath(tt.in); got != tt.want {
			t.Errorf("cleanPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
