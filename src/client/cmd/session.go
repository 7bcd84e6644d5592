package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/apimgr/assetsearch/src/client/api"
	"github.com/apimgr/assetsearch/src/client/asset"
	"github.com/apimgr/assetsearch/src/client/blacklist"
	"github.com/apimgr/assetsearch/src/client/render"
)

// session runs search → display → curation cycles.
type session struct {
	retriever *asset.Retriever
	store     blacklist.Backend
	grid      *render.Grid
	prompt    *prompter
	out       io.Writer
	logger    *slog.Logger

	format     string
	outputPath string
	open       func(path string) error
	curate     bool
}

func newSession(client asset.Searcher, in io.Reader, out io.Writer, outputKey string) (*session, error) {
	store, err := openBlacklist()
	if err != nil {
		return nil, err
	}
	s := &session{
		retriever:  newRetriever(client, store),
		store:      store,
		grid:       newGrid(),
		prompt:     newPrompter(in, out),
		out:        out,
		logger:     slog.Default(),
		format:     getOutputFormat(),
		outputPath: outputPath(outputKey),
		curate:     true,
	}
	if openGrid() {
		s.open = render.Open
	}
	return s, nil
}

// cycle runs one search, shows the results and asks which to blacklist.
func (s *session) cycle(ctx context.Context, req *api.SearchRequest, title string) error {
	if s.store.Dirty() {
		s.logger.Debug("blacklist has unsaved changes, skipping reload", "path", s.store.Path())
	} else if err := s.store.Reload(); err != nil {
		s.logger.Warn("blacklist load failed, starting empty", "path", s.store.Path(), "error", err)
	}

	if s.format != "json" {
		fmt.Fprintln(s.out, paint(dimStyle, fmt.Sprintf("Searching %s ...", title)))
	}
	res, err := s.retriever.Retrieve(ctx, req)
	if err != nil {
		return err
	}

	if res.Outcome == asset.OutcomeNoResults || len(res.Candidates) == 0 {
		fmt.Fprintln(s.out, outcomeMessage(res, s.retriever.Options.TargetValid))
		return nil
	}

	if err := printCandidates(s.out, s.format, res); err != nil {
		return err
	}
	if s.format != "json" {
		fmt.Fprintln(s.out, outcomeMessage(res, s.retriever.Options.TargetValid))
	}

	s.show(title, res.Candidates)

	if !s.curate {
		return nil
	}
	return s.curateStep(ctx, res.Candidates)
}

// show renders the grid and opens it. Failures are reported, not returned.
func (s *session) show(title string, candidates []asset.Candidate) {
	if err := s.grid.Save(title, candidates, s.outputPath); err != nil {
		s.logger.Warn("grid render failed", "path", s.outputPath, "error", err)
		return
	}
	fmt.Fprintf(s.out, "Result grid written to %s\n", s.outputPath)

	if s.open == nil {
		return
	}
	if err := s.open(s.outputPath); err != nil {
		s.logger.Warn("could not open result grid", "path", s.outputPath, "error", err)
	}
}

func (s *session) curateStep(ctx context.Context, candidates []asset.Candidate) error {
	line, err := s.prompt.ask(ctx, fmt.Sprintf("Blacklist indices 0-%d (comma-separated, empty to skip): ", len(candidates)-1))
	if err != nil {
		return err
	}

	cur := asset.Curate(s.store, candidates, line, s.logger)
	if len(cur.Indices) == 0 {
		return nil
	}
	urls, keys := s.store.Len()
	fmt.Fprintf(s.out, "Blacklisted %d result(s). Blacklist now has %d URLs and %d keys.\n", len(cur.Indices), urls, keys)
	if cur.Changed && !cur.Persisted {
		fmt.Fprintln(s.out, paint(warnStyle, "Save failed, changes kept for this session."))
	}
	return nil
}

// loop prompts for input until q, EOF or interrupt. build turns one input
// line into a request and a grid title.
func (s *session) loop(ctx context.Context, label string, build func(line string) (*api.SearchRequest, string, error)) error {
	for {
		line, err := s.prompt.ask(ctx, label)
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if strings.EqualFold(line, "q") {
			return nil
		}
		if line == "" {
			continue
		}

		req, title, err := build(line)
		if err != nil {
			fmt.Fprintln(s.out, paint(warnStyle, err.Error()))
			continue
		}

		if err := s.cycle(ctx, req, title); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(s.out, paint(errStyle, "Error: "+err.Error()))
		}
	}
}
