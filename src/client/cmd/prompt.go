package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// prompter reads answers line by line. Reading happens on a separate
// goroutine so a canceled context (SIGINT) interrupts a pending prompt.
type prompter struct {
	out   io.Writer
	lines chan string
	errs  chan error
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{
		out:   out,
		lines: make(chan string),
		errs:  make(chan error, 1),
	}
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			p.lines <- sc.Text()
		}
		if err := sc.Err(); err != nil {
			p.errs <- err
			return
		}
		p.errs <- io.EOF
	}()
	return p
}

// ask prints label and waits for one line. It returns io.EOF when input ends
// and ctx.Err() when the context is canceled first.
func (p *prompter) ask(ctx context.Context, label string) (string, error) {
	fmt.Fprint(p.out, label)
	select {
	case line := <-p.lines:
		return line, nil
	case err := <-p.errs:
		p.errs <- err
		return "", err
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	}
}

// cleanPath strips the quotes terminals add around dragged-in file paths.
func cleanPath(s string) string {
	return strings.TrimSpace(strings.NewReplacer(`'`, "", `"`, "").Replace(s))
}
