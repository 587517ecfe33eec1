// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package interactive runs the prompt loop that turns typed DOIs into BibTeX
// entries on stdout and the system clipboard.
package interactive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/pdiddy/refcite/internal/format"
	"github.com/pdiddy/refcite/internal/registry"
)

// Prompt is written before each read.
const Prompt = "DOI: "

// Copier places text on a clipboard.
type Copier interface {
	Copy(text string) error
}

// SystemClipboard copies to the OS clipboard.
type SystemClipboard struct{}

// Copy implements Copier.
func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// Session reads DOIs from in and writes BibTeX entries to out.
type Session struct {
	lookup registry.Lookuper
	copier Copier
	in     io.Reader
	out    io.Writer
}

// New creates a Session. A nil copier disables clipboard output.
func New(lookup registry.Lookuper, copier Copier, in io.Reader, out io.Writer) *Session {
	return &Session{lookup: lookup, copier: copier, in: in, out: out}
}

// CleanDOI trims input and maps underscores back to slashes, so DOIs copied
// from file names paste as-is.
func CleanDOI(input string) string {
	return strings.ReplaceAll(strings.TrimSpace(input), "_", "/")
}

// Run prompts until EOF, a "quit" or "exit" line, or ctx is done. ctx is
// checked between lines; a pending read is not interrupted.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		doi := CleanDOI(scanner.Text())
		switch doi {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		if err := s.handle(ctx, doi); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *Session) handle(ctx context.Context, doi string) error {
	ref, err := registry.Resolve(ctx, s.lookup, doi)
	if err != nil {
		return err
	}
	entry := format.BibTeX(ref)
	fmt.Fprintln(s.out, entry)

	if s.copier == nil {
		return nil
	}
	if err := s.copier.Copy(entry); err != nil {
		slog.Warn("clipboard copy failed", "doi", doi, "err", err)
	}
	return nil
}
