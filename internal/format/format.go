// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders a normalized types.Reference as a citation string.
// All functions are pure.
package format

import (
	"fmt"
	"strings"

	"github.com/pdiddy/refcite/pkg/types"
)

// DOIURLPrefix turns a DOI into a resolvable URL.
const DOIURLPrefix = "https://doi.org/"

// Style selects a citation rendering.
type Style string

const (
	// StyleJournal is the JJAP-like citation with initialed given names.
	StyleJournal Style = "journal"

	// StyleJournalFullName is the JJAP-like citation with full given names.
	StyleJournalFullName Style = "journal-fullname"

	// StyleBibTeX is a BibTeX @article entry.
	StyleBibTeX Style = "bibtex"
)

// Styles lists every supported style.
var Styles = []Style{StyleJournal, StyleJournalFullName, StyleBibTeX}

// ParseStyle maps a style name to a Style.
func ParseStyle(name string) (Style, error) {
	for _, s := range Styles {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown citation style %q (want one of %s)", name, joinStyles())
}

func joinStyles() string {
	names := make([]string, len(Styles))
	for i, s := range Styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Render dispatches to the renderer for style. Unknown styles fall back to
// StyleJournal.
func Render(ref types.Reference, style Style) string {
	switch style {
	case StyleBibTeX:
		return BibTeX(ref)
	case StyleJournalFullName:
		return JournalStyle(ref, false)
	default:
		return JournalStyle(ref, true)
	}
}

// JournalStyle renders ref as
//
//	Authors. "Title", Full Journal (Short), Volume (Issue), Page (Year).
//	DOI: https://doi.org/<doi>
//
// With initials set, authors are taken from InitialAuthors; otherwise from
// Authors.
func JournalStyle(ref types.Reference, initials bool) string {
	authors := ref.Authors
	if initials {
		authors = ref.InitialAuthors
	}
	return fmt.Sprintf("%s. \"%s\", %s (%s), %s (%s), %s (%s).\nDOI: %s%s",
		JoinAuthors(authors),
		ref.CapitalizedTitle,
		ref.FullJournal,
		ref.ShortJournal,
		ref.Volume,
		ref.Issue,
		ref.Page,
		ref.Year,
		DOIURLPrefix,
		ref.DOI,
	)
}

// JoinAuthors joins names with commas and a serial ", and " before the last
// name when there are three or more. Two names are joined by ", " alone.
func JoinAuthors(names []string) string {
	switch n := len(names); n {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + ", " + names[1]
	default:
		return strings.Join(names[:n-1], ", ") + ", and " + names[n-1]
	}
}

// BibTeX renders ref as an @article entry keyed by its DOI. The output has
// no trailing newline.
func BibTeX(ref types.Reference) string {
	fields := []string{
		"  " + ref.DOI + ",",
		bibField("author", strings.Join(ref.Authors, " and ")),
		bibField("year", ref.Year.String()),
		bibField("title", ref.CapitalizedTitle),
		bibField("journal", ref.FullJournal),
		bibField("volume", ref.Volume),
		bibField("number", ref.Issue),
		bibField("pages", ref.Page),
		bibField("doi", DOIURLPrefix+ref.DOI),
	}
	return strings.Join([]string{
		"@article{",
		strings.Join(fields, "\n    "),
		"}",
	}, "\n")
}

func bibField(name, value string) string {
	return name + "={" + value + "},"
}
