// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the refcite
// normalizer, formatter, registry client, and presentation layers.
package types

import (
	"encoding/json"
	"strconv"
)

// RawRecord is the loosely-typed work record returned by the registry under
// its top-level "message" key. Numbers are kept as json.Number.
type RawRecord map[string]any

// LookupResult carries the outcome of a registry lookup: a record, or the
// signal that the registry had nothing for the DOI.
type LookupResult struct {
	Found  bool
	Record RawRecord
}

// Found wraps a record returned by a successful lookup.
func Found(rec RawRecord) LookupResult {
	return LookupResult{Found: true, Record: rec}
}

// NotFound is the result of a failed or non-200 lookup.
func NotFound() LookupResult {
	return LookupResult{}
}

// Year is a publication year or one of the two sentinels. The zero value is
// YearUnknown.
type Year struct {
	kind  yearKind
	value int
}

type yearKind uint8

const (
	yearUnknown yearKind = iota
	yearNumber
	yearNotFound
)

var (
	// YearUnknown marks a record without a usable issued.date-parts entry.
	YearUnknown = Year{kind: yearUnknown}

	// YearNotFound marks a Reference built from a failed lookup.
	YearNotFound = Year{kind: yearNotFound}
)

// YearOf returns a Year holding the integer n.
func YearOf(n int) Year {
	return Year{kind: yearNumber, value: n}
}

// Int returns the integer year and whether one is present.
func (y Year) Int() (int, bool) {
	return y.value, y.kind == yearNumber
}

func (y Year) String() string {
	switch y.kind {
	case yearNumber:
		return strconv.Itoa(y.value)
	case yearNotFound:
		return "404"
	default:
		return "Unknown"
	}
}

// MarshalJSON emits a number for a real year and a string for a sentinel.
func (y Year) MarshalJSON() ([]byte, error) {
	if n, ok := y.Int(); ok {
		return json.Marshal(n)
	}
	return json.Marshal(y.String())
}

// MarshalYAML follows the same number-or-string rule as MarshalJSON.
func (y Year) MarshalYAML() (any, error) {
	if n, ok := y.Int(); ok {
		return n, nil
	}
	return y.String(), nil
}

// Reference is a fully-defaulted citation record for one DOI. It is built
// once per lookup and never mutated afterwards.
type Reference struct {
	// DOI is the identifier the record was fetched for. It is not validated.
	DOI string `json:"doi" yaml:"doi"`

	// Title is the primary title as supplied by the registry.
	Title string `json:"title" yaml:"title"`

	// CapitalizedTitle is the title-cased form of Title.
	CapitalizedTitle string `json:"capitalized_title" yaml:"capitalized_title"`

	// Authors holds "Given Family" names in registry order.
	Authors []string `json:"authors" yaml:"authors"`

	// InitialAuthors holds "G. F. Family" names aligned with Authors.
	InitialAuthors []string `json:"initial_authors" yaml:"initial_authors"`

	FullJournal  string `json:"full_journal" yaml:"full_journal"`
	ShortJournal string `json:"short_journal" yaml:"short_journal"`
	Volume       string `json:"volume" yaml:"volume"`
	Issue        string `json:"issue" yaml:"issue"`
	Page         string `json:"page" yaml:"page"`

	Year Year `json:"year" yaml:"year"`
}

// Dummy returns the Reference rendered for a DOI the registry could not
// supply: every string empty, both author lists empty, year "404".
func Dummy(doi string) Reference {
	return Reference{
		DOI:            doi,
		Authors:        []string{},
		InitialAuthors: []string{},
		Year:           YearNotFound,
	}
}

// IsDummy reports whether r came from a failed lookup.
func (r Reference) IsDummy() bool {
	return r.Year == YearNotFound
}
