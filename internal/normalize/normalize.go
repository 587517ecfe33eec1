// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns a loosely-structured registry record into a
// fully-defaulted types.Reference. Missing fields degrade to empty strings or
// the "Unknown" year; only a structurally broken author list is an error.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/refcite/pkg/types"
)

// ErrMalformedPayload reports a registry record whose shape violates the
// works contract, e.g. author entries that are not objects.
var ErrMalformedPayload = errors.New("malformed registry payload")

// Registry record keys.
const (
	keyTitle        = "title"
	keyAuthor       = "author"
	keyContainer    = "container-title"
	keyShortContain = "short-container-title"
	keyVolume       = "volume"
	keyIssue        = "issue"
	keyPage         = "page"
	keyIssued       = "issued"
	keyDateParts    = "date-parts"
	keyGiven        = "given"
	keyFamily       = "family"
)

// Normalize builds the Reference for doi from a lookup result. A NotFound
// result yields types.Dummy(doi).
func Normalize(doi string, res types.LookupResult) (types.Reference, error) {
	if !res.Found {
		return types.Dummy(doi), nil
	}
	rec := res.Record

	authors, initials, err := extractAuthors(rec)
	if err != nil {
		return types.Reference{}, err
	}

	title := firstValue(rec, keyTitle)
	return types.Reference{
		DOI:              doi,
		Title:            title,
		CapitalizedTitle: TitleCase(title),
		Authors:          authors,
		InitialAuthors:   initials,
		FullJournal:      firstValue(rec, keyContainer),
		ShortJournal:     firstValue(rec, keyShortContain),
		Volume:           firstValue(rec, keyVolume),
		Issue:            firstValue(rec, keyIssue),
		Page:             firstValue(rec, keyPage),
		Year:             extractYear(rec),
	}, nil
}

// firstValue returns the scalar at key, or the first element when the value
// is a list. Absent, null, and empty values all yield "".
func firstValue(rec types.RawRecord, key string) string {
	switch v := rec[key].(type) {
	case nil:
		return ""
	case []any:
		if len(v) == 0 {
			return ""
		}
		return scalarString(v[0])
	default:
		return scalarString(v)
	}
}

// scalarString renders a decoded JSON scalar. Objects and lists render as "".
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// extractAuthors renders the author list twice: full names and initials.
// Entries without a family name are dropped from both.
func extractAuthors(rec types.RawRecord) (full, initials []string, err error) {
	full = []string{}
	initials = []string{}

	var entries []any
	switch v := rec[keyAuthor].(type) {
	case nil:
		return full, initials, nil
	case []any:
		entries = v
	default:
		return nil, nil, fmt.Errorf("%w: %q is %T, want list", ErrMalformedPayload, keyAuthor, v)
	}

	for i, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s[%d] is %T, want object", ErrMalformedPayload, keyAuthor, i, e)
		}
		family := strings.TrimSpace(scalarString(entry[keyFamily]))
		if family == "" {
			continue
		}
		given := strings.TrimSpace(scalarString(entry[keyGiven]))
		if given == "" {
			full = append(full, family)
			initials = append(initials, family)
			continue
		}
		full = append(full, given+" "+family)
		initials = append(initials, Initials(given)+" "+family)
	}
	return full, initials, nil
}

// Initials abbreviates each whitespace-separated given name to its first
// letter followed by a period: "John Quincy" becomes "J. Q.".
func Initials(given string) string {
	tokens := strings.Fields(given)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, initial(tok))
	}
	return strings.Join(out, " ")
}

// initial returns the first letter of tok plus a period. Tokens with no
// letter at all are kept whole.
func initial(tok string) string {
	for i, r := range tok {
		if unicode.IsLetter(r) {
			return tok[i:i+utf8.RuneLen(r)] + "."
		}
	}
	return tok
}

// extractYear reads issued.date-parts[0][0]. Any missing level, empty list,
// or non-integer value yields types.YearUnknown.
func extractYear(rec types.RawRecord) types.Year {
	issued, ok := rec[keyIssued].(map[string]any)
	if !ok {
		return types.YearUnknown
	}
	parts, ok := issued[keyDateParts].([]any)
	if !ok || len(parts) == 0 {
		return types.YearUnknown
	}
	first, ok := parts[0].([]any)
	if !ok || len(first) == 0 {
		return types.YearUnknown
	}
	n, ok := intValue(first[0])
	if !ok {
		return types.YearUnknown
	}
	return types.YearOf(n)
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return intValue(f)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
