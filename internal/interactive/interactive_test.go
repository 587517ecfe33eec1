// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package interactive

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/refcite/internal/format"
	"github.com/pdiddy/refcite/pkg/types"
)

type mapRegistry map[string]types.RawRecord

func (m mapRegistry) Lookup(_ context.Context, doi string) (types.LookupResult, error) {
	rec, ok := m[doi]
	if !ok {
		return types.NotFound(), nil
	}
	return types.Found(rec), nil
}

type recordingCopier struct {
	copied []string
	err    error
}

func (c *recordingCopier) Copy(text string) error {
	c.copied = append(c.copied, text)
	return c.err
}

var testRegistry = mapRegistry{
	"10.1103/PhysRev.47.777": {
		"title":  []any{"can quantum-mechanical description of physical reality be considered complete?"},
		"author": []any{map[string]any{"given": "A.", "family": "Einstein"}},
	},
	"10.1/bad": {"author": []any{"not an object"}},
}

func TestCleanDOI(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"10.1103/PhysRev.47.777", "10.1103/PhysRev.47.777"},
		{"10.1103_PhysRev.47.777", "10.1103/PhysRev.47.777"},
		{"  10.1000_a_b \n", "10.1000/a/b"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanDOI(tt.in))
	}
}

func TestRun_PrintsAndCopies(t *testing.T) {
	in := strings.NewReader("10.1103_PhysRev.47.777\n\n10.9999/missing\n")
	var out bytes.Buffer
	cp := &recordingCopier{}

	err := New(testRegistry, cp, in, &out).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, cp.copied, 2)
	assert.Contains(t, cp.copied[0], "  10.1103/PhysRev.47.777,")
	assert.Contains(t, cp.copied[0], "author={A. Einstein},")
	assert.Contains(t, cp.copied[0], "title={Can Quantum-Mechanical Description of Physical Reality Be Considered Complete?},")
	assert.Equal(t, format.BibTeX(types.Dummy("10.9999/missing")), cp.copied[1])

	printed := out.String()
	assert.Equal(t, 4, strings.Count(printed, Prompt))
	assert.Contains(t, printed, cp.copied[0]+"\n")
	assert.Contains(t, printed, "year={404},")
}

func TestRun_QuitStops(t *testing.T) {
	in := strings.NewReader("quit\n10.1103/PhysRev.47.777\n")
	var out bytes.Buffer
	cp := &recordingCopier{}

	require.NoError(t, New(testRegistry, cp, in, &out).Run(context.Background()))
	assert.Empty(t, cp.copied)
}

func TestRun_MalformedRecordDoesNotEndSession(t *testing.T) {
	in := strings.NewReader("10.1/bad\n10.1103/PhysRev.47.777\n")
	var out bytes.Buffer
	cp := &recordingCopier{}

	require.NoError(t, New(testRegistry, cp, in, &out).Run(context.Background()))
	assert.Contains(t, out.String(), "error: ")
	assert.Len(t, cp.copied, 1)
}

func TestRun_CopyFailureIsNotFatal(t *testing.T) {
	in := strings.NewReader("10.1103/PhysRev.47.777\n10.9999/x\n")
	var out bytes.Buffer
	cp := &recordingCopier{err: errors.New("no display")}

	require.NoError(t, New(testRegistry, cp, in, &out).Run(context.Background()))
	assert.Len(t, cp.copied, 2)
	assert.NotContains(t, out.String(), "error: ")
}

func TestRun_NilCopier(t *testing.T) {
	in := strings.NewReader("10.1103/PhysRev.47.777\n")
	var out bytes.Buffer

	require.NoError(t, New(testRegistry, nil, in, &out).Run(context.Background()))
	assert.Contains(t, out.String(), "@article{")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(testRegistry, nil, strings.NewReader("10.1/x\n"), &bytes.Buffer{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
