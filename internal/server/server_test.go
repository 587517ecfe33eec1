// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/refcite/pkg/types"
)

const knownDOI = "10.1063/1.1234567"

// fakeRegistry serves a fixed record for knownDOI, a malformed one for
// "10.1/bad", and NotFound for everything else.
type fakeRegistry struct {
	mu   sync.Mutex
	seen []string
}

func (f *fakeRegistry) Lookup(_ context.Context, doi string) (types.LookupResult, error) {
	f.mu.Lock()
	f.seen = append(f.seen, doi)
	f.mu.Unlock()

	switch doi {
	case knownDOI:
		return types.Found(types.RawRecord{
			"title":                 []any{"quantum entanglement and the measurement problem"},
			"author":                []any{map[string]any{"given": "John Q", "family": "Public"}},
			"container-title":       []any{"Journal of Applied Physics"},
			"short-container-title": []any{"J. Appl. Phys."},
			"volume":                "12",
			"issue":                 "3",
			"page":                  "45",
			"issued":                map[string]any{"date-parts": []any{[]any{json.Number("2020")}}},
		}), nil
	case "10.1/bad":
		return types.Found(types.RawRecord{"author": "not a list"}), nil
	case "10.1/error":
		return types.NotFound(), fmt.Errorf("limiter broke")
	default:
		return types.NotFound(), nil
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCitationEndpoints(t *testing.T) {
	s := New(&fakeRegistry{}, types.Defaults().Server)

	tests := []struct {
		name       string
		path       string
		wantPrefix string
	}{
		{"jjap-like", "/jjap-like/" + knownDOI, "J. Q. Public. \"Quantum Entanglement and the Measurement Problem\", Journal of Applied Physics (J. Appl. Phys.), 12 (3), 45 (2020).\nDOI: https://doi.org/" + knownDOI},
		{"jjap-fullname", "/jjap-fullname/" + knownDOI, "John Q Public. \"Quantum"},
		{"bibtex", "/bibtex/" + knownDOI, "@article{\n  " + knownDOI + ",\n    author={John Q Public},\n    year={2020},"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(rec.Body.String(), tt.wantPrefix), rec.Body.String())
		})
	}
}

func TestUnknownDOIRendersDummy(t *testing.T) {
	s := New(&fakeRegistry{}, types.Defaults().Server)

	rec := get(t, s, "/bibtex/10.9999/nope")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "year={404},")
	assert.Contains(t, rec.Body.String(), "author={},")

	rec = get(t, s, "/jjap-like/10.9999/nope")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "(404).")
}

func TestDOIWithSlashesPassesThrough(t *testing.T) {
	reg := &fakeRegistry{}
	s := New(reg, types.Defaults().Server)

	get(t, s, "/bibtex/10.1002/adma.2020/part.1")
	require.Len(t, reg.seen, 1)
	assert.Equal(t, "10.1002/adma.2020/part.1", reg.seen[0])
}

func TestReferenceEndpoint(t *testing.T) {
	s := New(&fakeRegistry{}, types.Defaults().Server)

	rec := get(t, s, "/reference/"+knownDOI)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, knownDOI, got["doi"])
	assert.Equal(t, float64(2020), got["year"])
	assert.Equal(t, []any{"J. Q. Public"}, got["initial_authors"])

	rec = get(t, s, "/reference/10.9999/nope")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "404", got["year"])
	assert.Equal(t, []any{}, got["authors"])
}

func TestErrors(t *testing.T) {
	s := New(&fakeRegistry{}, types.Defaults().Server)

	assert.Equal(t, http.StatusBadGateway, get(t, s, "/bibtex/10.1/bad").Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, s, "/bibtex/10.1/error").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/apa/"+knownDOI).Code)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bibtex/"+knownDOI, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(&fakeRegistry{}, types.ServerConfig{ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/jjap-like/" + knownDOI)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "(2020)")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
