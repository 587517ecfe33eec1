// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes citation rendering over HTTP. Every request
// resolves its own Reference; nothing is shared between requests except the
// registry client.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/refcite/internal/format"
	"github.com/pdiddy/refcite/internal/normalize"
	"github.com/pdiddy/refcite/internal/registry"
	"github.com/pdiddy/refcite/pkg/types"
)

// Server serves citations for DOIs given as the trailing path.
//
//	GET /jjap-like/{doi}      journal style, initialed authors
//	GET /jjap-fullname/{doi}  journal style, full author names
//	GET /bibtex/{doi}         BibTeX entry
//	GET /reference/{doi}      normalized record as JSON
type Server struct {
	lookup registry.Lookuper
	cfg    types.ServerConfig
	mux    *http.ServeMux
}

// New creates a Server that resolves DOIs through lookup.
func New(lookup registry.Lookuper, cfg types.ServerConfig) *Server {
	s := &Server{lookup: lookup, cfg: cfg, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /jjap-like/{doi...}", s.citation(format.StyleJournal))
	s.mux.HandleFunc("GET /jjap-fullname/{doi...}", s.citation(format.StyleJournalFullName))
	s.mux.HandleFunc("GET /bibtex/{doi...}", s.citation(format.StyleBibTeX))
	s.mux.HandleFunc("GET /reference/{doi...}", s.reference)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	slog.Info("request",
		"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("serving citations", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) citation(style format.Style) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolve(w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, format.Render(ref, style))
	}
}

func (s *Server) reference(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.resolve(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ref); err != nil {
		slog.Warn("encoding reference", "doi", ref.DOI, "err", err)
	}
}

// resolve looks up the DOI from the request path. It writes the error
// response itself and reports false when there is nothing to render.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (types.Reference, bool) {
	doi := r.PathValue("doi")
	ref, err := registry.Resolve(r.Context(), s.lookup, doi)
	switch {
	case err == nil:
		return ref, true
	case errors.Is(err, normalize.ErrMalformedPayload):
		slog.Error("malformed registry payload", "doi", doi, "err", err)
		http.Error(w, "registry returned a malformed record", http.StatusBadGateway)
	case r.Context().Err() != nil:
		// Client went away; nobody is listening for a response.
	default:
		slog.Error("resolving doi", "doi", doi, "err", err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
	}
	return types.Reference{}, false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
