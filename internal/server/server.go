// Package server exposes the dataset analytics over a JSON HTTP API.
// Every report request loads the CSV fresh from disk, so responses always
// reflect the file as it is at request time.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/spf13/afero"

	"github.com/thoughtbruno/llm-researcher/internal/analysis"
	"github.com/thoughtbruno/llm-researcher/internal/archive"
)

// Config carries everything the API server needs to run.
type Config struct {
	Host        string
	Port        int
	DatasetPath string
	ArchivePath string
	Version     string
	Verbose     bool
	// Options bound the raw data modes; zero values take the defaults.
	Options analysis.Options
}

// Server wraps the HTTP listener and the state its handlers read from.
type Server struct {
	fs          afero.Fs
	datasetPath string
	store       *archive.Store
	version     string
	verbose     bool
	opts        analysis.Options
	server      *http.Server
}

// New builds a server on the OS filesystem and opens the report archive.
func New(cfg Config) (*Server, error) {
	store, err := archive.NewStore(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("open report archive: %w", err)
	}

	s := &Server{
		fs:          afero.NewOsFs(),
		datasetPath: cfg.DatasetPath,
		store:       store,
		version:     cfg.Version,
		verbose:     cfg.Verbose,
		opts:        cfg.Options,
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: s.registerRoutes(),
	}

	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start runs the listener in a goroutine tracked by wg. Listen failures
// other than a clean shutdown are reported on errChan.
func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() { _ = s.store.Close() }()

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

// Shutdown stops the listener, waiting for in-flight requests up to the
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
