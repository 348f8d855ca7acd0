/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoughtbruno/llm-researcher/internal/server"
)

var (
	serveHost string
	servePort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports and raw data over a JSON HTTP API",
	Long: `Start an HTTP server that exposes the dataset analytics as JSON.

Endpoints:
  GET /health                  liveness plus dataset reachability
  GET /api/reports/{type}      one of the five report types
  GET /api/data/{format}       sample, full, columns or summary
  GET /api/schema              column names, inferred types, null counts
  GET /api/archive             archived report summaries
  GET /api/archive/{id}        one archived report (id prefix works)

Every request reads the CSV fresh from disk, so edits to the file show
up on the next call without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	start := time.Now()

	host := viper.GetString("server.host")
	if serveHost != "" {
		host = serveHost
	}
	port := viper.GetInt("server.port")
	if servePort != 0 {
		port = servePort
	}

	srv, err := server.New(server.Config{
		Host:        host,
		Port:        port,
		DatasetPath: datasetPath(),
		ArchivePath: viper.GetString("archive.path"),
		Version:     GetVersion(),
		Verbose:     isVerbose(),
		Options:     analysisOptions(),
	})
	if err != nil {
		trackCommand("serve", start, false)
		return err
	}

	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	srv.Start(&wg, errChan)

	if !isQuiet() {
		fmt.Println("🚀 Researcher API listening on http://" + srv.Addr())
		fmt.Println("   Dataset: " + datasetPath())
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		fmt.Println("Press Ctrl+C to stop")
	}
	trackCommand("serve", start, true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		if !isQuiet() {
			fmt.Println("\n⏹️  Shutting down...")
		}
	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
	}
	wg.Wait()

	if !isQuiet() {
		fmt.Println("✅ Server stopped")
	}
	return nil
}
