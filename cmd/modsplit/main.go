package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/muyuanjin/modsplit/internal/config"
	"github.com/muyuanjin/modsplit/internal/engine"
	"github.com/muyuanjin/modsplit/internal/ledger"
	"github.com/muyuanjin/modsplit/internal/mcp"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("modsplit\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", ledger.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", ledger.DriverName)
		os.Exit(0)
	}

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		runServer()
		return
	}

	runSplit()
}

// runSplit performs a single split run and exits. This is the one-shot mode:
// resolve the plan, run the engine once, report, done.
func runSplit() {
	log.SetOutput(os.Stderr)

	plan, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load split plan: %v", err)
	}

	var led ledger.Ledger
	if plan.DBPath != "" {
		led, err = ledger.NewSQLiteLedger(plan.DBPath)
		if err != nil {
			log.Fatalf("Failed to open run ledger: %v", err)
		}
		defer func() { _ = led.Close() }()
	}

	result, err := engine.New(plan, led, os.Stdout).Run(context.Background())
	if err != nil {
		log.Fatalf("Split failed: %v", err)
	}

	log.Printf("Split complete: %d source lines, manifest %s (%d bytes) in %v",
		result.SourceLines, result.ManifestPath, result.ManifestBytes, result.Duration)
}

// runServer starts the MCP stdio server.
func runServer() {
	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)
	log.Printf("modsplit MCP server v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s", ledger.BuildMode, ledger.DriverName)

	dbPath := os.Getenv(config.EnvDBPath)
	if dbPath == "" {
		dbPath = mcp.DefaultDBPath
	}

	server, err := mcp.NewServer(dbPath)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}

	log.Println("Server stopped")
}
