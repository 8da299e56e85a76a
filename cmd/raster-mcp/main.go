package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/raster-tools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("raster-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("raster-mcp - MCP server for raster image processing")
			fmt.Println()
			fmt.Println("Usage: raster-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  RASTER_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  RASTER_MCP_NOISE_SEED=N       Seed noise steps for reproducible output")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		default:
			fmt.Fprintf(os.Stderr, "raster-mcp: unknown argument %q (try --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := configFromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug {
		log.Printf("Raster MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func configFromEnv() (server.Config, error) {
	cfg := server.Config{
		Debug: os.Getenv("RASTER_MCP_LOG_LEVEL") == "debug",
	}
	if v := os.Getenv("RASTER_MCP_NOISE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("RASTER_MCP_NOISE_SEED: %w", err)
		}
		cfg.NoiseSeed = &seed
	}
	return cfg, nil
}
