package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-editor-mcp/internal/config"
	"github.com/ironsheep/image-editor-mcp/internal/editor"
	"github.com/ironsheep/image-editor-mcp/internal/server"
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
			fmt.Printf("image-editor-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	configPath := flag.String("config", "", "Path to a TOML config file")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *debugMode {
		cfg.LogLevel = "debug"
	}

	logger := cfg.NewLogger()
	logger.WithFields(logrus.Fields{
		"version":            Version,
		"build_time":         BuildTime,
		"commit":             GitCommit,
		"max_load_dimension": cfg.MaxLoadDimension,
		"history_limit":      cfg.HistoryLimit,
	}).Debug("Starting image editor MCP server")

	opts, err := cfg.EngineOptions()
	if err != nil {
		logger.WithError(err).Fatal("Invalid engine options")
	}

	srv := server.New(editor.New(opts), logger)
	if err := srv.Run(); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}

func printHelp() {
	fmt.Println("image-editor-mcp - MCP server for interactive raster image editing")
	fmt.Println()
	fmt.Println("Usage: image-editor-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println("  --config PATH    Read settings from a TOML file")
	fmt.Println("  --debug          Enable debug logging")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  IMAGE_EDITOR_CONFIG=path           TOML config file (if --config is not given)")
	fmt.Println("  IMAGE_EDITOR_MAX_DIMENSION=500     Largest width/height kept when opening")
	fmt.Println("  IMAGE_EDITOR_HISTORY_LIMIT=0       Undo depth, 0 for unbounded")
	fmt.Println("  IMAGE_EDITOR_BACKGROUND=#000000    Fill color for rotated corners")
	fmt.Println("  IMAGE_EDITOR_LOG_LEVEL=debug       Log level (debug, info, warn, error)")
	fmt.Println("  IMAGE_EDITOR_LOG_FORMAT=json       Log format (text, json)")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Logs are written to stderr.")
}
