// Copyright 2025 The GeoServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the address autocomplete server and CLI [DBG] application.

GeoServe turns keystrokes into place suggestions. Input is debounced, looked up in a
local gazetteer first and a remote geocoding provider (Nominatim or Mapbox) second,
merged under one result limit, and navigated with the keyboard. Choosing a result
yields the map viewport that frames it.

# Usage

Start the IPC server with default settings:

	geoserve

Use a local places file, a Mapbox token and debug logs:

	geoserve -places data/places.toml -provider mapbox -token pk.xxx -d

Run the terminal UI for interactive testing:

	geoserve -c -limit 8

Compile a TOML places file into the binary snapshot format:

	geoserve -places data/places.toml -snapshot data/places.bin

# Configuration

Runtime configuration lives in a TOML file, created with defaults on first run:

	[autocomplete]
	debounce_ms = 300
	limit = 5
	point_zoom = 16.0

	[remote]
	provider = "nominatim"
	rate_interval_ms = 1000

	[gazetteer]
	path = "places.toml"

Flags override the file.

# IPC Protocol

The server speaks MessagePack over stdin/stdout, see package server. Logs go to stderr.

	{"id": "1", "op": "input", "q": "berl"}
	{"ev": "results", "q": "berl", "r": [{"n": "Berlin, Germany", "x": 13.4, "y": 52.5, "r": 1}], "sel": 0}

# Command Line Flags

	-version      Show current version
	-config       Path to a config file
	-rebuild      Rewrite the default config file and exit
	-d            Enable debug mode with detailed logging
	-c            Run the terminal UI instead of the server
	-places       Local gazetteer file (.toml or .bin)
	-snapshot     Write the loaded gazetteer as a binary snapshot and exit
	-provider     Remote provider: nominatim or mapbox
	-token        Provider access token
	-limit        Number of results to return
	-local-only   Never query the remote provider
	-log          Log file for the terminal UI
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/geoserve/internal/cli"
	"github.com/bastiangx/geoserve/internal/logger"
	"github.com/bastiangx/geoserve/internal/utils"
	"github.com/bastiangx/geoserve/pkg/autocomplete"
	"github.com/bastiangx/geoserve/pkg/config"
	"github.com/bastiangx/geoserve/pkg/gazetteer"
	"github.com/bastiangx/geoserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "geoserve"
	gh      = "https://github.com/bastiangx/geoserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, providers and the gazetteer, then hands over to the server or the CLI.
func main() {
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a custom config file")
	rebuild := flag.Bool("rebuild", false, "Rewrite the default config file and exit")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the terminal UI -- useful for testing and debugging")
	placesPath := flag.String("places", "", "Local gazetteer file (.toml or .bin)")
	snapshot := flag.String("snapshot", "", "Write the loaded gazetteer as a binary snapshot to this path and exit")
	provider := flag.String("provider", "", "Remote provider (nominatim, mapbox)")
	token := flag.String("token", "", "Access token for the remote provider")
	limit := flag.Int("limit", 0, fmt.Sprintf("Number of results to return (default %d)", defaults.Autocomplete.Limit))
	localOnly := flag.Bool("local-only", false, "Never query the remote provider")
	logFile := flag.String("log", "", "Log file for the terminal UI")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *rebuild {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Infof("Wrote default config to %s", path)
		return
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedPath))

	// flags override the file
	if *provider != "" {
		cfg.Remote.Provider = *provider
	}
	if *token != "" {
		cfg.Remote.AccessToken = *token
	}
	if *limit > 0 {
		cfg.Autocomplete.Limit = *limit
	}
	if *localOnly {
		cfg.Autocomplete.LocalOnly = true
	}
	if *placesPath != "" {
		cfg.Gazetteer.Path = *placesPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	gaz := loadGazetteer(pathResolver, cfg.Gazetteer)
	if *snapshot != "" {
		if gaz == nil {
			log.Fatal("No gazetteer loaded, nothing to snapshot")
		}
		if err := gaz.Save(*snapshot); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
		log.Infof("Wrote %d places to %s", gaz.Len(), *snapshot)
		return
	}

	opts := cfg.ControllerOptions()
	opts.Logger = logger.New("autocomplete")
	if gaz != nil {
		opts.LocalGeocoder = gaz.Geocoder(cfg.Autocomplete.Limit)
	}
	if !cfg.Autocomplete.LocalOnly {
		client, err := cfg.Remote.NewClient()
		if err != nil {
			log.Fatalf("Failed to create %s client: %v", cfg.Remote.Provider, err)
		}
		opts.Client = client
	} else if gaz == nil {
		log.Warn("Local-only mode without a gazetteer, every lookup will be empty")
	}

	// The CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		runCLI(opts, cfg, *logFile, *debugMode)
		return
	}

	sigHandler()
	log.Debug("spawning IPC")
	srv, err := server.NewServer(opts, cfg.Server.MaxQuery)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	showStartupInfo(cfg, gaz)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func loadGazetteer(pr *utils.PathResolver, gc config.GazetteerConfig) *gazetteer.Gazetteer {
	if gc.Path == "" {
		log.Debug("No gazetteer configured")
		return nil
	}
	path, ok := pr.ResolvePlacesFile(gc.Path)
	if !ok {
		log.Warnf("Places file %s not found, running without a gazetteer", gc.Path)
		return nil
	}
	gaz, err := gazetteer.Open(path, gazetteer.Options{Fuzzy: gc.Fuzzy, MinQuery: gc.MinQuery})
	if err != nil {
		log.Fatalf("Failed to load gazetteer: %v", err)
	}
	log.Debug("Gazetteer loaded", "path", path, "places", gaz.Len())
	return gaz
}

// runCLI owns the terminal, so logs move to a file or are silenced.
func runCLI(opts autocomplete.Options, cfg *config.Config, logFile string, debug bool) {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	if logFile != "" {
		l, closer, err := logger.NewFile(logFile, "geoserve", level)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer closer.Close()
		log.SetDefault(l)
		opts.Logger = l.WithPrefix("autocomplete")
	} else {
		log.SetLevel(log.FatalLevel)
		opts.Logger = log.New(io.Discard)
	}

	inputHandler := cli.NewInputHandler(opts, cfg.Server.MaxQuery)
	if err := inputHandler.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ GeoServe ] Address autocomplete for maps")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(cfg *config.Config, gaz *gazetteer.Gazetteer) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	places := 0
	if gaz != nil {
		places = gaz.Len()
	}
	remote := cfg.Remote.Provider
	if cfg.Autocomplete.LocalOnly {
		remote = "off"
	}

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Info("init: OK", "places", places, "remote", remote, "limit", cfg.Autocomplete.Limit)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
