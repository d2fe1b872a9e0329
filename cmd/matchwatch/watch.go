package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cncoverlay/matchwatch/internal/config"
	"github.com/cncoverlay/matchwatch/internal/logfinder"
	"github.com/cncoverlay/matchwatch/internal/overlay"
	"github.com/cncoverlay/matchwatch/internal/remote"
	"github.com/cncoverlay/matchwatch/pkg/matchwatch"
)

const shutdownTimeout = 5 * time.Second

var (
	// watch flags
	logPath           string
	apiURL            string
	overlayDir        string
	listenAddr        string
	format            string
	watchIncludeTypes []string
	watchExcludeTypes []string
	includeRaw        bool
	fromEnd           bool
	pollInterval      time.Duration
	hideDelay         time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the game log and publish match rosters to the overlay",
	Long: `Follow the game client's log, look up each quickmatch on the matchmaking
service and publish the roster to the overlay.

Detected events are written to stdout as JSON Lines by default.

Examples:
  # Auto-detect the log and use the configured service URL
  matchwatch watch

  # Explicit log file and service URL
  matchwatch watch --log ~/Documents/CnCRemastered/game.log \
    --api-url https://matchmaking.example.com/observer

  # Serve the overlay to browser sources on ws://localhost:8787/ws
  matchwatch watch --listen localhost:8787

  # Human-readable output, rosters only
  matchwatch watch --format pretty --include-types roster`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&logPath, "log", "l", "",
		"Game log file or directory (auto-detected if not specified)")
	watchCmd.Flags().StringVar(&apiURL, "api-url", "",
		"Matchmaking observer endpoint (overrides config and "+config.EnvAPIURL+")")
	watchCmd.Flags().StringVar(&overlayDir, "overlay-dir", "",
		"Directory receiving "+overlay.StateFileName)
	watchCmd.Flags().StringVar(&listenAddr, "listen", "",
		"Serve the overlay over HTTP/websocket on this address")
	watchCmd.Flags().StringVarP(&format, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	watchCmd.Flags().StringSliceVar(&watchIncludeTypes, "include-types", nil,
		"Event types to include (comma-separated: match_found,roster,match_ended)")
	watchCmd.Flags().StringSliceVar(&watchExcludeTypes, "exclude-types", nil,
		"Event types to exclude (comma-separated)")
	watchCmd.Flags().BoolVar(&includeRaw, "raw", false,
		"Include raw trigger lines in output")
	watchCmd.Flags().BoolVar(&fromEnd, "from-end", false,
		"Skip the existing log content and only react to new lines")
	watchCmd.Flags().DurationVar(&pollInterval, "poll", 0,
		"Poll interval (default from config, 10s)")
	watchCmd.Flags().DurationVar(&hideDelay, "hide-delay", 0,
		"Delay before hiding the overlay after a match ends (default from config, 10s)")

	registerEventTypeCompletion(watchCmd, "include-types")
	registerEventTypeCompletion(watchCmd, "exclude-types")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format %q: must be one of: jsonl, pretty", format)
	}
	includes, excludes, err := parseTypeFlags(watchIncludeTypes, watchExcludeTypes)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyWatchFlags(cmd, &cfg)

	logger := newLogger(cmd.ErrOrStderr())

	path, err := logfinder.FindLogFile(cfg.LogPath)
	if err != nil {
		return err
	}
	client, err := remote.NewClient(cfg.APIURL, remote.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("%w (set api_url in %s, %s or --api-url)", err, cfg.Path, config.EnvAPIURL)
	}

	file, err := overlay.NewFileNotifier(cfg.OverlayDir)
	if err != nil {
		return err
	}
	if err := file.WritePlaceholder(); err != nil {
		return err
	}
	notifiers := overlay.Multi{file}

	var hub *overlay.Hub
	if cfg.OverlayListen != "" {
		hub = overlay.NewHub(logger)
		notifiers = append(notifiers, hub)
	}

	out := cmd.OutOrStdout()
	opts := []matchwatch.WatchOption{
		matchwatch.WithLogger(logger),
		matchwatch.WithNotifier(notifiers),
		matchwatch.WithSettings(config.SettingsFile{Path: cfg.Path}),
		matchwatch.WithPollInterval(cfg.PollInterval),
		matchwatch.WithHideDelay(cfg.HideDelay),
		matchwatch.WithFromEnd(fromEnd),
		matchwatch.WithIncludeRawLine(includeRaw),
		matchwatch.WithEventHandler(func(ev matchwatch.Event) {
			if err := OutputEvent(format, ev, out); err != nil {
				logger.Warn("output error", "error", err)
			}
		}),
	}
	if len(includes) > 0 {
		opts = append(opts, matchwatch.WithIncludeTypes(includes...))
	}
	if len(excludes) > 0 {
		opts = append(opts, matchwatch.WithExcludeTypes(excludes...))
	}

	watcher, err := matchwatch.NewWatcher(path, client, opts...)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("watching game log", "path", path, "overlay", file.Path())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	if hub != nil {
		srv := newOverlayServer(cfg.OverlayListen, cfg.OverlayDir, hub)
		g.Go(func() error {
			logger.Info("serving overlay", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("overlay server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			hub.Close()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}

// applyWatchFlags lets explicitly set flags win over config and environment.
func applyWatchFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log") {
		cfg.LogPath = logPath
	}
	if flags.Changed("api-url") {
		cfg.APIURL = apiURL
	}
	if flags.Changed("overlay-dir") {
		cfg.OverlayDir = overlayDir
	}
	if flags.Changed("listen") {
		cfg.OverlayListen = listenAddr
	}
	if flags.Changed("poll") {
		cfg.PollInterval = pollInterval
	}
	if flags.Changed("hide-delay") {
		cfg.HideDelay = hideDelay
	}
}

// newOverlayServer serves the websocket hub on /ws and the overlay directory
// (including the state file) on /.
func newOverlayServer(addr, dir string, hub *overlay.Hub) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/", http.FileServer(http.Dir(dir)))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
