package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kauel/railsim/internal/track"
	"github.com/peterh/liner"
)

// RunShell starts the interactive track-building and train-stepping
// session. It blocks until the user types exit/quit or aborts the prompt
// with Ctrl-D.
func RunShell(args []string) error {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	configFile := fs.String("config", "", "path to shell config file (optional)")
	loadFile := fs.String("load", "", "track layout file to load on startup (optional)")
	metricsAddr := fs.String("metrics-addr", "", "address for the /metrics and /health admin endpoint (optional)")
	fs.Parse(args)

	cfg, err := loadShellConfig(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	setLogLevel(cfg.LogLevel)

	savePath := cfg.DefaultSavePath
	if *loadFile != "" {
		savePath = *loadFile
	}

	net := &track.Network{Store: track.NewFileStore(savePath)}
	if *loadFile != "" {
		if err := net.Load(); err != nil {
			return fmt.Errorf("failed to load track layout: %w", err)
		}
	}

	metrics := newSimMetrics()
	shutdownMetrics := startMetricsServer(cfg.MetricsAddr, metrics)
	defer shutdownMetrics(context.Background())

	sess := &session{net: net, metrics: metrics, out: os.Stdout}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(os.Stdout, "railroad signaling simulator. Type \"help\" for commands.")

	for {
		input, err := line.Prompt(cfg.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(os.Stdout, "aborted")
				continue
			}
			break
		}
		line.AppendHistory(input)

		fields := strings.Fields(strings.TrimSpace(input))
		if !sess.dispatch(fields) {
			break
		}
	}

	if f, err := os.Create(cfg.HistoryFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
	return nil
}

func setLogLevel(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetLogLoggerLevel(lvl)
}
