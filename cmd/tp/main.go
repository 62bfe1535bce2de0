package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/taskpeek/internal/api"
	"github.com/vanderheijden86/taskpeek/pkg/config"
	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/metrics"
	"github.com/vanderheijden86/taskpeek/pkg/ui"
	"github.com/vanderheijden86/taskpeek/pkg/version"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	serverURL := flag.String("url", "", "Task server base URL (overrides config and "+config.EnvURL+")")
	address := flag.String("route", "", "Address to open, e.g. '#/task/T1' or '#/list?status=to_do'")
	configPath := flag.String("config", "", "Config file (default "+config.ConfigPath()+")")
	pageSize := flag.Int("page-size", 0, "Tasks per page (1-200)")
	jsonFlag := flag.Bool("json", false, "Print the addressed view as JSON instead of starting the TUI")
	debugFlag := flag.Bool("debug", false, "Enable debug logging to stderr")
	debugLog := flag.String("debug-log", "", "Write debug log to file")
	flag.Parse()

	if *help {
		fmt.Println("Usage: tp [options] [address]")
		fmt.Println("\nA terminal dashboard for a taskman server.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("tp %s\n", version.Version)
		os.Exit(0)
	}

	if *address == "" && flag.NArg() > 0 {
		*address = flag.Arg(0)
	}

	if *debugLog != "" {
		f, err := os.OpenFile(*debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not open debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		debug.SetOutput(f)
	} else if *debugFlag {
		debug.SetEnabled(true)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *pageSize != 0 {
		if *pageSize < 1 || *pageSize > api.MaxTaskLimit {
			fmt.Fprintf(os.Stderr, "Error: --page-size must be between 1 and %d\n", api.MaxTaskLimit)
			os.Exit(2)
		}
		cfg.List.PageSize = *pageSize
	}
	debug.Dump("config", cfg)

	client := api.NewClient(cfg.Server.URL, api.WithTimeout(cfg.Server.Timeout))

	if *jsonFlag || !term.IsTerminal(int(os.Stdout.Fd())) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := dump(ctx, os.Stdout, client, cfg, *address)
		stop()
		logMetrics()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m := ui.New(ui.Options{Client: client, Config: cfg, Start: *address})
	err = runTUIProgram(m)
	logMetrics()
	if err != nil {
		fmt.Printf("Error running taskpeek: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

// logMetrics writes the collected timings and cache counters to the debug log.
func logMetrics() {
	if !debug.Enabled() {
		return
	}
	for _, s := range metrics.AllTimingStats() {
		if s.Count == 0 {
			continue
		}
		debug.Log("metric %s: n=%d avg=%.1fms max=%.1fms", s.Name, s.Count, s.AvgMs, s.MaxMs)
	}
	for _, s := range metrics.AllCacheStats() {
		debug.Log("cache %s: hits=%d misses=%d ratio=%.2f", s.Name, s.Hits, s.Misses, s.HitRatio)
	}
}
