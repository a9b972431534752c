package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atxtechbro/mcpdash/internal/config"
	"github.com/atxtechbro/mcpdash/internal/dashboard"
	"github.com/atxtechbro/mcpdash/internal/diag"
	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/logger"
	"github.com/atxtechbro/mcpdash/internal/monitor"
	"github.com/atxtechbro/mcpdash/internal/observability"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"
)

// shutdownTimeout bounds trace flushing on exit.
const shutdownTimeout = 5 * time.Second

// runDashboard loads config, starts the sync engine and runs the TUI until
// the user quits or the process is signalled.
func runDashboard(ctx context.Context, global GlobalFlags, flags DashboardFlags) error {
	cfg, cfgPath, err := loadConfig(global, flags.Apply)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Use 'mcpdash snapshot' (or 'mcpdash snapshot --json') for scripted output")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = config.DefaultLogFile()
	}
	log, closeLog, err := logger.NewFileLogger(logPath, cfg.Log.Level, "mcpdash")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+logPath,
			"Set log.file in your config or pass --log-file")
	}
	defer func() { _ = closeLog() }()
	if cfgPath != "" {
		log.Info("loaded config from %s", cfgPath)
	}

	palette := ResolvePalette(cfg.Theme, termenv.NewOutput(os.Stdout).HasDarkBackground)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	dash, err := dashboard.New(dashboard.Options{
		Server:           cfg.Server,
		PollInterval:     cfg.PollInterval,
		ReconnectDelay:   cfg.ReconnectDelay,
		FeedCapacity:     cfg.FeedCapacity,
		Palette:          palette,
		Kinds:            chartKinds(cfg.Charts),
		PushRefreshLimit: cfg.PushRefreshLimit,
		Logger:           log,
		Registerer:       reg,
	})
	if err != nil {
		return err
	}
	defer dash.Close()

	shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: "mcpdash",
		Version:     GetVersion(),
		InstanceID:  dash.ID(),
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("trace shutdown: %v", err)
		}
	}()

	if addr := cfg.Diagnostics.Addr; addr != "" {
		srv := diag.NewServer(dash, reg, log)
		go func() {
			if err := srv.Serve(ctx, addr); err != nil {
				log.Error("diagnostics server: %s", errors.Short(err))
			}
		}()
	}

	if err := dash.Start(ctx); err != nil {
		return err
	}

	model := monitor.NewModel(dash)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Dashboard exited unexpectedly",
			"Check the log at "+logPath)
	}
	return nil
}
