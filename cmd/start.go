package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timesheet-sync/core/loader"
	"timesheet-sync/core/logger"
	"timesheet-sync/core/middleware/auth"
	"timesheet-sync/core/middleware/rayid"
	"timesheet-sync/core/reconcile"
	"timesheet-sync/feature/integrity"
	"timesheet-sync/feature/timesheet"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP API and the refresh scheduler",
	Long:  `Starts the HTTP server, loads all enabled features and, when configured, refreshes the sheet on a cron schedule.`,
	RunE:  runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	logg := rt.logger
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	mgr := loader.NewManager(logg)
	mgr.Register(timesheet.NewFeature(rt.timesheet))
	mgr.Register(integrity.NewFeature(rt.integrity))

	// RayID first so every log line below carries it.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})
	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	scheduler, err := scheduleRefresh(rt)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
		if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	logg.Info("Shutting down server...")
	timeout := time.Duration(rt.cfg.Server.ShutdownTimeoutSeconds) * time.Second
	if scheduler != nil {
		// Wait for a running refresh so the sheet is not left half-written.
		select {
		case <-scheduler.Stop().Done():
		case <-time.After(timeout):
			logg.Warn("Scheduled refresh still running at shutdown")
		}
	}
	return app.ShutdownWithTimeout(timeout)
}

// scheduleRefresh starts the cron scheduler when a refresh schedule is configured.
func scheduleRefresh(rt *runtime) (*cron.Cron, error) {
	if !rt.cfg.Server.IsScheduled() {
		return nil, nil
	}
	schedule, err := rt.cfg.Server.Schedule()
	if err != nil {
		return nil, err
	}
	loc, err := rt.cfg.Calendar.LoadLocation()
	if err != nil {
		return nil, err
	}

	l := rt.logger.With(zap.String("job", "refresh"))
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{l: l}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{l: l})),
	)
	c.Schedule(schedule, cron.FuncJob(func() {
		result, err := rt.timesheet.Refresh(context.Background(), reconcile.ReconcileOptions{Confirmed: true})
		if err != nil {
			l.Error("Scheduled refresh failed", zap.Error(err))
			return
		}
		l.Info("Scheduled refresh done",
			zap.Int("added", result.Applied.Added),
			zap.Int("updated", result.Applied.Updated),
			zap.Int("deleted", result.Applied.Deleted),
		)
	}))
	c.Start()

	l.Info("Refresh scheduled", zap.String("schedule", rt.cfg.Server.RefreshSchedule))
	return c, nil
}

// cronLogger routes cron's logging through zap.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
