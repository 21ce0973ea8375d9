package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/mattn/go-sqlite3"

	"github.com/wrangleapp/wrangle/internal/calendar"
	"github.com/wrangleapp/wrangle/internal/config"
	"github.com/wrangleapp/wrangle/internal/logging"
	"github.com/wrangleapp/wrangle/internal/notify"
	"github.com/wrangleapp/wrangle/internal/planner"
	"github.com/wrangleapp/wrangle/internal/storage"
	"github.com/wrangleapp/wrangle/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wrangle failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.EnsureDirs(cfg); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	db, err := sql.Open("sqlite3", cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := storage.MigrateUp(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		return err
	}

	var store calendar.EventStore = calendar.DisabledStore{}
	if cfg.Calendar.Enabled {
		store = calendar.NewGoogleEventStore(cfg.Calendar.CredentialsDir, cfg.Calendar.CalendarName)
	}
	bridge := calendar.NewBridge(store, log)

	engine := notify.NewEngine(64)
	engine.Start()
	defer engine.Stop()

	sink := notify.DesktopSink{}
	probe := sink.Available
	if !cfg.Notification.Enabled {
		probe = func() bool { return false }
	}
	notifier := notify.NewNotifier(engine, probe, log)

	coord := planner.NewCoordinator(repo, bridge, notifier, log)

	ctx := context.Background()
	if err := coord.SeedTimeBlocks(ctx); err != nil {
		return err
	}
	if err := coord.ReplayReminders(ctx); err != nil {
		log.Warnw("startup reminder replay failed", "err", err)
	}

	maintenance := planner.NewMaintenance(time.Local, log)
	if _, err := maintenance.ScheduleDailyReplay("00:00", coord); err != nil {
		return err
	}
	maintenance.Start()
	defer maintenance.Stop()

	ui := update.UIConfigFromEnv(update.UIConfig{
		DayStartHour:           cfg.UI.DayStartHour,
		DayEndHour:             cfg.UI.DayEndHour,
		DefaultReminderMinutes: cfg.Defaults.ReminderMinutes,
	})
	model := update.NewModelWithReminders(coord, ui, engine.C())

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
