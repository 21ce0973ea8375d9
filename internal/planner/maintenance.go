package planner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wrangleapp/wrangle/internal/logging"
)

// Maintenance runs the coordinator's recurring housekeeping. The only job so
// far is the midnight reminder replay, which rebuilds the in-process
// notification queue for the new day.
type Maintenance struct {
	cron *cron.Cron
	log  *logging.Logger
}

func NewMaintenance(loc *time.Location, log *logging.Logger) *Maintenance {
	if log == nil {
		log = logging.Nop()
	}
	return &Maintenance{
		cron: cron.New(cron.WithLocation(loc)),
		log:  log.Named("maintenance"),
	}
}

// ScheduleDailyReplay registers a reminder replay at the given HH:MM local
// time, every day.
func (m *Maintenance) ScheduleDailyReplay(timeStr string, coord *Coordinator) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return m.cron.AddFunc(spec, func() {
		if err := coord.ReplayReminders(context.Background()); err != nil {
			m.log.Warnw("reminder replay failed", "err", err)
		}
	})
}

func (m *Maintenance) Start() {
	m.cron.Start()
}

func (m *Maintenance) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: minute hour dom month dow
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
