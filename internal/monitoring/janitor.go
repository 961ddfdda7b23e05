package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/userhub-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Janitor purges audit events older than the retention window on a cron
// schedule.
type Janitor struct {
	eventSvc  services.EventServiceProvider
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

// NewJanitor creates a Janitor. The schedule accepts standard five-field cron
// expressions and descriptors such as @daily.
func NewJanitor(eventSvc services.EventServiceProvider, schedule string, retention time.Duration) (*Janitor, error) {
	j := &Janitor{
		eventSvc:  eventSvc,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
	if _, err := j.cron.AddFunc(schedule, j.purge); err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start runs the cron scheduler in its own goroutine.
func (j *Janitor) Start() {
	log.Info().Dur("retention", j.retention).Msg("Starting event retention janitor...")
	j.cron.Start()
}

// Stop halts the scheduler. The returned context is done once a running purge
// has finished.
func (j *Janitor) Stop() context.Context {
	log.Info().Msg("Stopping event retention janitor.")
	return j.cron.Stop()
}

func (j *Janitor) purge() {
	if _, err := j.PurgeNow(context.Background()); err != nil {
		log.Error().Err(err).Msg("Janitor: failed to purge events")
	}
}

// PurgeNow deletes expired events immediately and reports how many went.
func (j *Janitor) PurgeNow(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.retention)
	n, err := j.eventSvc.PurgeEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Janitor: purged expired events")
	}
	return n, nil
}
