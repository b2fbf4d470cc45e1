// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper drops expired sessions and reports how many it removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Scheduler sweeps expired sessions on a cron schedule. Expiry is already
// enforced on every lookup; the sweep only reclaims memory and rows.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	log     zerolog.Logger
}

// New creates a scheduler. schedule accepts standard cron expressions and
// descriptors such as "@every 1m".
func New(schedule string, sweeper Sweeper, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		log:     log,
	}
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Run starts the schedule and blocks until ctx is cancelled. A sweep in
// progress is allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Msg("Scheduler: starting session sweeper")
	s.cron.Start()

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler: stopped")
	return nil
}

func (s *Scheduler) sweep() {
	removed, err := s.sweeper.Sweep(context.Background())
	if err != nil {
		s.log.Error().Err(err).Msg("Scheduler: session sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("Scheduler: expired sessions swept")
	}
}
