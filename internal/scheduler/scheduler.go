package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"lifedash/config"
	"lifedash/internal/service"
)

// Scheduler runs the recurring jobs: the nightly horizon roll (the 180-day
// window starts at "today", so the whole agenda is rederived at midnight)
// and the morning digest.
type Scheduler struct {
	cron   *cron.Cron
	cfg    *config.Config
	log    zerolog.Logger
	agenda *service.AgendaService
}

func New(cfg *config.Config, log zerolog.Logger, agenda *service.AgendaService) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))
	return &Scheduler{
		cron:   c,
		cfg:    cfg,
		log:    log,
		agenda: agenda,
	}
}

// Start registers the jobs and blocks until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc("0 0 * * *", s.rollHorizon); err != nil {
		return fmt.Errorf("add horizon roll: %w", err)
	}

	morningSpec, err := cronSpecForTime(s.cfg.MorningTime)
	if err != nil {
		return fmt.Errorf("morning time: %w", err)
	}
	if _, err := s.cron.AddFunc(morningSpec, s.morningDigest); err != nil {
		return fmt.Errorf("add morning digest: %w", err)
	}

	s.cron.Start()
	s.log.Info().
		Str("tz", s.cfg.Timezone.String()).
		Str("morning", s.cfg.MorningTime).
		Msg("scheduler started")

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) rollHorizon() {
	if err := s.agenda.Refresh(); err != nil {
		s.log.Error().Err(err).Msg("horizon roll failed")
	}
}

func (s *Scheduler) morningDigest() {
	if !s.agenda.PublishDigest() {
		s.log.Debug().Msg("no upcoming events, digest skipped")
	}
}

// cronSpecForTime turns "HH:MM" into a daily cron spec.
func cronSpecForTime(hhmm string) (string, error) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time format: %s", hhmm)
	}
	return fmt.Sprintf("%s %s * * *", parts[1], parts[0]), nil
}
