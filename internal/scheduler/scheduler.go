package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"MarketPulse/internal/logger"
)

// every fires at a fixed interval measured from the previous fire time.
// Unlike cron.Every it keeps sub-second precision.
type every struct{ d time.Duration }

func (e every) Next(t time.Time) time.Time { return t.Add(e.d) }

type task struct {
	name string
	job  cron.Job
}

// Scheduler runs the periodic background tasks. Each task runs at most once
// at a time; a tick that arrives while the previous run is still busy is
// skipped.
type Scheduler struct {
	Cron *cron.Cron
	Ctx  context.Context

	chain cron.Chain
	tasks []task
	wg    sync.WaitGroup
}

// NewScheduler creates a Scheduler whose tasks receive ctx.
func NewScheduler(ctx context.Context) *Scheduler {
	cl := logger.CronLogger{L: log.Logger.With().Str("component", "scheduler").Logger()}
	return &Scheduler{
		Cron:  cron.New(cron.WithLogger(cl)),
		Ctx:   ctx,
		chain: cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	}
}

// Every registers fn to run every interval.
func (s *Scheduler) Every(name string, interval time.Duration, fn func(ctx context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("register %s: interval must be positive", name)
	}
	job := s.chain.Then(cron.FuncJob(func() {
		if s.Ctx.Err() != nil {
			return
		}
		fn(s.Ctx)
	}))
	s.Cron.Schedule(every{d: interval}, job)
	s.tasks = append(s.tasks, task{name: name, job: job})
	log.Debug().Str("task", name).Dur("interval", interval).Msg("task registered")
	return nil
}

// Start starts the cron scheduler. With runNow every task also runs once
// immediately instead of waiting for its first tick.
func (s *Scheduler) Start(runNow bool) {
	if runNow {
		for _, t := range s.tasks {
			s.wg.Add(1)
			go func(t task) {
				defer s.wg.Done()
				t.job.Run()
			}(t)
		}
	}
	s.Cron.Start()
	log.Info().Int("tasks", len(s.tasks)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Info().Msg("scheduler stopped")
}
