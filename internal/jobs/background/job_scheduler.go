// Package background runs the scheduled maintenance jobs: the nightly
// overdue sweep and the periodic analytics refresh.
package background

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/analytics"
	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/repositories"
)

const userPageSize = 1000

// JobScheduler manages the background jobs.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	analyticsSvc *analytics.Service
	invoiceRepo  repositories.InvoiceRepository
	userRepo     repositories.UserRepository
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

func NewJobScheduler(analyticsSvc *analytics.Service, invoiceRepo repositories.InvoiceRepository, userRepo repositories.UserRepository) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		analyticsSvc: analyticsSvc,
		invoiceRepo:  invoiceRepo,
		userRepo:     userRepo,
		jobs:         make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Info().Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Overdue sweep shortly after midnight, once per day
	overdueJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 15, 0))),
		gocron.NewTask(js.sweepOverdueInvoices, context.Background()),
		gocron.WithName("overdue-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create overdue sweep job")
	} else {
		js.jobs["overdue-sweep"] = overdueJob
	}

	// Analytics refresh every hour
	analyticsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.refreshAnalytics, context.Background()),
		gocron.WithName("analytics-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create analytics refresh job")
	} else {
		js.jobs["analytics-refresh"] = analyticsJob
	}

	log.Info().Int("count", len(js.jobs)).Msg("registered background jobs")
}

// sweepOverdueInvoices flips every sent invoice past its due date to
// overdue, across all users in one statement.
func (js *JobScheduler) sweepOverdueInvoices(ctx context.Context) error {
	flipped, err := js.invoiceRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("overdue sweep failed")
		return err
	}
	log.Info().Int64("flipped", flipped).Msg("overdue sweep completed")
	return nil
}

// refreshAnalytics recomputes the cached billing summary for every user,
// a few at a time.
func (js *JobScheduler) refreshAnalytics(ctx context.Context) error {
	start := time.Now()
	total := 0

	for offset := 0; ; offset += userPageSize {
		ids, err := js.userRepo.ListIDs(ctx, userPageSize, offset)
		if err != nil {
			log.Error().Err(err).Msg("failed to list users for analytics refresh")
			return err
		}
		if len(ids) == 0 {
			break
		}

		semaphore := make(chan struct{}, 5)
		var wg sync.WaitGroup
		for _, id := range ids {
			wg.Add(1)
			go func(userID uuid.UUID) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()

				if _, err := js.analyticsSvc.Refresh(ctx, userID); err != nil {
					log.Warn().Err(err).Str("user_id", userID.String()).Msg("analytics refresh failed for user")
				}
			}(id)
		}
		wg.Wait()
		total += len(ids)

		if len(ids) < userPageSize {
			break
		}
	}

	log.Info().Int("users", total).Dur("took", time.Since(start)).Msg("analytics refresh completed")
	return nil
}

// AddJob registers a custom interval job.
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}
	return nil
}

// Status reports the registered job names.
func (js *JobScheduler) Status() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}
