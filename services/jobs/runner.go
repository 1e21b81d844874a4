package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner schedules background jobs. It is constructed explicitly and
// injected where needed; there is no ambient global scheduler. Callers own
// the lifecycle: Add jobs, Start, and Stop on shutdown.
type Runner struct {
	cron *cron.Cron
}

// NewRunner creates a stopped runner in the given location
func NewRunner(loc *time.Location) *Runner {
	if loc == nil {
		loc = time.UTC
	}
	return &Runner{cron: cron.New(cron.WithLocation(loc))}
}

// Add schedules fn under the given cron spec. The name only labels logs.
func (r *Runner) Add(spec, name string, fn func()) error {
	_, err := r.cron.AddFunc(spec, func() {
		log.Printf("[CRON] Running job %s", name)
		fn()
	})
	if err != nil {
		return err
	}
	log.Printf("[CRON] Scheduled job %s (%s)", name, spec)
	return nil
}

// Start begins running scheduled jobs in their own goroutine
func (r *Runner) Start() {
	r.cron.Start()
	log.Println("[CRON] Runner started")
}

// Stop stops scheduling and waits for running jobs to finish
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Println("[CRON] Runner stopped")
}
