package job

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Service runs registered jobs on a fixed interval until the context is done.
// Each job runs once immediately at start.
type Service struct {
	jobs []job
	wg   sync.WaitGroup
}

type job struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
}

func NewService() *Service {
	return &Service{}
}

func (s *Service) RegisterJob(name string, interval time.Duration, fn func(ctx context.Context) error) *Service {
	s.jobs = append(s.jobs, job{name: name, interval: interval, fn: fn})
	return s
}

func (s *Service) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)

		go func(j job) {
			defer s.wg.Done()
			s.run(ctx, j)
		}(j)
	}
}

// Stop blocks until every job loop has returned.
func (s *Service) Stop() {
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, j job) {
	l := slog.Default().With("job", j.name)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		if err := runOnce(ctx, j); err != nil {
			l.Error("job failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runOnce(ctx context.Context, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("job panic", "job", j.name, "error", r, "stack", string(debug.Stack()))
		}
	}()

	return j.fn(ctx)
}
