package loginrecorder

import (
	"context"
	"sync"
	"time"

	"github.com/nkiryanov/messagely/internal/logger"
	"github.com/nkiryanov/messagely/internal/metrics"
)

const (
	defaultCountWorkers = 4               // Number of workers to update timestamps
	defaultQueueSize    = 256             // Pending updates; new ones are dropped when full
	defaultTimeout      = 5 * time.Second // Time limit for single update
)

type userRepo interface {
	UpdateLoginTimestamp(ctx context.Context, username string) (time.Time, error)
}

type counter interface {
	LoginUpdate(result string)
}

type Config struct {
	CountWorkers int
	QueueSize    int
	Timeout      time.Duration
}

// Recorder updates users last login time in background
// Callers never wait for the update and never see its errors: they are logged and counted
type Recorder struct {
	countWorkers int
	timeout      time.Duration

	// Guards queue closing against concurrent Record calls
	mu      sync.RWMutex
	stopped bool
	queue   chan string

	userRepo userRepo
	counter  counter
	logger   logger.Logger
}

func New(cfg Config, userRepo userRepo, counter counter, logger logger.Logger) *Recorder {
	setDefault := func(field *int, def int) {
		if *field <= 0 {
			*field = def
		}
	}
	setDefault(&cfg.CountWorkers, defaultCountWorkers)
	setDefault(&cfg.QueueSize, defaultQueueSize)
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Recorder{
		countWorkers: cfg.CountWorkers,
		timeout:      cfg.Timeout,
		queue:        make(chan string, cfg.QueueSize),
		userRepo:     userRepo,
		counter:      counter,
		logger:       logger,
	}
}

// Record schedules last login update for the user, never blocks
func (r *Recorder) Record(username string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		r.drop(username, "recorder stopped")
		return
	}

	select {
	case r.queue <- username:
	default:
		r.drop(username, "queue is full")
	}
}

// Run starts workers
// When ctx is done no new updates accepted, already queued ones are still applied
// Returned channel is closed when all workers stopped
func (r *Recorder) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < r.countWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker()
		}()
	}

	go func() {
		<-ctx.Done()

		r.mu.Lock()
		r.stopped = true
		close(r.queue)
		r.mu.Unlock()
	}()

	go func() {
		defer close(idleStopped)
		wg.Wait()
		r.logger.Debug("Login recorder stopped")
	}()

	return idleStopped
}

func (r *Recorder) worker() {
	for username := range r.queue {
		r.update(username)
	}
}

func (r *Recorder) update(username string) {
	// Request that triggered update is most likely finished already, so don't inherit its context
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	lastLoginAt, err := r.userRepo.UpdateLoginTimestamp(ctx, username)
	if err != nil {
		r.logger.Warn("Failed to update last login time", "error", err, "username", username)
		r.counter.LoginUpdate(metrics.LoginUpdateFailed)
		return
	}

	r.logger.Debug("Last login time updated", "username", username, "last_login_at", lastLoginAt)
	r.counter.LoginUpdate(metrics.LoginUpdateOK)
}

func (r *Recorder) drop(username string, reason string) {
	r.logger.Warn("Last login update dropped", "reason", reason, "username", username)
	r.counter.LoginUpdate(metrics.LoginUpdateDropped)
}
