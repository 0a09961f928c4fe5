package mailgateway

import (
	"context"
	"log/slog"
	"sync"
)

// MailJob is one queued send. Kind selects the endpoint; exactly one of
// the request fields matching Kind is populated.
type MailJob struct {
	ID      string
	Kind    string // "rich", "doc", "welcome"
	Cred    Credential
	Rich    *RichEmailRequest
	Doc     *DocEmailRequest
	Welcome *WelcomeEmailRequest
}

type Worker struct {
	ID         int
	WorkerPool chan chan MailJob
	JobChannel chan MailJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan MailJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan MailJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(MailJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing mail job", "worker_id", w.ID, "job_id", job.ID, "kind", job.Kind)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Dispatcher fans queued mail jobs out to a fixed worker pool. Sends that
// fail are logged and dropped; the portal surfaces synchronous send errors
// at request time, the pool only handles background bulk dispatch.
type Dispatcher struct {
	client *Client
	logger *slog.Logger

	jobQueue   chan MailJob
	workerPool chan chan MailJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type DispatcherConfig struct {
	MaxWorkers   int
	JobQueueSize int
}

func NewDispatcher(client *Client, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}
	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	d := &Dispatcher{
		client:     client,
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan MailJob, jobQueueSize),
		workerPool: make(chan chan MailJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.start()
	return d
}

func (d *Dispatcher) start() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.process)
		}

		go d.dispatch()

		d.logger.Info("mail dispatcher started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

// Enqueue queues a job for background delivery. Returns false when the
// queue is full so callers can fall back to a synchronous send.
func (d *Dispatcher) Enqueue(job MailJob) bool {
	select {
	case d.jobQueue <- job:
		return true
	default:
		d.logger.Warn("mail job queue full, rejecting job", "job_id", job.ID)
		return false
	}
}

func (d *Dispatcher) dispatch() {
	d.wg.Add(1)
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					d.logger.Info("dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (d *Dispatcher) process(job MailJob) {
	var err error
	switch job.Kind {
	case "rich":
		_, err = d.client.SendRichEmail(d.ctx, job.Cred, *job.Rich)
	case "doc":
		_, err = d.client.SendDocEmail(d.ctx, job.Cred, *job.Doc)
	case "welcome":
		_, err = d.client.SendWelcomeEmail(d.ctx, job.Cred, *job.Welcome)
	default:
		d.logger.Error("unknown mail job kind", "job_id", job.ID, "kind", job.Kind)
		return
	}

	if err != nil {
		d.logger.Error("background mail send failed", "job_id", job.ID, "kind", job.Kind, "error", err)
		return
	}
	d.logger.Info("background mail sent", "job_id", job.ID, "kind", job.Kind)
}

func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down mail dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("mail dispatcher shutdown complete")
}
