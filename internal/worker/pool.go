package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrStopped is returned by Submit once the dispatcher has been stopped.
var ErrStopped = errors.New("dispatcher stopped")

// Job is a unit of work executed by a Worker.
type Job interface {
	Execute() error
	ID() string
}

// Worker pulls jobs handed to it by the Dispatcher and runs them one at a time.
type Worker struct {
	ID         int
	WorkerPool chan chan Job // register this worker's JobChannel here when idle
	JobChannel chan Job
	Quit       <-chan struct{}
	Wg         *sync.WaitGroup
	Log        *logrus.Logger
}

// NewWorker creates a new Worker.
func NewWorker(id int, workerPool chan chan Job, quit <-chan struct{}, wg *sync.WaitGroup, log *logrus.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Quit:       quit,
		Wg:         wg,
		Log:        log,
	}
}

// Start makes the Worker listen for jobs until Quit is closed.
func (w Worker) Start() {
	w.Wg.Add(1)
	go func() {
		defer w.Wg.Done()
		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.run(job)
			case <-w.Quit:
				w.Log.Debugf("Worker %d: stopping", w.ID)
				return
			}
		}
	}()
}

func (w Worker) run(job Job) {
	entry := w.Log.WithFields(logrus.Fields{"worker": w.ID, "job_id": job.ID()})
	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", fmt.Sprint(r)).Error("Job panicked")
		}
	}()

	entry.Debug("Job started")
	if err := job.Execute(); err != nil {
		entry.WithError(err).Warn("Job failed")
		return
	}
	entry.Debug("Job finished")
}

// Dispatcher manages a fixed pool of workers fed from a bounded queue.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job
	JobQueue   chan Job
	Workers    []Worker
	Wg         sync.WaitGroup
	Quit       chan struct{}
	Log        *logrus.Logger

	stopOnce sync.Once
}

// NewDispatcher creates a new Dispatcher. Call Run before submitting jobs.
func NewDispatcher(maxWorkers int, jobQueueSize int, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]Worker, 0, maxWorkers),
		Quit:       make(chan struct{}),
		Log:        log,
	}
}

// Run starts the workers and the dispatch loop.
func (d *Dispatcher) Run() {
	for i := 1; i <= d.MaxWorkers; i++ {
		worker := NewWorker(i, d.WorkerPool, d.Quit, &d.Wg, d.Log)
		d.Workers = append(d.Workers, worker)
		worker.Start()
	}

	d.Wg.Add(1)
	go d.dispatch()
	d.Log.Infof("Dispatcher running with %d workers", d.MaxWorkers)
}

// dispatch hands queued jobs to idle workers in submission order.
func (d *Dispatcher) dispatch() {
	defer d.Wg.Done()
	for {
		select {
		case job := <-d.JobQueue:
			select {
			case jobChannel := <-d.WorkerPool:
				select {
				case jobChannel <- job:
				case <-d.Quit:
					return
				}
			case <-d.Quit:
				return
			}
		case <-d.Quit:
			return
		}
	}
}

// Submit queues job, waiting for queue space until ctx is done or the
// dispatcher stops.
func (d *Dispatcher) Submit(ctx context.Context, job Job) error {
	select {
	case <-d.Quit:
		return ErrStopped
	default:
	}

	select {
	case d.JobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.Quit:
		return ErrStopped
	}
}

// Stop signals workers and the dispatch loop to exit and waits for running
// jobs to finish. Jobs still queued are abandoned.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.Log.Info("Dispatcher: initiating shutdown")
		close(d.Quit)
		d.Wg.Wait()
		d.Log.Info("Dispatcher: shutdown complete")
	})
}
