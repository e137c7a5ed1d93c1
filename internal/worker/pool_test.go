package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcJob struct {
	id string
	fn func() error
}

func (j *funcJob) Execute() error { return j.fn() }
func (j *funcJob) ID() string     { return j.id }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDispatcherRunsEverySubmittedJob(t *testing.T) {
	d := NewDispatcher(3, 4, quietLogger())
	d.Run()
	defer d.Stop()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		job := &funcJob{id: fmt.Sprintf("job-%d", i), fn: func() error {
			defer wg.Done()
			ran.Add(1)
			return nil
		}}
		require.NoError(t, d.Submit(context.Background(), job))
	}

	wg.Wait()
	assert.Equal(t, int32(20), ran.Load())
}

func TestDispatcherSurvivesFailingAndPanickingJobs(t *testing.T) {
	d := NewDispatcher(1, 1, quietLogger())
	d.Run()
	defer d.Stop()

	done := make(chan struct{})
	require.NoError(t, d.Submit(context.Background(), &funcJob{id: "fails", fn: func() error { return errors.New("boom") }}))
	require.NoError(t, d.Submit(context.Background(), &funcJob{id: "panics", fn: func() error { panic("kaboom") }}))
	require.NoError(t, d.Submit(context.Background(), &funcJob{id: "ok", fn: func() error { close(done); return nil }}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover after failing jobs")
	}
}

func TestSubmitAfterStop(t *testing.T) {
	d := NewDispatcher(1, 1, quietLogger())
	d.Run()
	d.Stop()

	err := d.Submit(context.Background(), &funcJob{id: "late", fn: func() error { return nil }})
	assert.ErrorIs(t, err, ErrStopped)

	// Stop is idempotent.
	d.Stop()
}

func TestSubmitHonoursContextWhenQueueIsFull(t *testing.T) {
	d := NewDispatcher(1, 1, quietLogger())
	d.Run()

	release := make(chan struct{})
	started := make(chan struct{})
	block := func() error { close(started); <-release; return nil }
	require.NoError(t, d.Submit(context.Background(), &funcJob{id: "busy", fn: block}))
	<-started
	// Fill the queue slot and the dispatcher's in-hand job.
	require.NoError(t, d.Submit(context.Background(), &funcJob{id: "queued-1", fn: func() error { return nil }}))
	require.NoError(t, d.Submit(context.Background(), &funcJob{id: "queued-2", fn: func() error { return nil }}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := d.Submit(ctx, &funcJob{id: "overflow", fn: func() error { return nil }})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	d.Stop()
}
