package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingProcessor struct {
	seen chan uuid.UUID
}

func (p *recordingProcessor) Process(_ context.Context, jobID uuid.UUID) error {
	p.seen <- jobID
	return nil
}

func TestWorker_ProcessesEnqueuedJobs(t *testing.T) {
	proc := &recordingProcessor{seen: make(chan uuid.UUID, 2)}
	w := NewWorker(nil, proc, 2, zap.NewNop())
	w.Start(context.Background())
	defer w.Stop()

	first, second := uuid.New(), uuid.New()
	w.EnqueueJob(first)
	w.EnqueueJob(second)

	got := map[uuid.UUID]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-proc.seen:
			got[id] = true
		case <-time.After(2 * time.Second):
			require.FailNow(t, "job was not processed")
		}
	}
	assert.True(t, got[first])
	assert.True(t, got[second])
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	w := NewWorker(nil, &recordingProcessor{seen: make(chan uuid.UUID, 1)}, 1, nil)
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	// Enqueue after stop must not block once the queue is full.
	for i := 0; i < 101; i++ {
		w.EnqueueJob(uuid.New())
	}
}
