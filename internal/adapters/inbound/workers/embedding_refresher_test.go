package workers

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hausgraph/autochain/internal/usecases"
)

func TestEmbeddingRefresher_Run_StartupRefresh(t *testing.T) {
	generator := &mockGenerateEmbeddings{}
	generator.On("Execute", mock.Anything, false).
		Return(usecases.RunStats{Total: 3, Generated: 3}, nil).Once()

	cancelCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan struct{})

	er := EmbeddingRefresher{
		Generator:           generator,
		Logger:              log.Default(),
		Schedule:            "0 3 * * *",
		RunOnStart:          true,
		workerExecutionChan: signalChan,
	}

	go func() {
		err := er.Run(cancelCtx)
		assert.NoError(t, err)
	}()

	select {
	case <-signalChan:
		// Startup refresh completed
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for startup refresh")
	}

	cancel()
	generator.AssertExpectations(t)
}

func TestEmbeddingRefresher_Run_ScheduledRefresh(t *testing.T) {
	generator := &mockGenerateEmbeddings{}
	generator.On("Execute", mock.Anything, false).Return(usecases.RunStats{}, assert.AnError)

	cancelCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan struct{})

	er := EmbeddingRefresher{
		Generator:           generator,
		Logger:              log.Default(),
		Schedule:            "* * * * *", // every minute is the finest standard cron step
		RunOnStart:          true,
		workerExecutionChan: signalChan,
	}

	go func() {
		err := er.Run(cancelCtx)
		assert.NoError(t, err)
	}()

	// Only the startup run is observable in test time; the scheduled run is at
	// least a minute away. An error from the generator must not stop the loop.
	select {
	case <-signalChan:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for startup refresh")
	}

	cancel()
	generator.AssertExpectations(t)
}

func TestEmbeddingRefresher_Run_InvalidSchedule(t *testing.T) {
	er := EmbeddingRefresher{
		Generator: &mockGenerateEmbeddings{},
		Logger:    log.Default(),
		Schedule:  "not-a-schedule",
	}

	err := er.Run(context.Background())
	assert.ErrorContains(t, err, "invalid refresh schedule")
}
