package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hausgraph/autochain/internal/usecases"
)

// scheduleParser accepts standard 5-field cron expressions.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// EmbeddingRefresher is a runnable that refreshes the embedding store on a cron
// schedule, plus once at startup so a fresh deployment is searchable immediately.
type EmbeddingRefresher struct {
	Generator           usecases.GenerateEmbeddings `resolve:""`
	Logger              *log.Logger                 `resolve:""`
	Schedule            string                      `config:"EMBEDDING_REFRESH_SCHEDULE" default:"0 3 * * *"`
	RunOnStart          bool                        `config:"EMBEDDING_REFRESH_ON_START" default:"true"`
	workerExecutionChan chan struct{}
}

// Run executes the generator on the configured schedule until ctx is cancelled.
func (er EmbeddingRefresher) Run(ctx context.Context) error {
	schedule, err := scheduleParser.Parse(er.Schedule)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", er.Schedule, err)
	}

	er.Logger.Printf("EmbeddingRefresher: running with schedule %q", er.Schedule)

	if er.RunOnStart {
		er.refresh(ctx)
	}

	for {
		next := schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			er.refresh(ctx)
		case <-ctx.Done():
			timer.Stop()
			er.Logger.Println("EmbeddingRefresher: stopping...")
			return nil
		}
	}
}

func (er EmbeddingRefresher) refresh(ctx context.Context) {
	stats, err := er.Generator.Execute(ctx, false)
	if err != nil {
		er.Logger.Printf("error refreshing embeddings: %v", err)
	} else {
		er.Logger.Printf("EmbeddingRefresher: total=%d generated=%d cached=%d errors=%d duration=%s",
			stats.Total, stats.Generated, stats.Cached, stats.Errors, stats.Duration)
	}
	if er.workerExecutionChan != nil {
		er.workerExecutionChan <- struct{}{}
	}
}
