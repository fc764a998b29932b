package workers

import (
	"context"
	"log"
	"time"

	"github.com/hausgraph/autochain/internal/usecases"
)

// ChainDiscoverer is a runnable that periodically runs chain discovery and
// publishes the ranked results.
type ChainDiscoverer struct {
	Discoverer          usecases.DiscoverChains `resolve:""`
	Logger              *log.Logger             `resolve:""`
	Interval            time.Duration           `config:"DISCOVERY_INTERVAL" default:"15m"`
	workerExecutionChan chan struct{}
}

// Run starts the periodic discovery loop.
func (cd ChainDiscoverer) Run(ctx context.Context) error {
	cd.Logger.Println("ChainDiscoverer: running...")
	ticker := time.NewTicker(cd.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			paths, err := cd.Discoverer.Execute(ctx)
			if err != nil {
				cd.Logger.Printf("error discovering chains: %v", err)
			} else {
				cd.Logger.Printf("ChainDiscoverer: discovered %d paths", len(paths))
			}
			if cd.workerExecutionChan != nil {
				cd.workerExecutionChan <- struct{}{}
			}
		case <-ctx.Done():
			cd.Logger.Println("ChainDiscoverer: stopping...")
			return nil
		}
	}
}
