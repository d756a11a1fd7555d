package server

import (
	"context"
	"fmt"
	"time"

	"bggapi/concurrent"
	"bggapi/utils"
)

// Orchestrator gates the HTTP listener behind datastore liveness probes.
type Orchestrator struct {
	// Probes run concurrently; every one must succeed in the same round.
	Probes []concurrent.Task
	// Attempts bounds the probe rounds, Backoff is the first pause between
	// rounds and doubles after each failure.
	Attempts int
	Backoff  time.Duration
	// ProbeTimeout bounds one round, 0 means no bound.
	ProbeTimeout time.Duration
	// Serve binds the listener and blocks until the server stops.
	Serve func() error
}

// Run probes the datastores and only then calls Serve. When the probes keep
// failing Run returns their error without calling Serve.
func (o *Orchestrator) Run(ctx context.Context) error {
	err := concurrent.Retry(ctx, o.Attempts, o.Backoff, o.probeRound)
	if err != nil {
		utils.LogError("Failed to start server", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("startup probes: %w", err)
	}

	utils.LogInfo("Datastores ready, starting listener", map[string]interface{}{"probes": len(o.Probes)})
	return o.Serve()
}

func (o *Orchestrator) probeRound(ctx context.Context) error {
	if o.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.ProbeTimeout)
		defer cancel()
	}
	return concurrent.RunAll(ctx, o.Probes...)
}
