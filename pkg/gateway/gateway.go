package gateway

import (
	"context"

	"sihas-gateway/internal/tasks"
)

// Options re-exposes the tasks.Options type for external callers.
type Options = tasks.Options

// Run starts the gateway with the given options using the internal tasks
// implementation.
func Run(ctx context.Context, opts Options) error {
	return tasks.InitAndRunGateway(ctx, opts)
}
