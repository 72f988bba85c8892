package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/pullstream/constructors/core/artifacts"
	"github.com/pullstream/constructors/core/protected"
	"github.com/pullstream/constructors/sdk/environment"
	"github.com/pullstream/constructors/sdk/telemetry"
)

// timeRounding trims durations for human-facing output.
const timeRounding = time.Millisecond

// bootstrap loads the command's env file when it exists and stamps a trace ID
// into the context so every log line of the run can be correlated.
func bootstrap(ctx context.Context, cmd *cli.Command) context.Context {
	if envFile := cmd.String("env"); envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			// Already-set variables win; the file only fills gaps.
			_ = environment.LoadEnv(envFile)
		}
	}
	return telemetry.NewTelemetry().SetTraceID(ctx)
}

// parseKinds converts --kind flag values through the registry.
func parseKinds(registry *artifacts.Registry, values []string) ([]artifacts.Kind, error) {
	kinds := make([]artifacts.Kind, 0, len(values))
	for _, v := range values {
		kind, err := registry.ParseKind(v)
		if err != nil {
			return nil, fmt.Errorf("--kind %q: %w", v, err)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// protectedList builds the effective protected-path configuration: defaults
// plus any --protect flags.
func protectedList(values []string) *protected.List {
	prot := protected.Default()
	for _, prefix := range values {
		prot.Add(prefix)
	}
	return prot
}
