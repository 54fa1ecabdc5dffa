// Package jobs runs the fixed workloads behind the command-line entry points.
// Each workload is a sequence of named steps; every step gets its own
// deadline from the timeouts package and is logged with its duration.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Step is one named unit of a workload.
type Step struct {
	Name    string
	Timeout func() time.Duration
	Run     func(ctx context.Context) error
}

// runSteps executes steps in order and stops at the first failure. The
// returned error names the failing step.
func runSteps(ctx context.Context, logger *zap.Logger, steps []Step) error {
	for _, s := range steps {
		timeout := timeouts.Medium()
		if s.Timeout != nil {
			timeout = s.Timeout()
		}

		stepCtx, cancel := timeouts.WithTimeout(ctx, timeout, logger, s.Name)
		start := time.Now()
		err := s.Run(stepCtx)
		cancel()

		if err != nil {
			logger.Error("step failed",
				zap.String("step", s.Name),
				zap.Duration("took", time.Since(start)),
				zap.Error(err))
			return fmt.Errorf("%s: %w", s.Name, err)
		}
		logger.Info("step done",
			zap.String("step", s.Name),
			zap.Duration("took", time.Since(start)))
	}
	return nil
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
