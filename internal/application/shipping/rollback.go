package shipping

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// compensation undoes one persisted side effect of a pipeline run
type compensation struct {
	describe string
	undo     func(ctx context.Context) error
}

// compensationStack records side effects in the order they were
// committed so a failed run can unwind them newest-first. Pushes may
// happen from concurrent persistence goroutines; unwind is called only
// after they have all finished.
type compensationStack struct {
	mu    sync.Mutex
	stack []compensation
}

func (s *compensationStack) push(describe string, undo func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack = append(s.stack, compensation{describe: describe, undo: undo})
}

// unwind runs every recorded compensation in reverse order. Compensation
// failures are logged and skipped so one stuck undo never strands the
// rest of the rollback.
func (s *compensationStack) unwind(ctx context.Context, logger *zap.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.stack) - 1; i >= 0; i-- {
		comp := s.stack[i]
		if err := comp.undo(ctx); err != nil {
			logger.Error("rollback step failed",
				zap.String("step", comp.describe),
				zap.Error(err))
			continue
		}
		logger.Info("rolled back", zap.String("step", comp.describe))
	}
	s.stack = nil
}
