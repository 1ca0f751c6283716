package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"privacy-pay.backend/internal/domain/entities"
	domainRepos "privacy-pay.backend/internal/domain/repositories"
	"privacy-pay.backend/internal/metrics"
	"privacy-pay.backend/pkg/logger"
)

// LinkMetricsJob periodically refreshes the per-status link gauges from the
// store so /metrics reflects the current lifecycle distribution
type LinkMetricsJob struct {
	repo     domainRepos.PaymentLinkRepository
	interval time.Duration
	stop     chan struct{}
}

func NewLinkMetricsJob(repo domainRepos.PaymentLinkRepository) *LinkMetricsJob {
	return &LinkMetricsJob{
		repo:     repo,
		interval: 15 * time.Second,
		stop:     make(chan struct{}),
	}
}

func (j *LinkMetricsJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-j.stop:
			return
		case <-ticker.C:
			j.collect(ctx)
		}
	}
}

func (j *LinkMetricsJob) Stop() {
	close(j.stop)
}

func (j *LinkMetricsJob) collect(ctx context.Context) {
	counts, err := j.repo.CountByStatus(ctx)
	if err != nil {
		logger.Warn(ctx, "Link metrics collection failed", zap.Error(err))
		return
	}

	// reset all known states so emptied ones drop back to zero
	for _, status := range []entities.PaymentLinkStatus{
		entities.PaymentLinkStatusActive,
		entities.PaymentLinkStatusCompleted,
		entities.PaymentLinkStatusDisabled,
	} {
		metrics.LinksByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}
