package usecase

import (
	"context"
	"time"

	"github.com/fathoor/custodia/internal/domain"
)

type Retention struct {
	storage       domain.ObjectStorage
	logger        Logger
	retentionDays int
	now           func() time.Time
}

func NewRetention(storage domain.ObjectStorage, logger Logger, retentionDays int) *Retention {
	return &Retention{
		storage:       storage,
		logger:        logger,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Execute deletes stored archives whose last-modified timestamp is strictly
// before now minus the retention window. Best effort: failures are logged
// and the sweep retries naturally on the next tick.
func (uc *Retention) Execute(ctx context.Context) error {
	if uc.retentionDays <= 0 {
		uc.logger.Infof("Retention disabled, skipping sweep")
		return nil
	}

	cutoff := uc.now().Add(-time.Duration(uc.retentionDays) * 24 * time.Hour)
	uc.logger.Infof("Sweeping archives older than %s (retention: %d days)",
		cutoff.Format(time.RFC3339), uc.retentionDays)

	objects, err := uc.storage.List(ctx)
	if err != nil {
		uc.logger.Errorf("Sweep aborted: %v", err)
		return err
	}

	var stale []string
	for _, obj := range objects {
		if obj.LastModified.Before(cutoff) {
			stale = append(stale, obj.Key)
		}
	}

	if len(stale) == 0 {
		uc.logger.Infof("No archives past retention, nothing to delete")
		return nil
	}

	if err := uc.storage.DeleteBatch(ctx, stale); err != nil {
		uc.logger.Errorf("Sweep aborted: %v", err)
		return err
	}

	uc.logger.Infof("Deleted %d stale archive(s)", len(stale))
	return nil
}
