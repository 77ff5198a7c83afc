package dataset

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/fatalstats/internal/aggregate"
	"github.com/verte-zerg/fatalstats/internal/logger"
)

// Result is a fully folded dataset.
type Result struct {
	Agg        *aggregate.Aggregator
	Source     string
	Updated    time.Time
	UpdatedErr error
}

// HasUpdated reports whether the last update time is known.
func (r *Result) HasUpdated() bool {
	return r != nil && r.UpdatedErr == nil && !r.Updated.IsZero()
}

// Load fetches the records from src and the update time from upd concurrently.
// The aggregator is returned only once every record has been folded; a record
// fetch or decode failure returns no result. A metadata failure is kept in
// Result.UpdatedErr. upd may be nil.
func Load(ctx context.Context, src Source, upd UpdateSource, log *logger.Logger) (*Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	g, gctx := errgroup.WithContext(ctx)

	var agg *aggregate.Aggregator
	g.Go(func() error {
		start := time.Now()
		folded, err := fold(gctx, src)
		if err != nil {
			return err
		}
		agg = folded
		log.Info("records folded",
			"source", src.String(),
			"records", folded.Records(),
			"skipped", folded.Skipped(),
			"elapsed", time.Since(start))
		return nil
	})

	var updated time.Time
	var updatedErr error
	if upd != nil {
		g.Go(func() error {
			start := time.Now()
			t, err := upd.LastUpdated(gctx)
			if err != nil {
				updatedErr = fmt.Errorf("%w: %v", ErrMetadata, err)
				log.Warn("update metadata unavailable", "err", err)
				return nil
			}
			updated = t
			log.Debug("update metadata fetched", "updated", t, "elapsed", time.Since(start))
			return nil
		})
	} else {
		updatedErr = fmt.Errorf("%w: disabled", ErrMetadata)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Result{
		Agg:        agg,
		Source:     src.String(),
		Updated:    updated,
		UpdatedErr: updatedErr,
	}, nil
}

func fold(ctx context.Context, src Source) (*aggregate.Aggregator, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w from %s: %v", ErrFetch, src, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	dec, err := NewDecoder(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	agg := aggregate.New()
	if _, err := agg.Consume(dec); err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return agg, nil
}
