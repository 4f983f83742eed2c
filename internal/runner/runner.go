// Package runner sequences one fetch/detect/notify/persist cycle.
package runner

import (
	"context"
	"fmt"

	"github.com/isgwatch/isgwatch/internal/detector"
	"github.com/isgwatch/isgwatch/internal/fetcher"
	"github.com/isgwatch/isgwatch/internal/notifier"
	"github.com/isgwatch/isgwatch/internal/snapshot"
	"github.com/rs/zerolog"
)

// Outcome classifies a successfully completed run.
type Outcome int

const (
	// OutcomeBaseline means this was the first run; the fetched set was
	// persisted as the baseline and nobody was notified.
	OutcomeBaseline Outcome = iota
	// OutcomeNoChange means nothing new was detected; the stored
	// snapshot was not touched.
	OutcomeNoChange
	// OutcomeNotified means new entries were detected and the
	// notification was confirmed sent.
	OutcomeNotified
)

// Runner owns the per-invocation control flow. State lives entirely in the
// injected store; the runner itself is stateless across runs.
type Runner struct {
	fetcher  fetcher.Fetcher
	store    snapshot.Store
	notifier notifier.Notifier
	log      zerolog.Logger
}

// New creates a runner over the given collaborators.
func New(f fetcher.Fetcher, s snapshot.Store, n notifier.Notifier, log zerolog.Logger) *Runner {
	return &Runner{fetcher: f, store: s, notifier: n, log: log}
}

// Run executes one cycle. The snapshot is only advanced on the first run
// or after the notifier confirms the send, so a failed delivery is retried
// naturally by the next scheduled invocation.
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	current, err := r.fetcher.Fetch(ctx)
	if err != nil {
		// Best effort: the operator should hear about an unreachable
		// ISG too. Its failure must not mask the fetch error.
		if nerr := r.notifier.NotifyFetchFailure(ctx, err); nerr != nil {
			r.log.Error().Err(nerr).Msg("Could not send fetch failure notification")
		}
		return 0, fmt.Errorf("fetching error list: %w", err)
	}

	baseline, haveBaseline, err := r.store.Load()
	if err != nil {
		return 0, fmt.Errorf("loading snapshot: %w", err)
	}

	outcome := detector.Detect(current, baseline, haveBaseline)
	switch outcome.Kind {
	case detector.Baseline:
		if err := r.store.Save(outcome.FullSet); err != nil {
			return 0, fmt.Errorf("saving baseline: %w", err)
		}
		r.log.Info().
			Int("entries", len(outcome.FullSet)).
			Msg("First run: baseline saved, no notification sent")
		return OutcomeBaseline, nil

	case detector.NoChange:
		r.log.Info().Msg("No new entries")
		return OutcomeNoChange, nil
	}

	if err := r.notifier.NotifyNewEntries(ctx, outcome.NewEntries); err != nil {
		// Snapshot stays untouched so the next run recomputes the same
		// difference and retries delivery.
		return 0, fmt.Errorf("sending notification: %w", err)
	}

	if err := r.store.Save(outcome.FullSet); err != nil {
		// The mail is already out. Not advancing the snapshot means the
		// next run notifies about these entries again; that duplicate
		// is the accepted tradeoff, losing a notification is not.
		r.log.Warn().
			Err(err).
			Msg("Snapshot not saved after send; next run will renotify")
		return OutcomeNotified, nil
	}

	r.log.Info().
		Int("new_entries", len(outcome.NewEntries)).
		Msg("New entries notified and snapshot advanced")
	return OutcomeNotified, nil
}
