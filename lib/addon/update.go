package addon

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Phase is a step of a package in a batch update.
type Phase string

const (
	PhaseQueued      Phase = "queued"
	PhaseResolving   Phase = "resolving"
	PhaseDownloading Phase = "downloading"
	PhaseExtracting  Phase = "extracting"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// Terminal reports whether no further events follow for the package.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// Event reports the progress of one package in a batch update. Result is
// set for PhaseDone, Err for PhaseFailed.
type Event struct {
	PackageID string
	Variant   Variant
	Phase     Phase
	Result    Result
	Err       error
}

// UpdateAll re-resolves every installed package and installs its newest
// version. It only fails if the installed packages cannot be listed; every
// per-package outcome is delivered on the returned channel as a terminal
// event. The channel is closed after the last package is processed and must
// be drained by the caller until then, or ctx must be cancelled. Once ctx is
// done, events that the caller does not receive are dropped, packages not yet
// started fail with ctx.Err() and the channel is still closed.
func (m *Manager) UpdateAll(ctx context.Context) (<-chan Event, error) {
	records, err := m.repo.List("")
	if err != nil {
		return nil, err
	}

	events := make(chan Event)
	go func() {
		defer close(events)

		for _, rec := range records {
			send(ctx, events, Event{PackageID: rec.ID, Variant: rec.Variant, Phase: PhaseQueued})
		}

		var g errgroup.Group
		g.SetLimit(m.concurrency)
		for _, rec := range records {
			g.Go(func() error {
				m.updateOne(ctx, rec, events)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return events, nil
}

// send delivers ev unless ctx is done first.
func send(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// updateOne never returns an error, failures are reported as events.
func (m *Manager) updateOne(ctx context.Context, rec Record, events chan<- Event) {
	report := func(phase Phase) {
		send(ctx, events, Event{PackageID: rec.ID, Variant: rec.Variant, Phase: phase})
	}
	fail := func(err error) {
		send(ctx, events, Event{PackageID: rec.ID, Variant: rec.Variant, Phase: PhaseFailed, Err: err})
	}

	if err := ctx.Err(); err != nil {
		fail(err)
		return
	}

	report(PhaseResolving)
	identifier := rec.Provider.URL
	if identifier == "" {
		identifier = ProviderURL(rec.Provider.Name, rec.ID, rec.Provider.ExternalID)
	}
	resolved, err := m.Resolve(ctx, identifier, rec.Variant)
	if err != nil {
		installFailures.Inc()
		fail(err)
		return
	}

	result, err := m.installCandidate(ctx, resolved, rec.Variant, report)
	if err != nil {
		fail(err)
		return
	}
	send(ctx, events, Event{PackageID: rec.ID, Variant: rec.Variant, Phase: PhaseDone, Result: result})
}
