// Package reportsm orchestrates the report state machine of spec §4.4:
// received -> reviewed -> resolved (skip allowed), append-only transition
// logging, and the optional Reason Engine rerun on resolve that writes a
// ReasonRevision. It composes pkg/store's per-aggregate stores the way the
// teacher's handlers compose pkg/database calls, but centralizes the
// cross-aggregate sequencing here instead of inline in an HTTP handler so
// the revised_at_utc == changed_at_utc invariant has exactly one writer.
package reportsm

import (
	"context"
	"time"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/compare"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/reasonengine"
	"github.com/pricesignal/reasoncore/pkg/store"
)

// Machine is the Report State Machine.
type Machine struct {
	store   *store.Store
	engine  *reasonengine.Engine
	compare *compare.Classifier // invalidated whenever a rerun changes an event's reasons
	clock   clock.Clock
}

func New(s *store.Store, engine *reasonengine.Engine, cmp *compare.Classifier, c clock.Clock) *Machine {
	return &Machine{store: s, engine: engine, compare: cmp, clock: c}
}

// FileReport creates a new report in the received state.
func (m *Machine) FileReport(userID, eventID, reasonID string, reportType model.ReportType, note string) (model.ReasonReport, error) {
	report, err := m.store.Reports.Create(userID, eventID, reasonID, reportType, note)
	if err != nil {
		return model.ReasonReport{}, err
	}
	now := m.clock.NowUTC()
	m.store.Transitions.Append(report.ID, eventID, "", model.ReportReceived, "", now)
	return report, nil
}

// Advance moves a report to Reviewed, appending a transition.
func (m *Machine) Advance(reportID string, note string) (model.ReasonReport, error) {
	report, err := m.store.Reports.GetByID(reportID)
	if err != nil {
		return model.ReasonReport{}, err
	}
	now := m.clock.NowUTC()
	updated, err := m.store.Reports.Transition(reportID, model.ReportReviewed, now)
	if err != nil {
		return model.ReasonReport{}, err
	}
	m.store.Transitions.Append(reportID, report.EventID, report.State, model.ReportReviewed, note, now)
	return updated, nil
}

// ResolveOptions controls what happens when a report is resolved.
type ResolveOptions struct {
	Note       string
	Rerun      bool   // reviewer asked for a Reason Engine rerun
	ReasonHint string // revision_reason text recorded if Rerun produces a change
}

// Resolve moves a report to Resolved. If opts.Rerun is set, it asks the
// Reason Engine to recompute the target reason's confidence from fresh
// candidates and, if the total changed, writes a ReasonRevision stamped
// with exactly the same instant as the resolve transition (spec §4.4).
func (m *Machine) Resolve(ctx context.Context, reportID string, opts ResolveOptions) (model.ReasonReport, *model.ReasonRevision, error) {
	report, err := m.store.Reports.GetByID(reportID)
	if err != nil {
		return model.ReasonReport{}, nil, err
	}

	now := m.clock.NowUTC()
	updated, err := m.store.Reports.Transition(reportID, model.ReportResolved, now)
	if err != nil {
		return model.ReasonReport{}, nil, err
	}
	m.store.Transitions.Append(reportID, report.EventID, report.State, model.ReportResolved, opts.Note, now)

	if !opts.Rerun {
		return updated, nil, nil
	}

	revision, err := m.rerunAndRevise(ctx, report, now, opts.ReasonHint)
	if err != nil {
		return updated, nil, err
	}
	return updated, revision, nil
}

// rerunAndRevise asks the Reason Engine to recompute the disputed
// reason's confidence from fresh candidates. A ReasonRevision is written
// only if the recomputed total actually differs from the current score;
// an unchanged rerun is not treated as a revision.
func (m *Machine) rerunAndRevise(ctx context.Context, report model.ReasonReport, at time.Time, reasonHint string) (*model.ReasonRevision, error) {
	reason, err := m.store.Reasons.GetByID(report.ReasonID)
	if err != nil {
		return nil, err
	}
	event, err := m.store.Events.GetByID(report.EventID)
	if err != nil {
		return nil, err
	}

	refreshed, newTotal, found := m.engine.Rerun(ctx, event, reason.CanonicalURL)
	if !found {
		return nil, nil
	}

	// Preserve the id/created_at of any refreshed reason whose canonical
	// URL matches a row that already exists for this event, so a rerun
	// updates the existing reason row rather than replacing its identity
	// (spec §4.3: "update the existing reason row").
	existing := m.store.Reasons.ListByEvent(event.ID)
	byCanonical := make(map[string]model.EventReason, len(existing))
	for _, r := range existing {
		byCanonical[r.CanonicalURL] = r
	}
	for i, r := range refreshed {
		if prior, ok := byCanonical[r.CanonicalURL]; ok {
			r.ID = prior.ID
			r.CreatedAtUTC = prior.CreatedAtUTC
			refreshed[i] = r
		}
	}

	if len(refreshed) > 0 {
		m.store.Reasons.ReplaceForEvent(event.ID, refreshed)
		if m.compare != nil {
			m.compare.Invalidate(event.ID)
		}
	}

	if newTotal.Equal(reason.ConfidenceScore) {
		return nil, nil
	}

	revision := m.store.Revisions.Append(report.ID, report.EventID, report.ReasonID, reason.ConfidenceScore, newTotal, reasonHint, at)
	return &revision, nil
}
