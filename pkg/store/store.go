// Package store is the in-memory transactional repository for every
// entity in the data model. It follows the teacher's per-aggregate file
// split (pkg/database/{user,stock,alert,news,subscription}.go, one type
// per file, one method set per aggregate) but swaps each aggregate's
// *gorm.DB handle for an in-process map guarded by its own mutex — the
// "collection of per-aggregate owners" spec §9 calls for, without GORM or
// a SQL backend, because spec §4.1 mandates an in-memory store with
// lock-free snapshot reads, not a persistent database (see DESIGN.md for
// why gorm/postgres were dropped rather than adapted).
//
// Every write path validates invariants, stamps *_utc fields from the
// injected Clock, and returns a snapshot (a copy, never the internal
// pointer) so callers can never observe a partially-written row.
package store

import (
	"github.com/pricesignal/reasoncore/pkg/clock"
)

// Store composes the per-aggregate stores. It has no lock of its own —
// each aggregate serializes its own writes, matching spec §5's "Handlers
// must never hold the Store mutex across an external call" by construction
// (there is no single Store-wide mutex to hold).
type Store struct {
	clock clock.Clock

	Users         *UserStore
	Watchlist     *WatchlistStore
	Thresholds    *ThresholdStore
	Events        *EventStore
	Reasons       *ReasonStore
	Feedback      *FeedbackStore
	Reports       *ReportStore
	Transitions   *TransitionStore
	Revisions     *RevisionStore
	Notifications *NotificationStore
	Briefs        *BriefStore
	Compare       *CompareStore
	Portfolio     *PortfolioStore
}

// New builds a Store with every aggregate initialized empty.
func New(c clock.Clock) *Store {
	return &Store{
		clock:         c,
		Users:         newUserStore(c),
		Watchlist:     newWatchlistStore(c),
		Thresholds:    newThresholdStore(c),
		Events:        newEventStore(c),
		Reasons:       newReasonStore(c),
		Feedback:      newFeedbackStore(c),
		Reports:       newReportStore(c),
		Transitions:   newTransitionStore(c),
		Revisions:     newRevisionStore(c),
		Notifications: newNotificationStore(c),
		Briefs:        newBriefStore(c),
		Compare:       newCompareStore(),
		Portfolio:     newPortfolioStore(c),
	}
}
