package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// ReportStore owns ReasonReport rows. Reports are never deleted; the
// openKey index only tracks the currently-open (non-resolved) report for
// a (user, event, reason) triple, enforcing "at most one non-resolved
// report" (spec §4.4) without scanning.
type ReportStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	byID    map[string]model.ReasonReport
	byEvent map[string][]string // eventID -> report ids, for history listing
	openKey map[string]string   // user|event|reason -> report id, only while open
}

func newReportStore(c clock.Clock) *ReportStore {
	return &ReportStore{
		clock:   c,
		byID:    make(map[string]model.ReasonReport),
		byEvent: make(map[string][]string),
		openKey: make(map[string]string),
	}
}

func reportOpenKey(userID, eventID, reasonID string) string {
	return userID + "|" + eventID + "|" + reasonID
}

// Create inserts a new ReasonReport in the `received` state, failing with
// duplicate_reason_report if an open report already exists for the triple.
func (s *ReportStore) Create(userID, eventID, reasonID string, reportType model.ReportType, note string) (model.ReasonReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := reportOpenKey(userID, eventID, reasonID)
	if _, exists := s.openKey[k]; exists {
		return model.ReasonReport{}, apperr.New(apperr.CodeDuplicateReasonReport, "an open report already exists for this reason")
	}
	now := s.clock.NowUTC()
	r := model.ReasonReport{
		ID:           uuid.NewString(),
		UserID:       userID,
		EventID:      eventID,
		ReasonID:     reasonID,
		ReportType:   reportType,
		State:        model.ReportReceived,
		Note:         note,
		CreatedAtUTC: now,
		UpdatedAtUTC: now,
	}
	s.byID[r.ID] = r
	s.byEvent[eventID] = append(s.byEvent[eventID], r.ID)
	s.openKey[k] = r.ID
	return r, nil
}

func (s *ReportStore) GetByID(id string) (model.ReasonReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return model.ReasonReport{}, apperr.NotFound("reason report")
	}
	return r, nil
}

// Transition advances a report's state. No backward transitions; resolving
// frees the openKey slot (spec §4.4). The caller supplies at so a resolve
// transition can be stamped with the same instant as its TransitionStore
// entry and any accompanying ReasonRevision.
func (s *ReportStore) Transition(id string, to model.ReportState, at time.Time) (model.ReasonReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return model.ReasonReport{}, apperr.NotFound("reason report")
	}
	if !legalTransition(r.State, to) {
		return model.ReasonReport{}, apperr.InvalidInput("illegal report state transition")
	}
	r.State = to
	r.UpdatedAtUTC = at
	s.byID[id] = r
	if to.IsResolved() {
		delete(s.openKey, reportOpenKey(r.UserID, r.EventID, r.ReasonID))
	}
	return r, nil
}

func legalTransition(from, to model.ReportState) bool {
	switch from {
	case model.ReportReceived:
		return to == model.ReportReviewed || to == model.ReportResolved
	case model.ReportReviewed:
		return to == model.ReportResolved
	default:
		return false
	}
}

// ListByEvent returns every report ever filed for an event, in creation
// order.
func (s *ReportStore) ListByEvent(eventID string) []model.ReasonReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.byEvent[eventID]
	out := make([]model.ReasonReport, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAtUTC.Before(out[j].CreatedAtUTC) })
	return out
}

func (s *ReportStore) HasAnyForEvent(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEvent[eventID]) > 0
}
