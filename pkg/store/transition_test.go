package store

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/model"
)

func TestTransitionAppendAndListByEventInOrder(t *testing.T) {
	s := newTestStore()
	now := time.Now()
	s.Transitions.Append("rep-1", "evt-1", "", model.ReportReceived, "", now)
	s.Transitions.Append("rep-1", "evt-1", model.ReportReceived, model.ReportReviewed, "reviewed", now.Add(time.Minute))

	got := s.Transitions.ListByEvent("evt-1")
	if len(got) != 2 {
		t.Fatalf("got %d transitions, want 2", len(got))
	}
	if got[0].ToStatus != model.ReportReceived || got[1].ToStatus != model.ReportReviewed {
		t.Fatalf("transitions out of order: %+v", got)
	}
}

func TestTransitionListByEventEmptyForUnknownEvent(t *testing.T) {
	s := newTestStore()
	got := s.Transitions.ListByEvent("nope")
	if len(got) != 0 {
		t.Fatalf("got %d transitions, want 0", len(got))
	}
}
