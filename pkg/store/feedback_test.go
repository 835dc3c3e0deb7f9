package store

import (
	"testing"

	"github.com/pricesignal/reasoncore/pkg/model"
)

func TestFeedbackUpsertReportsOverwritten(t *testing.T) {
	s := newTestStore()
	_, overwritten := s.Feedback.Upsert("u1", "evt-1", "r1", model.VoteHelpful)
	if overwritten {
		t.Fatalf("expected the first vote not to be reported as overwritten")
	}

	f, overwritten := s.Feedback.Upsert("u1", "evt-1", "r1", model.VoteNotHelpful)
	if !overwritten {
		t.Fatalf("expected the second vote on the same triple to be reported as overwritten")
	}
	if f.Vote != model.VoteNotHelpful {
		t.Fatalf("vote = %s, want the latest vote to win", f.Vote)
	}
}

func TestFeedbackGetMissingReturnsFalse(t *testing.T) {
	s := newTestStore()
	if _, ok := s.Feedback.Get("u1", "evt-1", "r1"); ok {
		t.Fatalf("expected no feedback to be found before any vote")
	}
}
