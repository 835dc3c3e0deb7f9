package model

import "testing"

func TestDeriveReasonStatusNoReasonsIsCollecting(t *testing.T) {
	if got := DeriveReasonStatus(nil); got != ReasonStatusCollecting {
		t.Fatalf("status = %s, want collecting_evidence", got)
	}
}

func TestDeriveReasonStatusWithSourceURLIsVerified(t *testing.T) {
	reasons := []EventReason{{SourceURL: "https://example.com/a"}}
	if got := DeriveReasonStatus(reasons); got != ReasonStatusVerified {
		t.Fatalf("status = %s, want verified", got)
	}
}

func TestDeriveReasonStatusWithoutAnySourceURLIsCollecting(t *testing.T) {
	reasons := []EventReason{{SourceURL: ""}, {SourceURL: ""}}
	if got := DeriveReasonStatus(reasons); got != ReasonStatusCollecting {
		t.Fatalf("status = %s, want collecting_evidence", got)
	}
}
