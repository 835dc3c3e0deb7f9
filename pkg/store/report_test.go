package store

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
)

func TestReportCreateRejectsSecondOpenReportForSameTriple(t *testing.T) {
	s := newTestStore()
	_, err := s.Reports.Create("u1", "evt-1", "r1", model.ReportInaccurateReason, "looks wrong")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = s.Reports.Create("u1", "evt-1", "r1", model.ReportWrongSource, "still wrong")
	if err == nil {
		t.Fatalf("expected a second open report for the same triple to be rejected")
	}
}

func TestReportCreateAllowsNewReportAfterResolve(t *testing.T) {
	c := clock.NewFixed(time.Now(), time.Second)
	s := New(c)
	report, err := s.Reports.Create("u1", "evt-1", "r1", model.ReportInaccurateReason, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Reports.Transition(report.ID, model.ReportResolved, c.NowUTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Reports.Create("u1", "evt-1", "r1", model.ReportOther, "new issue"); err != nil {
		t.Fatalf("expected a new report to be allowed once the prior one resolved: %v", err)
	}
}

func TestReportTransitionRejectsIllegalJump(t *testing.T) {
	s := newTestStore()
	report, _ := s.Reports.Create("u1", "evt-1", "r1", model.ReportOther, "")
	if _, err := s.Reports.Transition(report.ID, model.ReportReceived, time.Now()); err == nil {
		t.Fatalf("expected transitioning back to received to be rejected")
	}
}

func TestReportTransitionAllowsSkippingReviewed(t *testing.T) {
	s := newTestStore()
	report, _ := s.Reports.Create("u1", "evt-1", "r1", model.ReportOther, "")
	if _, err := s.Reports.Transition(report.ID, model.ReportResolved, time.Now()); err != nil {
		t.Fatalf("unexpected error skipping straight to resolved: %v", err)
	}
}

func TestReportListByEventReturnsCreationOrder(t *testing.T) {
	s := newTestStore()
	s.Reports.Create("u1", "evt-1", "r1", model.ReportOther, "first")
	r2, _ := s.Reports.Create("u1", "evt-1", "r2", model.ReportOther, "second")
	s.Reports.Transition(r2.ID, model.ReportResolved, time.Now())
	s.Reports.Create("u1", "evt-1", "r2", model.ReportOther, "third")

	got := s.Reports.ListByEvent("evt-1")
	if len(got) != 3 {
		t.Fatalf("got %d reports, want 3", len(got))
	}
}
