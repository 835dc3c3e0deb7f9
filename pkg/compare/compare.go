// Package compare implements the Evidence Compare axis classifier
// (spec §4.9): it partitions an event's reasons into positive, negative,
// and uncertain axes by a sentiment/direction heuristic, then decides
// whether there's enough material on both sides to call the comparison
// ready. The polarity heuristic is grounded in the teacher's
// analyzeSentiment/calculateImpact keyword scan
// (pkg/collector/news_collector.go); the axis/readiness policy itself has
// no teacher analogue and is original to this domain.
package compare

import (
	"strings"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/store"
	"github.com/shopspring/decimal"
)

// Config bundles the tunables from pkg/config.Config.Compare.
type Config struct {
	PolarityThreshold float64 // |polarity| above this is non-neutral
	MinCompareItems   int
}

// Classifier computes and caches EvidenceCompare payloads.
type Classifier struct {
	store *store.Store
	clock clock.Clock
	cfg   Config
}

func New(s *store.Store, c clock.Clock, cfg Config) *Classifier {
	return &Classifier{store: s, clock: c, cfg: cfg}
}

const biasWarning = "This comparison surfaces evidence on both sides of the move; it is informational, not a trade recommendation."

// Compute builds and caches the EvidenceCompare payload for eventID,
// reading the event's sign and its reasons fresh from the store each
// time (there is no incremental update path: a reason revision always
// invalidates and recomputes, see pkg/reportsm).
func (c *Classifier) Compute(eventID string) (model.EvidenceCompare, error) {
	event, err := c.store.Events.GetByID(eventID)
	if err != nil {
		return model.EvidenceCompare{}, err
	}
	reasons := c.store.Reasons.ListByEvent(eventID)

	out := model.EvidenceCompare{
		EventID:        eventID,
		BiasWarning:    biasWarning,
		Positive:       []model.CompareItem{},
		Negative:       []model.CompareItem{},
		Uncertain:      []model.CompareItem{},
		GeneratedAtUTC: c.clock.NowUTC(),
	}

	eventSign := sign(event.ChangePct)
	uncertainMalformed := 0
	for _, r := range reasons {
		item := model.CompareItem{
			ReasonID:   r.ID,
			Summary:    r.Summary,
			SourceURL:  r.SourceURL,
			ReasonType: r.ReasonType,
		}
		if !r.PublishedAtUTC.IsZero() {
			t := r.PublishedAtUTC
			item.PublishedAt = &t
		}

		malformed := strings.TrimSpace(r.Summary) == "" || r.SourceURL == "" || r.PublishedAtUTC.IsZero()
		if malformed {
			item.Axis = model.AxisUncertain
			out.Uncertain = append(out.Uncertain, item)
			uncertainMalformed++
			continue
		}

		p := polarity(r.Summary)
		item.Axis = classify(p, eventSign, c.cfg.PolarityThreshold)
		switch item.Axis {
		case model.AxisPositive:
			out.Positive = append(out.Positive, item)
		case model.AxisNegative:
			out.Negative = append(out.Negative, item)
		default:
			out.Uncertain = append(out.Uncertain, item)
		}
	}

	total := len(out.Positive) + len(out.Negative) + len(out.Uncertain)
	noSignal := len(out.Positive) == 0 && len(out.Negative) == 0
	switch {
	case total == 0:
		out.Status = model.CompareUnavailable
		reason := model.FallbackInsufficientEvidence
		out.FallbackReason = &reason
	case noSignal && len(out.Uncertain) > 0 && uncertainMalformed == len(out.Uncertain):
		// Every uncertain item got there for lacking summary, source_url
		// or published_at, not merely for an ambiguous sentiment read.
		out.Status = model.CompareUnavailable
		reason := model.FallbackMissingSourceMetadata
		out.FallbackReason = &reason
	case len(out.Positive) == 0 || len(out.Negative) == 0:
		out.Status = model.CompareUnavailable
		reason := model.FallbackAxisImbalance
		out.FallbackReason = &reason
	case total < c.cfg.MinCompareItems:
		out.Status = model.CompareUnavailable
		reason := model.FallbackInsufficientEvidence
		out.FallbackReason = &reason
	case noSignal && len(out.Uncertain) > 0:
		out.Status = model.CompareUnavailable
		reason := model.FallbackAmbiguousClassification
		out.FallbackReason = &reason
	default:
		out.Status = model.CompareReady
	}

	c.store.Compare.Put(out)
	return out, nil
}

// Get returns the cached comparison if present, else computes it fresh.
func (c *Classifier) Get(eventID string) (model.EvidenceCompare, error) {
	if cached, ok := c.store.Compare.Get(eventID); ok {
		return cached, nil
	}
	return c.Compute(eventID)
}

// Invalidate drops the cached comparison, forcing the next Get to
// recompute. pkg/reportsm calls this after a reason revision changes an
// event's reason set.
func (c *Classifier) Invalidate(eventID string) {
	c.store.Compare.Invalidate(eventID)
}

func sign(d decimal.Decimal) int {
	switch {
	case d.IsPositive():
		return 1
	case d.IsNegative():
		return -1
	default:
		return 0
	}
}

// classify applies spec §4.9's axis rule: positive if polarity exceeds
// the threshold and direction aligns with the event's sign; negative if
// polarity falls below the negated threshold or direction opposes the
// event's sign; uncertain otherwise.
func classify(polarity float64, eventSign int, threshold float64) model.CompareAxis {
	aligned := eventSign == 0 || (polarity > 0) == (eventSign > 0)
	switch {
	case polarity > threshold && aligned:
		return model.AxisPositive
	case polarity < -threshold:
		return model.AxisNegative
	case !aligned && polarity != 0:
		return model.AxisNegative
	default:
		return model.AxisUncertain
	}
}
