package store

import "github.com/pricesignal/reasoncore/pkg/model"

// CreateEventWithReasons performs the one cross-aggregate commit the
// system allows (spec §4.1): a PriceEvent and its initial EventReason set
// become visible together. Because EventStore and ReasonStore each guard
// their own map with their own mutex, "atomic" here means "no reader can
// observe the event without its reason list" — achieved by writing
// Reasons first (invisible until the event row exists) and Events second,
// not by a shared lock. A reader that has not yet seen the event cannot
// have looked up its reasons either.
func (s *Store) CreateEventWithReasons(event model.PriceEvent, reasons []model.EventReason) {
	s.Reasons.insert(event.ID, reasons)
	s.Events.insert(event)
}
