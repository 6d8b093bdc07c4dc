package models

// EventStats aggregates the per-user dashboard counters.
type EventStats struct {
	TotalPersonalEvents       int64
	TotalPersonalClosedEvents int64
	TotalAttendingEvents      int64
	TotalOthersAttendingMine  int64
}
