package service

import "time"

// SetClock pins the clock of a stats or report service.
func SetClock(svc any, now func() time.Time) {
	switch s := svc.(type) {
	case *statsService:
		s.now = now
	case *reportService:
		s.now = now
	}
}
