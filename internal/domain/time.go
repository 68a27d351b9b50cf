package domain

import "time"

// UTCNow returns the current instant in UTC.
//
// Every scheduling timestamp in the system is a UTC instant: generated,
// stored, and compared in UTC so due-date arithmetic never depends on the
// server's timezone.
func UTCNow() time.Time {
	return time.Now().UTC()
}
