package repository

import "time"

// Clock supplies creation timestamps. The store owns them; callers never do.
type Clock func() time.Time

// SystemClock is UTC wall time at the precision postgres keeps.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
