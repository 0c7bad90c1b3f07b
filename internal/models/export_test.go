package models

import "time"

// SetNow pins the clock used by NewLead and returns a func restoring it.
func SetNow(t time.Time) (restore func()) {
	prev := now
	now = func() time.Time { return t }
	return func() { now = prev }
}
