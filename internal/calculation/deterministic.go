package calculation

import "time"

// nowFunc returns the current time. It is the fallback for unparsable
// project dates (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }
