package session

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to control session durations.
var timeNow = time.Now
