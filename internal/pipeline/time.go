package pipeline

import "time"

// timeNow is a package-level variable for testability.
// Tests replace it to control measured generation durations.
var timeNow = time.Now
