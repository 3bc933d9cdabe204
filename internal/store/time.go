package store

import "time"

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// now returns the current UTC time in SQLite's datetime format.
func now() string {
	return timeNow().UTC().Format("2006-01-02 15:04:05")
}
