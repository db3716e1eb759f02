// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort      = "8080"
	DefaultDatabases = "main=scribe.db"
	DefaultWorkerURL = "http://127.0.0.1:5000"

	// Polling window for job trackers. Each poll waits a random duration
	// inside [DefaultPollMin, DefaultPollMax] to spread load on the worker.
	DefaultPollMin = 2 * time.Second
	DefaultPollMax = 5 * time.Second

	SubmitTimeout = 30 * time.Second
	StatusTimeout = 30 * time.Second
)

// Search
const (
	MaxSearchResults = 20
	MaxListedJobs    = 50

	HighlightOpen  = "<mark>"
	HighlightClose = "</mark>"
)

// HTTP
const (
	ActorHeader = "X-Scribe-Actor"
)
