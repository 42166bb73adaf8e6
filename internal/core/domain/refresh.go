package domain

import "time"

// RefreshStatus describes the most recent background feed refresh.
type RefreshStatus struct {
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
	Papers      int       `json:"papers"`
}
