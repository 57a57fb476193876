package domain

import "time"

// Status is the portal's view of where an alignment project stands.
// pending means the external job is still running; completed and failed
// are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Project tracks one alignment request end-to-end. ThirdPartyID is the
// alignment service's job id and is the join key for every status poll.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       Status    `json:"status"`
	ThirdPartyID string    `json:"third_party_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// JobRef is the (project id, external job id) pair a refresh polls with.
type JobRef struct {
	ID           string
	ThirdPartyID string
}

// RefreshResult is one project's outcome within a refresh batch. Error is
// set when that project's poll or write-back failed; siblings are unaffected.
type RefreshResult struct {
	ID     string `json:"id"`
	Status Status `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}
