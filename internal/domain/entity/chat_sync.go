package entity

import "time"

// ChatSyncJob is the durable pending-sync marker for the external chat
// directory. A row exists for every user whose profile has changed since
// the last successful directory upsert.
type ChatSyncJob struct {
	UserID    string     `json:"userId"`
	Attempts  int        `json:"attempts"`
	SyncedAt  *time.Time `json:"syncedAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
