package chatdir

// SyncMessage is the queue payload asking the worker to upsert one user
// into the provider directory.
type SyncMessage struct {
	UserID string `json:"user_id"`
}
