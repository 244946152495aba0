package entity

import "time"

// RequestStatus is the lifecycle state of a friend request. The only
// transition is pending -> accepted.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
)

// FriendRequest is a directed proposal between two users. At most one
// request may exist for an unordered pair regardless of direction; the
// store enforces that with a uniqueness constraint.
type FriendRequest struct {
	ID          string        `json:"id"`
	SenderID    string        `json:"senderId"`
	RecipientID string        `json:"recipientId"`
	Status      RequestStatus `json:"status"`
	Sender      *UserCard     `json:"sender,omitempty"`
	Recipient   *UserCard     `json:"recipient,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
