package application

import "errors"

// Business-rule sentinels. Handlers map these to HTTP statuses; anything
// not in this list is treated as an internal error, logged with context and
// surfaced to the client as a generic message.
var (
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfRequest        = errors.New("you cannot send a friend request to yourself")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrAlreadyFriends     = errors.New("you are already friends with this user")
	ErrRequestExists      = errors.New("friend request already exists")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrNotRecipient       = errors.New("you are not authorized to accept this friend request")
	ErrAlreadyAccepted    = errors.New("friend request already accepted")
)

// ValidationError carries the first failing field of a hand-rolled check
// (the binding layer covers the rest).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Message }
