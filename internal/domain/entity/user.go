package entity

import "time"

// User is the aggregate root for the member domain. Password holds a bcrypt
// hash, never the plaintext, and is excluded from every JSON projection.
type User struct {
	ID               string    `json:"id"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	Password         string    `json:"-"`
	ProfilePicture   string    `json:"profilePicture"`
	Bio              string    `json:"bio"`
	IsOnboarded      bool      `json:"isOnboarded"`
	NativeLanguage   string    `json:"nativeLanguage"`
	LearningLanguage string    `json:"learningLanguage"`
	Location         string    `json:"location"`
	Friends          []string  `json:"friends"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HasFriend reports whether id is already in the friend set.
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// UserCard is the public projection used wherever a user is shown to other
// members: friend lists and friend-request listings.
type UserCard struct {
	ID               string `json:"id"`
	FullName         string `json:"fullName"`
	ProfilePicture   string `json:"profilePicture"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
}

// Card returns the public projection of u.
func (u *User) Card() *UserCard {
	return &UserCard{
		ID:               u.ID,
		FullName:         u.FullName,
		ProfilePicture:   u.ProfilePicture,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
	}
}
