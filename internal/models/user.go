// Package models provides data models for the volunteer hub system.
package models

// User is the normalized user shape produced by the auth bridge regardless
// of the underlying auth source (hosted OAuth session, demo user, none).
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl"`
}

// IsDemo reports whether the user originated from a demo sign-in.
func (u *User) IsDemo() bool {
	return len(u.ID) >= 5 && u.ID[:5] == "demo-"
}
