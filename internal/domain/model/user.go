package model

// User is the identity of a GitHub account as shown next to comments,
// events and pull requests.
type User struct {
	Login     string
	AvatarURL string
}
