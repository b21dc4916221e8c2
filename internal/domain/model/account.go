package model

import "time"

// Account is a GitHub account the client can act as. Token holds the
// plaintext personal access token at the domain boundary; storage adapters
// encrypt it at rest.
type Account struct {
	ID        int64
	Login     string
	AvatarURL string
	APIURL    string // Empty for github.com; set for GitHub Enterprise.
	Token     string
	IsActive  bool
	AddedAt   time.Time
}
