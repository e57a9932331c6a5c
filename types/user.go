package types

import "time"

// User represents an account in the system.
// It contains identity, credential, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's email address, unique across accounts.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// OpenAIAPIKey is the user's personal completion-provider key, if set.
	// Never exposed in API responses.
	OpenAIAPIKey string `json:"-" db:"openai_api_key"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// LastLogin is the timestamp of the most recent successful login.
	// Nil until the user has logged in at least once.
	LastLogin *time.Time `json:"last_login,omitempty" db:"last_login"`
}
